package tui

import (
	"strings"
)

// ConfirmModal is the confirmation gate in front of account deletion.
// It owns no state beyond its rendering; the deletion flow tracks where
// the user is in the Idle -> ConfirmPending -> Deleting progression.
type ConfirmModal struct{}

// View renders the confirmation prompt.
func (ConfirmModal) View() string {
	var sb strings.Builder
	sb.WriteString(dangerStyle.Render("Delete account"))
	sb.WriteString("\n\n")
	sb.WriteString("This permanently deletes your account and all data.\n")
	sb.WriteString("This cannot be undone.\n\n")
	sb.WriteString(helpStyle.Render("(y) Delete permanently | (n/esc) Cancel"))
	return sb.String()
}

// ViewDeleting renders the in-flight state.
func (ConfirmModal) ViewDeleting() string {
	var sb strings.Builder
	sb.WriteString(dangerStyle.Render("Delete account"))
	sb.WriteString("\n\n")
	sb.WriteString("Deleting account...")
	return sb.String()
}
