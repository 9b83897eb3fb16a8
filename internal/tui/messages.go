package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vitalink/companion/internal/logger"
	"github.com/vitalink/companion/internal/model"
	"github.com/vitalink/companion/internal/session"
	"go.uber.org/zap"
)

// Results of async backend calls. Each carries the (value, error) pair
// of exactly one operation; the pages map the error kind to a status
// line in Update.
type verifiedMsg struct {
	session session.Session
	err     error
}

type recordLoadedMsg struct {
	record *model.UserRecord
	err    error
}

type profileSavedMsg struct{ err error }

type metricsSavedMsg struct{ err error }

type deletionDoneMsg struct{ err error }

type loggedOutMsg struct{}

// OpenExportMsg switches to the export page.
type OpenExportMsg struct{}

// BackToDataMsg returns from the export page to the data page.
type BackToDataMsg struct{}

func verifyCmd(svc Services, token string) tea.Cmd {
	return func() tea.Msg {
		sess, err := svc.Verifier.Verify(context.Background(), token)
		return verifiedMsg{session: sess, err: err}
	}
}

func loadCmd(svc Services, userID string) tea.Cmd {
	return func() tea.Msg {
		record, err := svc.Loader.Load(context.Background(), userID)
		return recordLoadedMsg{record: record, err: err}
	}
}

func saveProfileCmd(svc Services, birthDate, gender string) tea.Cmd {
	return func() tea.Msg {
		return profileSavedMsg{err: svc.Updater.UpdateProfile(context.Background(), birthDate, gender)}
	}
}

func saveMetricsCmd(svc Services, height, weight string) tea.Cmd {
	return func() tea.Msg {
		return metricsSavedMsg{err: svc.Updater.UpdateMetrics(context.Background(), height, weight)}
	}
}

func confirmDeletionCmd(svc Services) tea.Cmd {
	return func() tea.Msg {
		return deletionDoneMsg{err: svc.Deletion.Confirm(context.Background())}
	}
}

func logoutCmd(svc Services) tea.Cmd {
	return func() tea.Msg {
		// A token file left behind would make the session resumable on
		// the next start.
		if err := svc.Verifier.Teardown(); err != nil {
			logger.Warn("failed to clear session on logout", zap.Error(err))
		}
		svc.Loader.Invalidate()
		return loggedOutMsg{}
	}
}
