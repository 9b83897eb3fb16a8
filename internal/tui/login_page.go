package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginKeyMap holds key bindings for the login page
type LoginKeyMap struct {
	submit key.Binding
	quit   key.Binding
}

func newLoginKeyMap() *LoginKeyMap {
	return &LoginKeyMap{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Verify token"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "Quit"),
		),
	}
}

// LoginModel is the login surface. Social login is stubbed behind a
// manual token prompt: the user pastes the session token issued to the
// mobile app and the client verifies it against the backend.
type LoginModel struct {
	svc        Services
	keys       *LoginKeyMap
	tokenInput textinput.Model
	status     string
	verifying  bool
	width      int
}

// NewLoginModel creates a new login page model
func NewLoginModel(svc Services) LoginModel {
	ti := textinput.New()
	ti.Placeholder = "session token"
	ti.Focus()
	ti.Width = 48

	return LoginModel{
		svc:        svc,
		keys:       newLoginKeyMap(),
		tokenInput: ti,
	}
}

// Init initializes the login page
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login page
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.submit):
			token := strings.TrimSpace(m.tokenInput.Value())
			if token == "" {
				m.status = errorMessageStyle("Please enter a token")
				return m, nil
			}
			if m.verifying {
				return m, nil
			}
			m.verifying = true
			m.status = "Verifying token..."
			return m, verifyCmd(m.svc, token)
		}

	case verifiedMsg:
		m.verifying = false
		if msg.err != nil {
			m.status = errorStatus(msg.err)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	var cmd tea.Cmd
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

// SetStatus replaces the status line.
func (m LoginModel) SetStatus(status string) LoginModel {
	m.status = status
	m.verifying = false
	return m
}

// Reset clears the token input and status for a fresh login.
func (m LoginModel) Reset() LoginModel {
	m.tokenInput.SetValue("")
	m.verifying = false
	m.status = ""
	return m
}

// View renders the login page
func (m LoginModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("VitaLink Companion"))
	sb.WriteString("\n\n")
	sb.WriteString("Sign in with the session token from the VitaLink mobile app.\n")
	sb.WriteString("Open the app, go to Settings > Web access, and paste the token below.\n\n")
	sb.WriteString(m.tokenInput.View())
	sb.WriteString("\n\n")
	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n\n")
	}
	sb.WriteString(helpStyle.Render("(enter) Verify | (ctrl+c) Quit"))

	return docStyle.Render(sb.String())
}
