package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/logger"
	"go.uber.org/zap"
)

// Pages of the application.
const (
	pageLogin  = "login"
	pageData   = "data"
	pageExport = "export"
)

// AppModel is the main application model that manages page switching.
// The data surface is only ever reachable through a verified session;
// any session teardown routes straight back to the login page.
type AppModel struct {
	svc        Services
	loginPage  LoginModel
	dataPage   DataModel
	exportView ExportView
	page       string
}

// NewAppModel creates a new AppModel wired to the application services
func NewAppModel(svc Services) AppModel {
	return AppModel{
		svc:       svc,
		loginPage: NewLoginModel(svc),
		dataPage:  NewDataModel(svc),
		page:      pageLogin,
	}
}

// Init initializes the AppModel. A token persisted by a previous run is
// verified right away; otherwise the login prompt waits for manual
// entry.
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loginPage.Init()}

	token, err := m.svc.Store.Read()
	if err == nil && token != "" {
		cmds = append(cmds, verifyCmd(m.svc, token))
	}
	return tea.Batch(cmds...)
}

// Update handles app-level messages and delegates to the active page
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case verifiedMsg:
		if msg.err == nil {
			// A fresh session gets a fresh deletion flow.
			m.svc.Deletion.Reset()
			m.page = pageData
			m.dataPage = m.dataPage.SetStatus("Loading your data...")
			return m, tea.Batch(m.dataPage.Init(), loadCmd(m.svc, msg.session.UserID))
		}
		m.page = pageLogin
		var cmd tea.Cmd
		m.loginPage, cmd = m.loginPage.Update(msg)
		return m, cmd

	case recordLoadedMsg:
		// A rejected token during load means the session died between
		// verification and now; tear down and return to login.
		if msg.err != nil && errors.Is(msg.err, api.ErrUnauthorized) {
			return m.teardownToLogin(errorStatus(msg.err)), nil
		}
		var cmd tea.Cmd
		m.dataPage, cmd = m.dataPage.Update(msg)
		return m, cmd

	case profileSavedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.teardownToLogin(errorStatus(msg.err)), nil
		}

	case metricsSavedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m.teardownToLogin(errorStatus(msg.err)), nil
		}

	case deletionDoneMsg:
		if msg.err == nil {
			return m.toLogin(statusMessageStyle("Your account has been deleted.")), nil
		}
		m.dataPage = m.dataPage.SetStatus(errorStatus(msg.err))
		return m, nil

	case loggedOutMsg:
		return m.toLogin(statusMessageStyle("Logged out.")), nil

	case OpenExportMsg:
		m.page = pageExport
		m.exportView = NewExportView(m.svc)
		return m, m.exportView.Init()

	case BackToDataMsg:
		m.page = pageData
		return m, nil

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		m.loginPage, cmd = m.loginPage.Update(msg)
		cmds = append(cmds, cmd)
		m.dataPage, cmd = m.dataPage.Update(msg)
		cmds = append(cmds, cmd)
		m.exportView, cmd = m.exportView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Delegate message to the active page
	var cmd tea.Cmd
	switch m.page {
	case pageLogin:
		m.loginPage, cmd = m.loginPage.Update(msg)
	case pageData:
		m.dataPage, cmd = m.dataPage.Update(msg)
	case pageExport:
		m.exportView, cmd = m.exportView.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// teardownToLogin destroys the session after a mid-session 401: the
// persisted token, the in-memory session and the record cache are all
// cleared before the view returns to the login surface.
func (m AppModel) teardownToLogin(status string) AppModel {
	if err := m.svc.Verifier.Teardown(); err != nil {
		logger.Warn("failed to clear session", zap.Error(err))
	}
	m.svc.Loader.Invalidate()
	return m.toLogin(status)
}

// toLogin tears the view back to the login surface. The record display
// is cleared so no stale data survives a destroyed session.
func (m AppModel) toLogin(status string) AppModel {
	m.page = pageLogin
	m.dataPage = m.dataPage.SetRecord(nil)
	m.loginPage = m.loginPage.Reset().SetStatus(status)
	return m
}

// View renders the active page
func (m AppModel) View() string {
	switch m.page {
	case pageData:
		return m.dataPage.View()
	case pageExport:
		return m.exportView.View()
	default:
		return m.loginPage.View()
	}
}

// AccountDeleted reports whether an account was deleted during this
// run, for the post-run summary.
func (m AppModel) AccountDeleted() bool {
	return m.svc.Deletion.Deleted()
}
