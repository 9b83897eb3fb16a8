package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vitalink/companion/internal/bmi"
	"github.com/vitalink/companion/internal/deletion"
	"github.com/vitalink/companion/internal/model"
)

// Form field order on the data page.
const (
	fieldBirthDate = iota
	fieldGender
	fieldHeight
	fieldWeight
	fieldCount
)

// DataKeyMap holds key bindings for the data page
type DataKeyMap struct {
	nextField     key.Binding
	prevField     key.Binding
	submit        key.Binding
	export        key.Binding
	deleteAccount key.Binding
	logout        key.Binding
	quit          key.Binding
}

func newDataKeyMap() *DataKeyMap {
	return &DataKeyMap{
		nextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		prevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save section"),
		),
		export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "Export data"),
		),
		deleteAccount: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Delete account"),
		),
		logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Log out"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
	}
}

// DataModel is the data-management surface: profile and health-metrics
// forms, the derived BMI display, and the export/deletion entry points.
// It is only ever shown for a verified session.
type DataModel struct {
	svc    Services
	keys   *DataKeyMap
	inputs []textinput.Model
	focus  int
	record *model.UserRecord
	modal  ConfirmModal
	status string
	width  int
}

// NewDataModel creates a new data page model
func NewDataModel(svc Services) DataModel {
	inputs := make([]textinput.Model, fieldCount)
	placeholders := []string{"YYYY-MM-DD", "male/female/other", "height in cm (100-250)", "weight in kg (30-200)"}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Width = 28
		ti.Prompt = "> "
		inputs[i] = ti
	}
	inputs[fieldBirthDate].Focus()

	return DataModel{
		svc:    svc,
		keys:   newDataKeyMap(),
		inputs: inputs,
	}
}

// Init initializes the data page
func (m DataModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetRecord replaces the displayed record and refills the form fields
// from it, discarding any unsaved edits.
func (m DataModel) SetRecord(record *model.UserRecord) DataModel {
	m.record = record
	if record == nil {
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		return m
	}
	m.inputs[fieldBirthDate].SetValue(record.BirthDate)
	m.inputs[fieldGender].SetValue(record.Gender)
	if record.HealthMetrics != nil {
		m.inputs[fieldHeight].SetValue(formatMetric(record.HealthMetrics.Height))
		m.inputs[fieldWeight].SetValue(formatMetric(record.HealthMetrics.Weight))
	} else {
		m.inputs[fieldHeight].SetValue("")
		m.inputs[fieldWeight].SetValue("")
	}
	return m
}

// SetStatus replaces the status line.
func (m DataModel) SetStatus(status string) DataModel {
	m.status = status
	return m
}

// Update handles messages for the data page
func (m DataModel) Update(msg tea.Msg) (DataModel, tea.Cmd) {
	// While the deletion flow holds the screen, it gets the keys.
	switch m.svc.Deletion.State() {
	case deletion.StateConfirmPending:
		return m.handleConfirmUpdate(msg)
	case deletion.StateDeleting:
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.nextField):
			return m.moveFocus(1), nil
		case key.Matches(msg, m.keys.prevField):
			return m.moveFocus(-1), nil
		case key.Matches(msg, m.keys.submit):
			return m.submitFocusedSection()
		case key.Matches(msg, m.keys.export):
			return m, func() tea.Msg { return OpenExportMsg{} }
		case key.Matches(msg, m.keys.logout):
			m.status = "Logging out..."
			return m, logoutCmd(m.svc)
		case key.Matches(msg, m.keys.deleteAccount):
			if err := m.svc.Deletion.Request(); err != nil {
				m.status = errorMessageStyle("Deletion already in progress")
			}
			return m, nil
		}

	case profileSavedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m = m.SetRecord(m.svc.Loader.Current())
		m.status = statusMessageStyle("Profile updated")
		return m, nil

	case metricsSavedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m = m.SetRecord(m.svc.Loader.Current())
		m.status = statusMessageStyle("Health metrics updated")
		return m, nil

	case recordLoadedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m = m.SetRecord(msg.record)
		m.status = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// handleConfirmUpdate handles keys while the confirmation modal is up.
// Only an explicit "y" fires the delete call; everything else cancels
// or is ignored.
func (m DataModel) handleConfirmUpdate(msg tea.Msg) (DataModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y":
		m.status = ""
		return m, confirmDeletionCmd(m.svc)
	case "n", "esc":
		m.svc.Deletion.Cancel()
		m.status = "Deletion cancelled"
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m DataModel) moveFocus(delta int) DataModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

// submitFocusedSection saves the section owning the focused field:
// profile for birth date/gender, health metrics for height/weight.
func (m DataModel) submitFocusedSection() (DataModel, tea.Cmd) {
	if m.focus == fieldBirthDate || m.focus == fieldGender {
		m.status = "Saving profile..."
		return m, saveProfileCmd(m.svc,
			strings.TrimSpace(m.inputs[fieldBirthDate].Value()),
			strings.TrimSpace(m.inputs[fieldGender].Value()),
		)
	}
	m.status = "Saving health metrics..."
	return m, saveMetricsCmd(m.svc,
		strings.TrimSpace(m.inputs[fieldHeight].Value()),
		strings.TrimSpace(m.inputs[fieldWeight].Value()),
	)
}

// View renders the data page
func (m DataModel) View() string {
	switch m.svc.Deletion.State() {
	case deletion.StateConfirmPending:
		return docStyle.Render(m.modal.View())
	case deletion.StateDeleting:
		return docStyle.Render(m.modal.ViewDeleting())
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("My Data"))
	sb.WriteString("\n\n")

	if m.record == nil {
		sb.WriteString("No record loaded.\n\n")
	} else {
		sb.WriteString(fieldLabelStyle.Render("Account"))
		sb.WriteString(m.record.UserID)
		if m.record.Provider != "" {
			sb.WriteString(fmt.Sprintf(" (via %s)", m.record.Provider))
		}
		sb.WriteString("\n")
		sb.WriteString(fieldLabelStyle.Render("Joined"))
		sb.WriteString(m.record.CreatedAt)
		sb.WriteString("\n\n")
	}

	sb.WriteString(sectionStyle.Render("Profile"))
	sb.WriteString("\n")
	sb.WriteString(fieldLabelStyle.Render("Birth date"))
	sb.WriteString(m.inputs[fieldBirthDate].View())
	sb.WriteString("\n")
	sb.WriteString(fieldLabelStyle.Render("Gender"))
	sb.WriteString(m.inputs[fieldGender].View())
	sb.WriteString("\n\n")

	sb.WriteString(sectionStyle.Render("Health metrics"))
	sb.WriteString("\n")
	sb.WriteString(fieldLabelStyle.Render("Height"))
	sb.WriteString(m.inputs[fieldHeight].View())
	sb.WriteString("\n")
	sb.WriteString(fieldLabelStyle.Render("Weight"))
	sb.WriteString(m.inputs[fieldWeight].View())
	sb.WriteString("\n")
	sb.WriteString(fieldLabelStyle.Render("BMI"))
	sb.WriteString(m.bmiLine())
	sb.WriteString("\n\n")

	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n\n")
	}
	sb.WriteString(helpStyle.Render("(tab) Move | (enter) Save section | (ctrl+e) Export | (ctrl+l) Log out | (ctrl+d) Delete account | (ctrl+c) Quit"))

	return docStyle.Render(sb.String())
}

// bmiLine recomputes the derived BMI from the loaded record on every
// render. It reflects saved values only, never unsaved form input.
func (m DataModel) bmiLine() string {
	if m.record == nil || m.record.HealthMetrics == nil {
		return "-"
	}
	value, ok := bmi.Compute(m.record.HealthMetrics.Height, m.record.HealthMetrics.Weight)
	if !ok {
		return "-"
	}
	return value.String()
}

func formatMetric(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
