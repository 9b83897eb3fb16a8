package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ExportView prompts for a filename and writes the cached record to it.
// The export is synchronous and reflects the last loaded record, never
// unsaved form values.
type ExportView struct {
	svc          Services
	textInput    textinput.Model
	exportStatus string
	width        int
	height       int
}

// NewExportView creates a new export view
func NewExportView(svc Services) ExportView {
	ti := textinput.New()
	ti.Placeholder = "my-data.json (or .yaml)"
	ti.Focus()
	ti.Width = 40

	return ExportView{
		svc:       svc,
		textInput: ti,
	}
}

// Init initializes the export view
func (m ExportView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the export view
func (m ExportView) Update(msg tea.Msg) (ExportView, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return BackToDataMsg{} }
		case "enter":
			filename := strings.TrimSpace(m.textInput.Value())
			if filename == "" {
				m.exportStatus = errorMessageStyle("Please enter a filename")
				return m, nil
			}
			if err := m.svc.Exporter.Export(filename); err != nil {
				m.exportStatus = errorStatus(err)
				return m, nil
			}
			m.exportStatus = statusMessageStyle(fmt.Sprintf("Successfully exported to %s", filename))
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the export view
func (m ExportView) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Export My Data"))
	sb.WriteString("\n\n")
	sb.WriteString("Enter a filename for the export (.json or .yaml):\n\n")
	sb.WriteString(m.textInput.View())
	sb.WriteString("\n\n")
	if m.exportStatus != "" {
		sb.WriteString(m.exportStatus)
		sb.WriteString("\n\n")
	}
	sb.WriteString(helpStyle.Render("(esc) Back | (enter) Export"))

	return docStyle.Render(sb.String())
}
