// Package tui renders an import session as an interactive table: per-row
// status indicators while suggestions are in flight, inline category edits,
// deletes, and export actions. Failures stay local to one row; there are no
// blocking dialogs.
package tui

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orderflow/orderflow/internal/engine"
	"github.com/orderflow/orderflow/internal/export"
	"github.com/orderflow/orderflow/internal/model"
)

// Model is the bubbletea model for an import session table.
type Model struct {
	session   *engine.Session
	rows      []model.Product
	input     textinput.Model
	spin      spinner.Model
	outputDir string
	status    string
	cursor    int
	editing   bool
	running   bool
	quitting  bool
}

// NewModel creates a table over the given session. outputDir is where the
// export artifacts land.
func NewModel(session *engine.Session, outputDir string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "category"
	ti.CharLimit = 64

	return Model{
		session:   session,
		rows:      session.Snapshot(),
		spin:      sp,
		input:     ti,
		outputDir: outputDir,
		running:   true,
	}
}

// Init starts the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.session.Events()))
}

// waitForEvent delivers the next session event as a message. The channel
// closing means every record has settled.
func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return runFinishedMsg{}
		}
		return recordEventMsg(ev)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordEventMsg:
		m.rows = m.session.Snapshot()
		return m, waitForEvent(m.session.Events())

	case runFinishedMsg:
		m.running = false
		m.rows = m.session.Snapshot()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		} else {
			m.status = statusStyle.Render("exported " + msg.path)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

// updateBrowsing handles keys in table navigation mode.
func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "e":
		if m.cursor < len(m.rows) {
			row := m.rows[m.cursor]
			if row.Status == model.StatusProcessed || row.Status == model.StatusError {
				m.editing = true
				m.input.SetValue(row.Category)
				m.input.Focus()
				return m, textinput.Blink
			}
			m.status = statusStyle.Render("wait for this row to settle before editing")
		}

	case "d":
		if m.cursor < len(m.rows) {
			id := m.rows[m.cursor].ID
			_ = m.session.Delete(id)
			m.rows = m.session.Snapshot()
			if m.cursor >= len(m.rows) && m.cursor > 0 {
				m.cursor--
			}
		}

	case "c":
		return m, m.exportCmd(export.FormatCSV)

	case "j":
		return m, m.exportCmd(export.FormatJSON)
	}

	return m, nil
}

// updateEditing handles keys while the category input is focused.
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.cursor < len(m.rows) {
			_ = m.session.Edit(m.rows[m.cursor].ID, m.input.Value())
			m.rows = m.session.Snapshot()
		}
		m.editing = false
		m.input.Blur()
		return m, nil

	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exportCmd serializes the current snapshot in the background.
func (m Model) exportCmd(format export.Format) tea.Cmd {
	snapshot := m.session.Snapshot()
	path := filepath.Join(m.outputDir, export.DefaultFileName(format))
	return func() tea.Msg {
		return exportedMsg{path: path, err: export.WriteFile(path, format, snapshot)}
	}
}

// View renders the table.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b []string
	b = append(b, titleStyle.Render("OrderFlow product import"))
	b = append(b, headerStyle.Render(fmt.Sprintf("%-40s %10s  %-24s %s", "Description", "Price", "Category", "Status")))

	for i, row := range m.rows {
		line := fmt.Sprintf("%-40s %10s  %-24s %s",
			truncate(row.Description, 40),
			strconv.FormatFloat(row.Price, 'f', -1, 64),
			truncate(row.Category, 24),
			m.renderStatus(row))
		if i == m.cursor && !m.editing {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b = append(b, line)
	}

	if m.editing {
		b = append(b, "", "New category: "+m.input.View())
	}

	totals := m.session.Totals()
	b = append(b, "", footerStyle.Render(fmt.Sprintf("%d items, total %s", totals.Count,
		strconv.FormatFloat(totals.Sum, 'f', 2, 64))))

	if m.status != "" {
		b = append(b, m.status)
	}

	help := "↑/↓ move · e edit · d delete · c export csv · j export json · q quit"
	b = append(b, footerStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, b...)
}

// renderStatus renders the per-row status cell.
func (m Model) renderStatus(row model.Product) string {
	switch row.Status {
	case model.StatusPending:
		return pendingStyle.Render("waiting")
	case model.StatusProcessing:
		return m.spin.View() + " categorizing"
	case model.StatusProcessed:
		return processedStyle.Render(fmt.Sprintf("✓ %.2f", row.AIConfidence))
	case model.StatusError:
		return errorStyle.Render("✗ " + truncate(row.Err, 30))
	default:
		return string(row.Status)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
