package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-loglens/internal/export"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
)

// Application states.
const (
	StateFileInput = iota
	StateAssetSelect
	StateSessionDisplay
	StateOrderDisplay
)

// Model is the main Bubble Tea model for the log viewer.
type Model struct {
	state        int
	fileInput    textinput.Model
	assetList    list.Model
	sessionTable table.Model
	orderTable   table.Model
	analyzer     *analyzer.Analyzer
	result       *analyzer.Result
	filter       string
	err          error
	width        int
	height       int
}

// NewModel creates a new Model with initial state.
func NewModel(a *analyzer.Analyzer) Model {
	return Model{
		state:        StateFileInput,
		fileInput:    NewFileInput(),
		sessionTable: NewSessionTable(),
		orderTable:   NewOrderTable(),
		analyzer:     a,
		filter:       analyzer.FilterAll,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateFileInput {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.assetList.SetSize(msg.Width, msg.Height-4)
		m.sessionTable.SetWidth(msg.Width)
		m.sessionTable.SetHeight(msg.Height - 8)
		m.orderTable.SetWidth(msg.Width)
		m.orderTable.SetHeight(msg.Height - 8)

		return m, nil

	case ResultLoadedMsg:
		m.result = msg.Result
		m.err = nil
		m.assetList = NewAssetList(m.result)
		m.assetList.SetSize(m.width, m.height-4)
		m.state = StateAssetSelect

		return m, nil

	case LoadErrorMsg:
		m.err = msg.Err

		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateFileInput:
		return m.updateFileInput(msg)
	case StateAssetSelect:
		return m.updateAssetSelect(msg)
	case StateSessionDisplay:
		return m.updateSessionDisplay(msg)
	case StateOrderDisplay:
		return m.updateOrderDisplay(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateAssetSelect:
		m.state = StateFileInput
		m.err = nil
		m.fileInput.Focus()

		return m, textinput.Blink
	case StateSessionDisplay, StateOrderDisplay:
		m.state = StateAssetSelect
	}

	return m, nil
}

func (m Model) updateFileInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			path := strings.TrimSpace(m.fileInput.Value())
			if path != "" {
				m.fileInput.Blur()

				return m, m.loadFile(path)
			}
		}
	}

	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)

	return m, cmd
}

func (m Model) updateAssetSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if item, ok := m.assetList.SelectedItem().(listItem); ok {
				m.filter = item.name
				m.sessionTable = UpdateSessionRows(m.sessionTable, m.result.SessionsFor(m.filter))
				m.orderTable = UpdateOrderRows(m.orderTable, m.result.Orders(m.filter))
				m.state = StateSessionDisplay

				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.assetList, cmd = m.assetList.Update(msg)

	return m, cmd
}

func (m Model) updateSessionDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "tab" {
			m.state = StateOrderDisplay

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.sessionTable, cmd = m.sessionTable.Update(msg)

	return m, cmd
}

func (m Model) updateOrderDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "tab" {
			m.state = StateSessionDisplay

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.orderTable, cmd = m.orderTable.Update(msg)

	return m, cmd
}

// loadFile returns a command that reads and analyzes the log file.
func (m Model) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		result, err := m.analyzer.Analyze(path, string(content))
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		return ResultLoadedMsg{Result: result}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateFileInput:
		s.WriteString(TitleStyle.Render("Argo LogLens"))
		s.WriteString("\n\n")
		s.WriteString("Enter the path of a strategy log file:\n\n")
		s.WriteString(m.fileInput.View())
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to load, Ctrl+C to quit"))

	case StateAssetSelect:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Assets - %s", m.result.FileName)))
		s.WriteString("\n\n")
		s.WriteString(m.assetList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, Esc to go back, q to quit"))

	case StateSessionDisplay:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Sessions - %s", m.filter)))
		s.WriteString("\n\n")
		s.WriteString(m.sessionTable.View())
		s.WriteString("\n")
		s.WriteString(m.statsLine())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Tab: orders | Esc: back | q: quit"))

	case StateOrderDisplay:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Orders - %s", m.filter)))
		s.WriteString("\n\n")
		s.WriteString(m.orderTable.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Tab: sessions | Esc: back | q: quit"))
	}

	return s.String()
}

// statsLine renders a one-line aggregate summary under the session table.
func (m Model) statsLine() string {
	stats := m.result.Stats(m.filter)

	return HelpStyle.Render(fmt.Sprintf(
		"Triggers: %d | Orders: %d (%s accepted) | Fills: %d | Avg latency: %s",
		stats.SpreadTriggers,
		stats.Orders.Total,
		export.FormatPercent(stats.Orders.AcceptRate()),
		stats.Fills.Total,
		export.FormatLatency(stats.Orders.AverageLatency()),
	))
}
