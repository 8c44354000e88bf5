package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-loglens/internal/export"
	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
)

// listItem implements the list.Item interface for the asset list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewFileInput creates a new text input for the log file path.
func NewFileInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/bot.log"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60
	ti.Prompt = "> "

	return ti
}

// NewAssetList creates the asset filter list for a result.
func NewAssetList(result *analyzer.Result) list.Model {
	items := []list.Item{
		listItem{
			name:        analyzer.FilterAll,
			description: fmt.Sprintf("All sessions (%d)", len(result.Sessions)),
		},
	}

	for _, asset := range result.Assets {
		items = append(items, listItem{
			name:        asset,
			description: fmt.Sprintf("%d sessions", len(result.SessionsFor(asset))),
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Asset"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewSessionTable creates the session overview table.
func NewSessionTable() table.Model {
	columns := []table.Column{
		{Title: "Asset", Width: 8},
		{Title: "Start", Width: 24},
		{Title: "Duration", Width: 12},
		{Title: "Events", Width: 8},
		{Title: "Qty", Width: 10},
		{Title: "Direction", Width: 10},
		{Title: "Closed", Width: 8},
	}

	return newStyledTable(columns)
}

// NewOrderTable creates the order/fill detail table.
func NewOrderTable() table.Model {
	columns := []table.Column{
		{Title: "Submitted", Width: 24},
		{Title: "Symbol", Width: 10},
		{Title: "Side", Width: 6},
		{Title: "Qty", Width: 10},
		{Title: "Filled", Width: 10},
		{Title: "Price", Width: 12},
		{Title: "Status", Width: 12},
		{Title: "Latency", Width: 10},
	}

	return newStyledTable(columns)
}

func newStyledTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateSessionRows fills the session table from the filtered sessions.
func UpdateSessionRows(t table.Model, sessions []*types.StrategySession) table.Model {
	rows := make([]table.Row, 0, len(sessions))

	for _, session := range sessions {
		closed := "no"
		if session.Closed() {
			closed = "yes"
		}

		rows = append(rows, table.Row{
			session.Asset,
			session.StartTime.Format("2006-01-02 15:04:05.000"),
			export.FormatDuration(session.Duration()),
			fmt.Sprintf("%d", len(session.Events)),
			FormatQty(session.Config.Quantity),
			session.Config.Direction,
			closed,
		})
	}

	t.SetRows(rows)

	return t
}

// UpdateOrderRows fills the order table from the flat detail list.
func UpdateOrderRows(t table.Model, orders []*types.OrderDetail) table.Model {
	rows := make([]table.Row, 0, len(orders))

	for _, order := range orders {
		latency := ""
		if order.LatencyMs.IsSome() {
			latency = export.FormatLatency(order.LatencyMs.Unwrap())
		}

		rows = append(rows, table.Row{
			order.SubmitTime.Format("2006-01-02 15:04:05.000"),
			order.Symbol,
			order.Side,
			FormatQty(order.Quantity),
			FormatQty(order.CumFilledQty),
			fmt.Sprintf("%.4f", order.Price),
			order.Status.Display(),
			latency,
		})
	}

	t.SetRows(rows)

	return t
}
