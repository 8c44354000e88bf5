// Package export serializes analysis results into the JSON report contract
// and loads previously written reports back, gated on version compatibility.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-loglens/internal/analysis"
	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/rxtech-lab/argo-loglens/internal/version"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
)

// timeLayout matches the source log's timestamp format.
const timeLayout = "2006-01-02 15:04:05.000"

// FileMetadata describes the analyzed log file.
type FileMetadata struct {
	Name string `json:"name"`
	// SizeBytes is the byte length of the raw content.
	SizeBytes int `json:"size_bytes"`
	// Lines is the total line count, parsed or not.
	Lines int `json:"lines"`
}

// SessionSummary is one row of the report's session table.
type SessionSummary struct {
	Asset     string `json:"asset"`
	StartTime string `json:"start_time"`
	// EndTime is empty for sessions that never observed a stop marker.
	EndTime    string              `json:"end_time,omitempty"`
	Duration   string              `json:"duration"`
	Config     types.SessionConfig `json:"config"`
	EventCount int                 `json:"event_count"`
}

// OrderRow is one row of the report's order table, fully display-rendered.
type OrderRow struct {
	SubmitTime string `json:"submit_time"`
	// FillTime is empty until a fill was observed.
	FillTime      string  `json:"fill_time,omitempty"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	OrderType     string  `json:"order_type"`
	Quantity      float64 `json:"quantity"`
	LastFilledQty float64 `json:"last_filled_qty"`
	CumFilledQty  float64 `json:"cum_filled_qty"`
	Price         float64 `json:"price"`
	Status        string  `json:"status"`
	OrderID       string  `json:"order_id"`
	// Latency is rendered with a trailing "ms", empty when unreported.
	Latency string `json:"latency,omitempty"`
	PairID  string `json:"pair_id,omitempty"`
}

// StatisticsBlock mirrors SessionStats field names, with derived rates
// rendered as percentage strings and latency as a millisecond string.
type StatisticsBlock struct {
	SpreadTriggers int `json:"spread_triggers"`

	OrderPairs struct {
		Attempted   int    `json:"attempted"`
		Succeeded   int    `json:"succeeded"`
		SuccessRate string `json:"success_rate"`
	} `json:"order_pairs"`

	Orders struct {
		Total          int    `json:"total"`
		Accepted       int    `json:"accepted"`
		Rejected       int    `json:"rejected"`
		AcceptRate     string `json:"accept_rate"`
		AverageLatency string `json:"average_latency"`
	} `json:"orders"`

	Fills struct {
		Total        int     `json:"total"`
		Partial      int     `json:"partial"`
		Full         int     `json:"full"`
		UsdtQty      float64 `json:"usdt_qty"`
		UsdcQty      float64 `json:"usdc_qty"`
		AveragePrice float64 `json:"average_price"`
	} `json:"fills"`

	FastChase struct {
		Events          int            `json:"events"`
		Successes       int            `json:"successes"`
		SuccessRate     string         `json:"success_rate"`
		AverageRetries  float64        `json:"average_retries"`
		FallbackReasons map[string]int `json:"fallback_reasons"`
	} `json:"fast_chase"`

	Errors types.ErrorStats `json:"errors"`
}

// Report is the exported JSON document.
type Report struct {
	ID          string       `json:"id"`
	Version     string       `json:"version"`
	GeneratedAt string       `json:"generated_at"`
	File        FileMetadata `json:"file"`
	// Filter is the active asset filter, "all" when unfiltered.
	Filter   string           `json:"filter"`
	Sessions []SessionSummary `json:"sessions"`
	Stats    StatisticsBlock  `json:"stats"`
	Orders   []OrderRow       `json:"orders"`
}

// BuildReport assembles the report document from analysis output.
func BuildReport(file FileMetadata, filter string, sessions []*types.StrategySession, stats types.SessionStats, orders []*types.OrderDetail) *Report {
	report := &Report{
		ID:          uuid.NewString(),
		Version:     version.GetVersion(),
		GeneratedAt: time.Now().Format(timeLayout),
		File:        file,
		Filter:      filter,
		Sessions:    make([]SessionSummary, 0, len(sessions)),
		Stats:       buildStatisticsBlock(stats),
		Orders:      make([]OrderRow, 0, len(orders)),
	}

	for _, session := range sessions {
		summary := SessionSummary{
			Asset:      session.Asset,
			StartTime:  session.StartTime.Format(timeLayout),
			Duration:   FormatDuration(session.Duration()),
			Config:     session.Config,
			EventCount: len(session.Events),
		}
		if session.EndTime.IsSome() {
			summary.EndTime = session.EndTime.Unwrap().Format(timeLayout)
		}

		report.Sessions = append(report.Sessions, summary)
	}

	for _, order := range orders {
		report.Orders = append(report.Orders, buildOrderRow(order))
	}

	return report
}

func buildStatisticsBlock(stats types.SessionStats) StatisticsBlock {
	var block StatisticsBlock

	block.SpreadTriggers = stats.SpreadTriggers

	block.OrderPairs.Attempted = stats.OrderPairs.Attempted
	block.OrderPairs.Succeeded = stats.OrderPairs.Succeeded
	block.OrderPairs.SuccessRate = FormatPercent(stats.OrderPairs.SuccessRate())

	block.Orders.Total = stats.Orders.Total
	block.Orders.Accepted = stats.Orders.Accepted
	block.Orders.Rejected = stats.Orders.Rejected
	block.Orders.AcceptRate = FormatPercent(stats.Orders.AcceptRate())
	block.Orders.AverageLatency = FormatLatency(stats.Orders.AverageLatency())

	block.Fills.Total = stats.Fills.Total
	block.Fills.Partial = stats.Fills.Partial
	block.Fills.Full = stats.Fills.Full
	block.Fills.UsdtQty = stats.Fills.UsdtQty
	block.Fills.UsdcQty = stats.Fills.UsdcQty
	block.Fills.AveragePrice = stats.Fills.AveragePrice()

	block.FastChase.Events = stats.FastChase.Events
	block.FastChase.Successes = stats.FastChase.Successes
	block.FastChase.SuccessRate = FormatPercent(stats.FastChase.SuccessRate())
	block.FastChase.AverageRetries = stats.FastChase.AverageRetries()
	block.FastChase.FallbackReasons = stats.FastChase.FallbackReasons

	block.Errors = stats.Errors

	return block
}

func buildOrderRow(order *types.OrderDetail) OrderRow {
	row := OrderRow{
		SubmitTime:    order.SubmitTime.Format(timeLayout),
		Symbol:        order.Symbol,
		Side:          order.Side,
		OrderType:     order.OrderType,
		Quantity:      order.Quantity,
		LastFilledQty: order.LastFilledQty,
		CumFilledQty:  order.CumFilledQty,
		Price:         order.Price,
		Status:        order.Status.Display(),
		OrderID:       order.OrderID,
		PairID:        order.PairID,
	}

	if order.FillTime.IsSome() {
		row.FillTime = order.FillTime.Unwrap().Format(timeLayout)
	}

	if order.LatencyMs.IsSome() {
		row.Latency = FormatLatency(order.LatencyMs.Unwrap())
	}

	return row
}

// BuildSessionReport is a convenience over BuildReport that derives stats and
// the flat order table from the session set itself.
func BuildSessionReport(file FileMetadata, filter string, sessions []*types.StrategySession) *Report {
	stats := analysis.ComputeStats(sessions)
	orders := analysis.OrderDetails(sessions)

	return BuildReport(file, filter, sessions, stats, orders)
}

// Marshal renders the report as indented JSON.
func (r *Report) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportMarshalFailed, "failed to marshal report", err)
	}

	return data, nil
}

// Save writes the report as indented JSON to path.
func (r *Report) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeExportWriteFailed, err, "failed to write report to %s", path)
	}

	return nil
}

// Load reads a report written by Save and rejects documents produced by an
// incompatible build.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReportReadFailed, err, "failed to read report from %s", path)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportReadFailed, "failed to parse report", err)
	}

	if err := version.CheckReportCompatibility(version.GetVersion(), report.Version); err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportIncompatible, "report version is incompatible", err)
	}

	return &report, nil
}

// FormatPercent renders a percentage value with a trailing "%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatLatency renders a millisecond latency with a trailing "ms".
func FormatLatency(v float64) string {
	return fmt.Sprintf("%.2fms", v)
}

// FormatDuration renders a session duration in whole milliseconds with a
// trailing "ms".
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
