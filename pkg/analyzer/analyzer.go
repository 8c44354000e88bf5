// Package analyzer is the high-level entry point: it turns the raw text of
// one strategy log file into sessions, statistics, and order tables.
package analyzer

import (
	"strings"

	"github.com/rxtech-lab/argo-loglens/internal/analysis"
	"github.com/rxtech-lab/argo-loglens/internal/export"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/internal/parser"
	"github.com/rxtech-lab/argo-loglens/internal/session"
	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
	"go.uber.org/zap"
)

// FilterAll selects every session regardless of asset.
const FilterAll = "all"

// Analyzer wires the parser, the session grouper, and the statistics engine
// behind one call.
type Analyzer struct {
	config  Config
	parser  *parser.Parser
	grouper *session.Grouper
	logger  *logger.Logger
}

// NewAnalyzer creates an Analyzer from a validated config.
func NewAnalyzer(config Config, log *logger.Logger) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{
		config: config,
		parser: parser.New(parser.Options{
			KnownAssets:   config.KnownAssets,
			QuoteSuffixes: config.QuoteSuffixes,
		}),
		grouper: session.NewGrouper(session.Markers{
			Start: config.StartMarker,
			Stops: config.StopMarkers,
		}),
		logger: log,
	}, nil
}

// Result is the complete, independently owned output of one analysis pass.
// Re-analyzing produces a fresh Result; no previous one is mutated.
type Result struct {
	// FileName is the display name of the analyzed file.
	FileName string
	// SizeBytes is the byte length of the raw content.
	SizeBytes int
	// LineCount is the total line count, parsed or not.
	LineCount int
	// Events are the parsed events in encounter order.
	Events []types.LogEvent
	// Sessions are the reconstructed sessions in encounter order.
	Sessions []*types.StrategySession
	// Assets are the discovered tickers ordered by first appearance.
	Assets []string
}

// Analyze parses content and reconstructs sessions. Malformed lines are
// dropped, never reported; the only error is empty input.
func (a *Analyzer) Analyze(name, content string) (*Result, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrCodeEmptyInput, "log content is empty")
	}

	lines := strings.Split(content, "\n")

	result := &Result{
		FileName:  name,
		SizeBytes: len(content),
		LineCount: len(lines),
	}

	for _, line := range lines {
		event, ok := a.parser.ParseLine(line)
		if !ok {
			continue
		}

		result.Events = append(result.Events, event)
	}

	result.Sessions = a.grouper.Group(result.Events)
	result.Assets = discoverAssets(result.Events)

	a.logger.Info("analyzed log file",
		zap.String("file", name),
		zap.Int("lines", result.LineCount),
		zap.Int("events", len(result.Events)),
		zap.Int("sessions", len(result.Sessions)),
		zap.Strings("assets", result.Assets),
	)

	return result, nil
}

// discoverAssets returns tickers ordered by first appearance in the stream.
func discoverAssets(events []types.LogEvent) []string {
	seen := make(map[string]bool)

	var assets []string

	for _, event := range events {
		if event.Asset == "" || seen[event.Asset] {
			continue
		}

		seen[event.Asset] = true
		assets = append(assets, event.Asset)
	}

	return assets
}

// SessionsFor returns the sessions selected by the asset filter. An empty
// filter or FilterAll selects everything.
func (r *Result) SessionsFor(filter string) []*types.StrategySession {
	if filter == "" || filter == FilterAll {
		return r.Sessions
	}

	var filtered []*types.StrategySession

	for _, s := range r.Sessions {
		if s.Asset == filter {
			filtered = append(filtered, s)
		}
	}

	return filtered
}

// Stats computes aggregate statistics over the filtered sessions.
func (r *Result) Stats(filter string) types.SessionStats {
	return analysis.ComputeStats(r.SessionsFor(filter))
}

// Orders returns the flat cross-session order table over the filtered
// sessions.
func (r *Result) Orders(filter string) []*types.OrderDetail {
	return analysis.OrderDetails(r.SessionsFor(filter))
}

// SessionDetails returns the per-session order tables with summaries over
// the filtered sessions.
func (r *Result) SessionDetails(filter string) []*analysis.SessionDetails {
	return analysis.SessionOrderDetails(r.SessionsFor(filter))
}

// Report builds the exportable JSON report document for the filtered
// sessions.
func (r *Result) Report(filter string) *export.Report {
	if filter == "" {
		filter = FilterAll
	}

	file := export.FileMetadata{
		Name:      r.FileName,
		SizeBytes: r.SizeBytes,
		Lines:     r.LineCount,
	}

	sessions := r.SessionsFor(filter)

	return export.BuildReport(file, filter, sessions, analysis.ComputeStats(sessions), analysis.OrderDetails(sessions))
}
