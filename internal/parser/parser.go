// Package parser turns raw trading-bot log lines into structured events.
//
// A line follows the grammar `[timestamp][LEVEL][module] <rest>` where <rest>
// may start with up to three bracket tags (category, subcategory, asset)
// followed by a free-text message and an optional `| key=value, ...` payload.
// Lines that fail the base grammar are skipped, never reported as errors:
// mixed-quality logs are expected and parsing is best effort.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-loglens/internal/types"
)

// timestampLayout is the fixed layout of log line timestamps. The source
// format carries no timezone, so lines are interpreted as local time.
const timestampLayout = "2006-01-02 15:04:05.000"

var (
	lineRegex = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})\]\[(INFO|WARN|ERROR)\]\[([^\]]+)\]\s*(.*)$`)
	tagRegex  = regexp.MustCompile(`^\[([^\]\[]+)\](?:\[([^\]\[]+)\])?(?:\[([^\]\[]+)\])?\s*`)
)

// Options configures line parsing.
type Options struct {
	// KnownAssets is the allow-list of ticker symbols recognized as asset
	// tags and as back-fill candidates.
	KnownAssets []string
	// QuoteSuffixes are the settlement-currency suffixes stripped from a
	// payload symbol during asset back-fill, checked in order.
	QuoteSuffixes []string
}

// Parser parses individual log lines. It has no knowledge of sessions or
// statistics.
type Parser struct {
	knownAssets   map[string]struct{}
	quoteSuffixes []string
}

// New creates a Parser with the given options.
func New(opts Options) *Parser {
	known := make(map[string]struct{}, len(opts.KnownAssets))
	for _, asset := range opts.KnownAssets {
		known[asset] = struct{}{}
	}

	return &Parser{
		knownAssets:   known,
		quoteSuffixes: opts.QuoteSuffixes,
	}
}

// ParseLine parses one raw line. The second return value is false when the
// line is blank or does not match the base grammar; such lines are filtered,
// not failed.
func (p *Parser) ParseLine(line string) (types.LogEvent, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return types.LogEvent{}, false
	}

	match := lineRegex.FindStringSubmatch(line)
	if match == nil {
		return types.LogEvent{}, false
	}

	timestamp, err := time.ParseInLocation(timestampLayout, match[1], time.Local)
	if err != nil {
		return types.LogEvent{}, false
	}

	event := types.LogEvent{
		Timestamp: timestamp,
		Level:     types.LogLevel(match[2]),
		Module:    match[3],
	}

	rest := p.extractTags(match[4], &event)

	message := rest
	payload := rest

	if idx := strings.Index(rest, "|"); idx >= 0 {
		message = rest[:idx]
		payload = rest[idx+1:]
	}

	event.Message = strings.TrimSpace(message)
	event.Data = ExtractFields(payload)

	if event.Asset == "" {
		if symbol, ok := event.FieldString("symbol"); ok {
			event.Asset = p.AssetFromSymbol(symbol)
		}
	}

	return event, true
}

// extractTags consumes the leading bracket tags of rest when the first tag
// is a recognized category, filling in category, subcategory, and asset.
// Unrecognized leading brackets are left in place: the whole rest becomes
// the message.
func (p *Parser) extractTags(rest string, event *types.LogEvent) string {
	match := tagRegex.FindStringSubmatch(rest)
	if match == nil {
		return rest
	}

	first, second, third := match[1], match[2], match[3]

	switch first {
	case string(types.CategoryLifecycle):
		event.Category = types.CategoryLifecycle

		// A lifecycle line tags the asset directly when only the asset
		// follows; otherwise the subcategory comes first.
		if second != "" {
			if p.isKnownAsset(second) {
				event.Asset = second
			} else {
				event.Subcategory = second
				if third != "" {
					event.Asset = third
				}
			}
		}
	case string(types.CategoryAudit):
		event.Category = types.CategoryAudit
		event.Subcategory = second
		event.Asset = third
	default:
		return rest
	}

	return rest[len(match[0]):]
}

// AssetFromSymbol derives an asset ticker from a trading symbol by stripping
// a known quote-currency suffix and validating the remainder against the
// allow-list. Returns "" when no candidate matches.
func (p *Parser) AssetFromSymbol(symbol string) string {
	for _, suffix := range p.quoteSuffixes {
		if base, found := strings.CutSuffix(symbol, suffix); found {
			if p.isKnownAsset(base) {
				return base
			}
		}
	}

	return ""
}

func (p *Parser) isKnownAsset(candidate string) bool {
	_, ok := p.knownAssets[candidate]

	return ok
}
