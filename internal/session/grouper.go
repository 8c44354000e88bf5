// Package session reconstructs per-asset strategy sessions from the ordered
// event stream.
package session

import (
	"strings"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-loglens/internal/types"
)

// Markers designate the lifecycle message substrings that bound a session.
type Markers struct {
	// Start marks strategy start.
	Start string
	// Stops mark strategy stop; any one of them closes the open session.
	Stops []string
}

// Grouper partitions an event sequence into sessions bounded by lifecycle
// markers. It assumes the input is in encounter order.
type Grouper struct {
	markers Markers
}

// NewGrouper creates a Grouper with the given lifecycle markers.
func NewGrouper(markers Markers) *Grouper {
	return &Grouper{markers: markers}
}

// Group partitions events into sessions. For each event, in order:
//
//  1. A lifecycle start marker for an asset opens a new session. A prior
//     open session for the same asset is simply replaced in the open map,
//     never force-closed.
//  2. A lifecycle stop marker closes the asset's open session; without one
//     the marker is dropped.
//  3. An asset-tagged event appends to that asset's open session.
//  4. An asset-tagged event without an open session opens an orphan session
//     starting at the event's timestamp with empty config.
//  5. An asset-less event appends to the single open session when exactly
//     one is open; with zero or several open sessions it is dropped. The
//     multi-session drop loses asset-less events under concurrency and is a
//     documented limitation, kept as-is.
func (g *Grouper) Group(events []types.LogEvent) []*types.StrategySession {
	open := make(map[string]*types.StrategySession)

	var sessions []*types.StrategySession

	for _, event := range events {
		switch {
		case g.isStart(event):
			session := &types.StrategySession{
				ID:        uuid.NewString(),
				Asset:     event.Asset,
				StartTime: event.Timestamp,
				Config:    configFromStart(event),
			}
			session.Append(event)
			open[event.Asset] = session
			sessions = append(sessions, session)

		case g.isStop(event):
			if session, ok := open[event.Asset]; ok {
				session.EndTime = optional.Some(event.Timestamp)
				session.Append(event)
				delete(open, event.Asset)
			}

		case event.Asset != "":
			if session, ok := open[event.Asset]; ok {
				session.Append(event)

				continue
			}

			orphan := &types.StrategySession{
				ID:        uuid.NewString(),
				Asset:     event.Asset,
				StartTime: event.Timestamp,
			}
			orphan.Append(event)
			open[event.Asset] = orphan
			sessions = append(sessions, orphan)

		default:
			if len(open) == 1 {
				for _, session := range open {
					session.Append(event)
				}
			}
		}
	}

	return sessions
}

func (g *Grouper) isStart(event types.LogEvent) bool {
	return event.IsLifecycle() && event.Asset != "" &&
		strings.Contains(event.Message, g.markers.Start)
}

func (g *Grouper) isStop(event types.LogEvent) bool {
	if !event.IsLifecycle() || event.Asset == "" {
		return false
	}

	for _, stop := range g.markers.Stops {
		if strings.Contains(event.Message, stop) {
			return true
		}
	}

	return false
}

// configFromStart captures the strategy configuration from the start event's
// payload.
func configFromStart(event types.LogEvent) types.SessionConfig {
	config := types.SessionConfig{}

	if qty, ok := event.FieldNumber("qty", "quantity"); ok {
		config.Quantity = qty
	}

	if direction, ok := event.Field("direction"); ok {
		if text, isText := direction.Text(); isText {
			config.Direction = text
		}
	}

	if threshold, ok := event.FieldNumber("spread_threshold"); ok {
		config.SpreadThreshold = threshold
	}

	return config
}
