package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// SessionConfig is the strategy configuration captured from the start
// event's payload. Orphan sessions carry the zero value.
type SessionConfig struct {
	Quantity        float64 `yaml:"quantity" json:"quantity"`
	Direction       string  `yaml:"direction" json:"direction"`
	SpreadThreshold float64 `yaml:"spread_threshold" json:"spread_threshold"`
}

// StrategySession is one start-to-stop lifecycle span of a strategy run for
// one asset. Events are stored in encounter order.
type StrategySession struct {
	// ID is a generated identifier for this session.
	ID string `yaml:"id" json:"id"`
	// Asset is the ticker symbol this session belongs to.
	Asset string `yaml:"asset" json:"asset"`
	// StartTime is the timestamp of the start marker, or of the first
	// event for orphan sessions.
	StartTime time.Time `yaml:"start_time" json:"start_time"`
	// EndTime is the timestamp of the stop marker. None means the session
	// never observed a stop marker (ongoing or truncated log).
	EndTime optional.Option[time.Time] `yaml:"end_time" json:"end_time"`
	// Config is the strategy configuration from the start event.
	Config SessionConfig `yaml:"config" json:"config"`
	// Events is the ordered event sequence belonging to this session.
	Events []LogEvent `yaml:"events" json:"events"`
}

// Append adds an event to the session in encounter order.
func (s *StrategySession) Append(event LogEvent) {
	s.Events = append(s.Events, event)
}

// LastEventTime returns the timestamp of the last event, or the start time
// when the session holds no events.
func (s *StrategySession) LastEventTime() time.Time {
	if len(s.Events) == 0 {
		return s.StartTime
	}

	return s.Events[len(s.Events)-1].Timestamp
}

// Duration is the session span. When no stop marker was seen it falls back
// to the last event's timestamp.
func (s *StrategySession) Duration() time.Duration {
	end := s.LastEventTime()
	if s.EndTime.IsSome() {
		end = s.EndTime.Unwrap()
	}

	return end.Sub(s.StartTime)
}

// Closed reports whether the session observed a stop marker.
func (s *StrategySession) Closed() bool {
	return s.EndTime.IsSome()
}
