package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// OrderDetailStatus is the display status of an order/fill row.
type OrderDetailStatus string

const (
	OrderDetailAccepted OrderDetailStatus = "accepted"
	OrderDetailRejected OrderDetailStatus = "rejected"
	OrderDetailFilled   OrderDetailStatus = "filled"
	OrderDetailPartial  OrderDetailStatus = "partial"
	OrderDetailCanceled OrderDetailStatus = "canceled"
	OrderDetailUnknown  OrderDetailStatus = "unknown"
)

// Display returns the human-readable status text used in exports.
func (s OrderDetailStatus) Display() string {
	switch s {
	case OrderDetailAccepted:
		return "Accepted"
	case OrderDetailRejected:
		return "Rejected"
	case OrderDetailFilled:
		return "Filled"
	case OrderDetailPartial:
		return "Partial Fill"
	case OrderDetailCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// OrderDetail is one row of the order/fill table. A row is not a 1:1 mirror
// of a LogEvent: it may represent a submission, an acceptance, or a single
// fill increment, and later fill/state/pair-link events referencing the same
// order ID mutate it in place.
type OrderDetail struct {
	SubmitTime time.Time `yaml:"submit_time" json:"submit_time"`
	// FillTime is set once a fill is observed for this row.
	FillTime  optional.Option[time.Time] `yaml:"fill_time" json:"fill_time"`
	Symbol    string                     `yaml:"symbol" json:"symbol"`
	Side      string                     `yaml:"side" json:"side"`
	OrderType string                     `yaml:"order_type" json:"order_type"`
	// Quantity is the requested quantity.
	Quantity float64 `yaml:"quantity" json:"quantity"`
	// LastFilledQty is the quantity of the most recent fill increment.
	LastFilledQty float64 `yaml:"last_filled_qty" json:"last_filled_qty"`
	// CumFilledQty is the cumulative filled quantity of this order.
	CumFilledQty float64                  `yaml:"cum_filled_qty" json:"cum_filled_qty"`
	Price        float64                  `yaml:"price" json:"price"`
	Status       OrderDetailStatus        `yaml:"status" json:"status"`
	OrderID      string                   `yaml:"order_id" json:"order_id"`
	LatencyMs    optional.Option[float64] `yaml:"latency_ms" json:"latency_ms"`
	// PairID correlates the two legs of a dual-symbol order pair.
	PairID string `yaml:"pair_id" json:"pair_id"`
	// Accumulated is the session-wide running total as reported by the
	// source log, not recomputed.
	Accumulated optional.Option[float64] `yaml:"accumulated" json:"accumulated"`
}

// EffectiveTime is the ordering key of the by-session view: the fill time
// when present, otherwise the submit time.
func (d OrderDetail) EffectiveTime() time.Time {
	if d.FillTime.IsSome() {
		return d.FillTime.Unwrap()
	}

	return d.SubmitTime
}
