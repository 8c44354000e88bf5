package analysis

import (
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-loglens/internal/types"
)

// SessionDetails is the per-session view of the order/fill table: the rows of
// one session together with its aggregate summary.
type SessionDetails struct {
	Session *types.StrategySession `json:"-"`
	Summary types.SessionStats     `json:"summary"`
	Orders  []*types.OrderDetail   `json:"orders"`
}

// OrderDetails reconstructs the flat cross-session order/fill table, sorted
// by submit time. Each order keeps exactly one row; fills mutate it in place.
func OrderDetails(sessions []*types.StrategySession) []*types.OrderDetail {
	b := newDetailBuilder(false)
	for _, session := range sessions {
		for _, event := range session.Events {
			b.apply(event)
		}
	}

	rows := b.rows
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SubmitTime.Before(rows[j].SubmitTime)
	})

	return rows
}

// SessionOrderDetails reconstructs one order/fill table per session with the
// session's summary attached, sorted by fill time when present and submit
// time otherwise. Unlike the flat view, a fill splices out the order's
// accepted row and appends a dedicated fill row, so one order can yield
// zero, one, or many rows.
func SessionOrderDetails(sessions []*types.StrategySession) []*SessionDetails {
	details := make([]*SessionDetails, 0, len(sessions))

	for _, session := range sessions {
		b := newDetailBuilder(true)
		for _, event := range session.Events {
			b.apply(event)
		}

		rows := b.rows
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].EffectiveTime().Before(rows[j].EffectiveTime())
		})

		details = append(details, &SessionDetails{
			Session: session,
			Summary: ComputeSessionStats(session),
			Orders:  rows,
		})
	}

	return details
}

// pendingSubmit is an ORDER_SUBMIT awaiting its ORDER_RESPONSE.
type pendingSubmit struct {
	event types.LogEvent
}

// detailBuilder replays events into OrderDetail rows. Submissions and
// responses are matched by the nearest unmatched pending submission with the
// same symbol. The per-symbol queue is FIFO, so out-of-order interleavings of
// same-symbol orders can mismatch; that imprecision is inherited from the
// source executor's own reporting and kept.
type detailBuilder struct {
	// replaceOnFill switches to the by-session behavior where a fill
	// supersedes the order's accepted row.
	replaceOnFill bool

	rows      []*types.OrderDetail
	byOrderID map[string]*types.OrderDetail
	pending   map[string][]pendingSubmit
}

func newDetailBuilder(replaceOnFill bool) *detailBuilder {
	return &detailBuilder{
		replaceOnFill: replaceOnFill,
		byOrderID:     make(map[string]*types.OrderDetail),
		pending:       make(map[string][]pendingSubmit),
	}
}

func (b *detailBuilder) apply(event types.LogEvent) {
	switch event.Subcategory {
	case types.SubcategoryOrderSubmit:
		b.applySubmit(event)
	case types.SubcategoryOrderResponse:
		b.applyResponse(event)
	case types.SubcategoryOrderFill:
		b.applyFill(event)
	case types.SubcategoryOrderState:
		b.applyState(event)
	case types.SubcategoryParallelOrder, types.SubcategoryPairLink:
		b.applyPairLink(event)
	}
}

func (b *detailBuilder) applySubmit(event types.LogEvent) {
	symbol, _ := event.FieldString("symbol")
	b.pending[symbol] = append(b.pending[symbol], pendingSubmit{event: event})
}

// applyResponse creates the order's row, pulling submit-side attributes from
// the matched pending submission when one exists.
func (b *detailBuilder) applyResponse(event types.LogEvent) {
	symbol, _ := event.FieldString("symbol")

	row := &types.OrderDetail{
		SubmitTime: event.Timestamp,
		Symbol:     symbol,
		Status:     types.OrderDetailUnknown,
	}

	if queue := b.pending[symbol]; len(queue) > 0 {
		submit := queue[0].event
		b.pending[symbol] = queue[1:]

		row.SubmitTime = submit.Timestamp

		if side, ok := submit.FieldString("side"); ok {
			row.Side = side
		}

		if orderType, ok := submit.FieldString("order_type", "type"); ok {
			row.OrderType = orderType
		}

		if qty, ok := submit.FieldNumber("qty", "quantity"); ok {
			row.Quantity = qty
		}

		if id, ok := submit.FieldString("order_id"); ok {
			row.OrderID = id
		}
	}

	// Response-side attributes override the submission's.
	if id, ok := event.FieldString("order_id"); ok {
		row.OrderID = id
	}

	if price, ok := event.FieldNumber("price"); ok {
		row.Price = price
	}

	if qty, ok := event.FieldNumber("qty", "quantity"); ok && row.Quantity == 0 {
		row.Quantity = qty
	}

	if latency, ok := event.FieldNumber("latency_ms", "latency"); ok {
		row.LatencyMs = optional.Some(latency)
	}

	switch classifyResponse(event) {
	case responseAccepted:
		row.Status = types.OrderDetailAccepted
	case responseRejected:
		row.Status = types.OrderDetailRejected
	}

	b.rows = append(b.rows, row)

	if row.OrderID != "" {
		b.byOrderID[row.OrderID] = row
	}
}

func (b *detailBuilder) applyFill(event types.LogEvent) {
	orderID, ok := event.FieldString("order_id")
	if !ok {
		return
	}

	row, matched := b.byOrderID[orderID]
	if !matched {
		return
	}

	if b.replaceOnFill {
		// Splice out the accepted row; every fill gets its own row. The map
		// then tracks the newest fill row so later state/pair events land on
		// it.
		if row.FillTime.IsNone() {
			b.removeRow(row)
		}

		fillRow := *row
		row = &fillRow
		b.rows = append(b.rows, row)
		b.byOrderID[orderID] = row
	}

	row.FillTime = optional.Some(event.Timestamp)

	if qty, ok := fillQuantity(event); ok {
		row.LastFilledQty = qty
	}

	if cum, ok := event.FieldNumber("cum_filled", "filled", "qty"); ok {
		row.CumFilledQty = cum
	}

	if price, ok := fillPrice(event); ok {
		row.Price = price
	}

	if acc, ok := event.FieldNumber("accumulated"); ok {
		row.Accumulated = optional.Some(acc)
	}

	if isPartialFill(event) {
		row.Status = types.OrderDetailPartial
	} else {
		row.Status = types.OrderDetailFilled
	}
}

// applyState retroactively rewrites the matched row's status on cancellation
// or GTX rejection.
func (b *detailBuilder) applyState(event types.LogEvent) {
	orderID, ok := event.FieldString("order_id")
	if !ok {
		return
	}

	row, matched := b.byOrderID[orderID]
	if !matched {
		return
	}

	switch {
	case isCancellation(event):
		row.Status = types.OrderDetailCanceled
	case isGtxStateRejection(event):
		row.Status = types.OrderDetailRejected
	}
}

// applyPairLink stamps the pair ID onto every row belonging to either leg.
func (b *detailBuilder) applyPairLink(event types.LogEvent) {
	pairID, ok := event.FieldString("pair_id")
	if !ok {
		return
	}

	legs := make(map[string]bool, 2)
	for _, key := range []string{"usdt_order_id", "usdc_order_id"} {
		if legID, ok := event.FieldString(key); ok {
			legs[legID] = true
		}
	}

	for _, row := range b.rows {
		if legs[row.OrderID] {
			row.PairID = pairID
		}
	}
}

func (b *detailBuilder) removeRow(target *types.OrderDetail) {
	for i, row := range b.rows {
		if row == target {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)

			return
		}
	}
}
