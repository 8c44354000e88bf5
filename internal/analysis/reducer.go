package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/rxtech-lab/argo-loglens/internal/types"
)

// orderRecord is the reducer's view of one order, keyed by order ID in the
// correlation table.
type orderRecord struct {
	symbol   string
	side     string
	quantity float64
	price    float64
	status   types.OrderDetailStatus
	pairID   string
}

// pairRecord tracks which currency legs of an order pair have filled.
type pairRecord struct {
	usdtFilled bool
	usdcFilled bool
}

// reducer replays a session's event sequence into aggregate counters. The
// correlation tables are owned by one reduction pass and die with it; they
// are never shared across sessions.
type reducer struct {
	stats  types.SessionStats
	orders map[string]*orderRecord
	pairs  map[string]*pairRecord

	// Filled quantities accumulate as decimals to keep repeated small
	// increments exact, and collapse to float64 when the pass finishes.
	usdtQty decimal.Decimal
	usdcQty decimal.Decimal
}

func newReducer() *reducer {
	return &reducer{
		stats:  types.NewSessionStats(),
		orders: make(map[string]*orderRecord),
		pairs:  make(map[string]*pairRecord),
	}
}

// ComputeSessionStats reduces one session's events into aggregate statistics.
func ComputeSessionStats(session *types.StrategySession) types.SessionStats {
	r := newReducer()
	for _, event := range session.Events {
		r.apply(event)
	}

	return r.finish()
}

// ComputeStats reduces each session independently and merges the results.
// By the merge semantics of SessionStats this equals reducing any partition
// of the session set and summing.
func ComputeStats(sessions []*types.StrategySession) types.SessionStats {
	stats := types.NewSessionStats()
	for _, session := range sessions {
		perSession := ComputeSessionStats(session)
		stats.Merge(perSession)
	}

	return stats
}

func (r *reducer) apply(event types.LogEvent) {
	switch event.Subcategory {
	case types.SubcategorySpreadMet:
		r.stats.SpreadTriggers++
	case types.SubcategoryOrderSubmit:
		r.applyOrderSubmit(event)
	case types.SubcategoryOrderResponse:
		r.applyOrderResponse(event)
	case types.SubcategoryOrderFill:
		r.applyOrderFill(event)
	case types.SubcategoryParallelOrder, types.SubcategoryPairLink:
		r.applyPairLink(event)
	case types.SubcategoryFastChase:
		r.applyFastChase(event)
	case types.SubcategoryOrderState:
		if isGtxStateRejection(event) {
			r.stats.Errors.GtxRejections++
		}
	case types.SubcategoryOrderTimeout:
		r.stats.Errors.Timeouts++
	default:
		if event.Level == types.LogLevelError {
			r.applyError(event)
		}
	}
}

func (r *reducer) applyOrderSubmit(event types.LogEvent) {
	r.stats.Orders.Total++

	orderID, ok := event.FieldString("order_id")
	if !ok {
		return
	}

	record := r.ensureOrder(orderID)
	if symbol, ok := event.FieldString("symbol"); ok {
		record.symbol = symbol
	}

	if side, ok := event.FieldString("side"); ok {
		record.side = side
	}

	if qty, ok := event.FieldNumber("qty", "quantity"); ok {
		record.quantity = qty
	}
}

func (r *reducer) applyOrderResponse(event types.LogEvent) {
	// Latency samples count regardless of outcome.
	if latency, ok := event.FieldNumber("latency_ms", "latency"); ok {
		r.stats.Orders.Latencies = append(r.stats.Orders.Latencies, latency)
	}

	outcome := classifyResponse(event)

	switch outcome {
	case responseAccepted:
		r.stats.Orders.Accepted++
	case responseRejected:
		r.stats.Orders.Rejected++

		if isGtxRejection(event) {
			r.stats.Errors.GtxRejections++
		}
	}

	orderID, ok := event.FieldString("order_id")
	if !ok {
		return
	}

	record := r.ensureOrder(orderID)

	switch outcome {
	case responseAccepted:
		record.status = types.OrderDetailAccepted
	case responseRejected:
		record.status = types.OrderDetailRejected
	}

	if symbol, ok := event.FieldString("symbol"); ok {
		record.symbol = symbol
	}

	if price, ok := event.FieldNumber("price"); ok {
		record.price = price
	}
}

func (r *reducer) applyOrderFill(event types.LogEvent) {
	r.stats.Fills.Total++

	partial := isPartialFill(event)
	if partial {
		r.stats.Fills.Partial++
	} else {
		r.stats.Fills.Full++
	}

	orderID, matched := event.FieldString("order_id")

	var record *orderRecord
	if matched {
		record = r.orders[orderID]
	}

	currency := settlementCurrency(event)
	if currency == "" && record != nil {
		// The fill itself may omit the symbol; the matched order knows it.
		if strings.HasSuffix(record.symbol, "USDT") {
			currency = "USDT"
		} else if strings.HasSuffix(record.symbol, "USDC") {
			currency = "USDC"
		}
	}

	if qty, ok := fillQuantity(event); ok {
		switch currency {
		case "USDT":
			r.usdtQty = r.usdtQty.Add(decimal.NewFromFloat(qty))
		case "USDC":
			r.usdcQty = r.usdcQty.Add(decimal.NewFromFloat(qty))
		}
	}

	if price, ok := fillPrice(event); ok {
		r.stats.Fills.Prices = append(r.stats.Fills.Prices, price)
	}

	// Correlation-dependent updates are skipped for unmatched fills; the
	// counters above already recorded the event.
	if record == nil {
		return
	}

	if partial {
		record.status = types.OrderDetailPartial
	} else {
		record.status = types.OrderDetailFilled
	}

	if record.pairID != "" {
		pair := r.ensurePair(record.pairID)

		switch currency {
		case "USDT":
			pair.usdtFilled = true
		case "USDC":
			pair.usdcFilled = true
		}
	}
}

func (r *reducer) applyPairLink(event types.LogEvent) {
	pairID, ok := event.FieldString("pair_id")
	if !ok {
		return
	}

	r.ensurePair(pairID)

	// PAIR_LINK names the two legs; stamp the pair onto orders we know.
	for _, key := range []string{"usdt_order_id", "usdc_order_id"} {
		if legID, ok := event.FieldString(key); ok {
			if record, exists := r.orders[legID]; exists {
				record.pairID = pairID
			}
		}
	}
}

func (r *reducer) applyFastChase(event types.LogEvent) {
	message := strings.ToLower(event.Message)

	switch {
	case strings.Contains(message, msgChaseEntering):
		r.stats.FastChase.Events++
	case strings.Contains(message, msgChaseCompleted):
		r.stats.FastChase.Successes++

		if retries, ok := event.FieldNumber("retries", "attempts"); ok {
			r.stats.FastChase.Retries = append(r.stats.FastChase.Retries, retries)
		}
	case strings.Contains(message, msgChaseFallback):
		reason := "unknown"
		if text, ok := event.FieldString("reason"); ok && text != "" {
			reason = text
		}

		r.stats.FastChase.FallbackReasons[reason]++
	}
}

func (r *reducer) applyError(event types.LogEvent) {
	message := strings.ToLower(event.Message)

	switch {
	case strings.Contains(message, "timeout"):
		r.stats.Errors.Timeouts++
	case strings.Contains(message, "api"):
		r.stats.Errors.APIErrors++
	default:
		r.stats.Errors.Other++
	}
}

// finish derives pair success from the pair table and collapses the decimal
// quantity accumulators.
func (r *reducer) finish() types.SessionStats {
	for _, pair := range r.pairs {
		r.stats.OrderPairs.Attempted++

		if pair.usdtFilled && pair.usdcFilled {
			r.stats.OrderPairs.Succeeded++
		}
	}

	r.stats.Fills.UsdtQty = r.usdtQty.InexactFloat64()
	r.stats.Fills.UsdcQty = r.usdcQty.InexactFloat64()

	return r.stats
}

func (r *reducer) ensureOrder(orderID string) *orderRecord {
	record, ok := r.orders[orderID]
	if !ok {
		record = &orderRecord{status: types.OrderDetailUnknown}
		r.orders[orderID] = record
	}

	return record
}

func (r *reducer) ensurePair(pairID string) *pairRecord {
	record, ok := r.pairs[pairID]
	if !ok {
		record = &pairRecord{}
		r.pairs[pairID] = record
	}

	return record
}
