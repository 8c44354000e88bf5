// Package analysis derives execution statistics and order/fill detail tables
// from strategy sessions. Both consumption modes (aggregate reduction and
// detail extraction) share the per-event classification in this file.
package analysis

import (
	"strings"

	"github.com/rxtech-lab/argo-loglens/internal/types"
)

// Message substrings emitted by the strategy executor.
const (
	msgOrderAccepted  = "Order accepted"
	msgOrderRejected  = "Order rejected"
	msgPartialFill    = "Partial fill"
	msgChaseEntering  = "entering"
	msgChaseCompleted = "completed successfully"
	msgChaseFallback  = "falling back"
	gtxMarker         = "GTX"
)

// responseOutcome is the classified outcome of an ORDER_RESPONSE event.
type responseOutcome int

const (
	responseUnknown responseOutcome = iota
	responseAccepted
	responseRejected
)

// classifyResponse decides acceptance/rejection of an ORDER_RESPONSE by
// message substring first, then by explicit payload fields.
func classifyResponse(event types.LogEvent) responseOutcome {
	if strings.Contains(event.Message, msgOrderAccepted) {
		return responseAccepted
	}

	if strings.Contains(event.Message, msgOrderRejected) {
		return responseRejected
	}

	if v, ok := event.Field("accepted"); ok {
		if accepted, isBool := v.Bool(); isBool {
			if accepted {
				return responseAccepted
			}

			return responseRejected
		}
	}

	if status, ok := event.FieldString("status"); ok {
		switch strings.ToLower(status) {
		case "accepted", "new":
			return responseAccepted
		case "rejected":
			return responseRejected
		}
	}

	return responseUnknown
}

// isGtxRejection reports whether a rejection is a post-only (GTX) rejection:
// the GTX marker appears in an error field or in the message.
func isGtxRejection(event types.LogEvent) bool {
	if errText, ok := event.FieldString("error"); ok {
		if strings.Contains(errText, gtxMarker) {
			return true
		}
	}

	return strings.Contains(event.Message, gtxMarker)
}

// isPartialFill classifies an ORDER_FILL as partial by message substring or
// an explicit fill-type field.
func isPartialFill(event types.LogEvent) bool {
	if strings.Contains(event.Message, msgPartialFill) {
		return true
	}

	if fillType, ok := event.FieldString("fill_type"); ok {
		return strings.EqualFold(fillType, "partial")
	}

	return false
}

// fillQuantity returns the filled quantity of an ORDER_FILL, preferring the
// last-filled increment over cumulative and requested quantities.
func fillQuantity(event types.LogEvent) (float64, bool) {
	return event.FieldNumber("last_filled", "filled", "qty")
}

// fillPrice returns the price sample of an ORDER_FILL, if any.
func fillPrice(event types.LogEvent) (float64, bool) {
	return event.FieldNumber("price", "last_price", "fill_price")
}

// settlementCurrency attributes a fill to its settlement-currency bucket by
// the payload symbol, falling back to message substrings. Returns "" when
// the leg cannot be determined.
func settlementCurrency(event types.LogEvent) string {
	if symbol, ok := event.FieldString("symbol"); ok {
		if strings.HasSuffix(symbol, "USDT") {
			return "USDT"
		}

		if strings.HasSuffix(symbol, "USDC") {
			return "USDC"
		}
	}

	if strings.Contains(event.Message, "USDT") {
		return "USDT"
	}

	if strings.Contains(event.Message, "USDC") {
		return "USDC"
	}

	return ""
}

// isCancellation reports whether an ORDER_STATE event marks a cancellation.
func isCancellation(event types.LogEvent) bool {
	return strings.Contains(strings.ToLower(event.Message), "cancel")
}

// isGtxStateRejection reports whether an ORDER_STATE event marks a GTX
// rejection. This fires independently of the ORDER_RESPONSE classification:
// the same logical rejection can be counted by both, matching the source
// executor's reporting.
func isGtxStateRejection(event types.LogEvent) bool {
	return strings.Contains(event.Message, gtxMarker) &&
		strings.Contains(strings.ToLower(event.Message), "reject")
}
