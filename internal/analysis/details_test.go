package analysis

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/stretchr/testify/suite"
)

type DetailsTestSuite struct {
	suite.Suite
}

func TestDetailsSuite(t *testing.T) {
	suite.Run(t, new(DetailsTestSuite))
}

func (suite *DetailsTestSuite) baseTime() time.Time {
	return time.Date(2026, 1, 27, 10, 0, 0, 0, time.Local)
}

func submitEvent(id, symbol, side string, qty float64, at time.Time) types.LogEvent {
	return audit(types.SubcategoryOrderSubmit, "Submitting order", at, map[string]types.FieldValue{
		"order_id": types.TextField(id),
		"symbol":   types.TextField(symbol),
		"side":     types.TextField(side),
		"qty":      types.NumberField(qty),
	})
}

func responseEvent(id, symbol, message string, latency float64, at time.Time) types.LogEvent {
	return audit(types.SubcategoryOrderResponse, message, at, map[string]types.FieldValue{
		"order_id":   types.TextField(id),
		"symbol":     types.TextField(symbol),
		"latency_ms": types.NumberField(latency),
	})
}

func fillEvent(id, message string, qty, price float64, at time.Time) types.LogEvent {
	return audit(types.SubcategoryOrderFill, message, at, map[string]types.FieldValue{
		"order_id":    types.TextField(id),
		"last_filled": types.NumberField(qty),
		"price":       types.NumberField(price),
	})
}

func (suite *DetailsTestSuite) TestSubmitResponseMatching() {
	start := suite.baseTime()
	rows := OrderDetails([]*types.StrategySession{sessionOf(
		submitEvent("a1", "ETHUSDT", "BUY", 0.5, start),
		responseEvent("a1", "ETHUSDT", "Order accepted", 11, start.Add(time.Second)),
	)})

	suite.Require().Len(rows, 1)

	row := rows[0]
	suite.Equal("a1", row.OrderID)
	suite.Equal("ETHUSDT", row.Symbol)
	suite.Equal("BUY", row.Side)
	suite.Equal(0.5, row.Quantity)
	suite.Equal(start, row.SubmitTime)
	suite.Equal(types.OrderDetailAccepted, row.Status)
	suite.Require().True(row.LatencyMs.IsSome())
	suite.Equal(11.0, row.LatencyMs.Unwrap())
	suite.True(row.FillTime.IsNone())
}

func (suite *DetailsTestSuite) TestFifoMatchingPerSymbol() {
	start := suite.baseTime()

	// Two submissions per symbol; responses carry no order_id, so matching
	// runs purely on the per-symbol FIFO queues.
	responseNoID := func(symbol, message string, at time.Time) types.LogEvent {
		return audit(types.SubcategoryOrderResponse, message, at, map[string]types.FieldValue{
			"symbol": types.TextField(symbol),
		})
	}

	rows := OrderDetails([]*types.StrategySession{sessionOf(
		submitEvent("t1", "ETHUSDT", "BUY", 1, start),
		submitEvent("c1", "ETHUSDC", "SELL", 1, start.Add(time.Second)),
		submitEvent("t2", "ETHUSDT", "BUY", 2, start.Add(2*time.Second)),
		responseNoID("ETHUSDT", "Order accepted", start.Add(3*time.Second)),
		responseNoID("ETHUSDC", "Order rejected", start.Add(4*time.Second)),
		responseNoID("ETHUSDT", "Order rejected", start.Add(5*time.Second)),
	)})

	suite.Require().Len(rows, 3)

	// Rows come back sorted by submit time, so the queue order is visible.
	suite.Equal("t1", rows[0].OrderID)
	suite.Equal(types.OrderDetailAccepted, rows[0].Status)
	suite.Equal("c1", rows[1].OrderID)
	suite.Equal(types.OrderDetailRejected, rows[1].Status)
	suite.Equal("t2", rows[2].OrderID)
	suite.Equal(2.0, rows[2].Quantity)
	suite.Equal(types.OrderDetailRejected, rows[2].Status)
}

func (suite *DetailsTestSuite) TestUnmatchedResponseStandsAlone() {
	start := suite.baseTime()
	rows := OrderDetails([]*types.StrategySession{sessionOf(
		responseEvent("x1", "SOLUSDT", "Order accepted", 8, start),
	)})

	suite.Require().Len(rows, 1)
	suite.Equal("x1", rows[0].OrderID)
	// Without a matched submission the response timestamp stands in.
	suite.Equal(start, rows[0].SubmitTime)
	suite.Empty(rows[0].Side)
}

func (suite *DetailsTestSuite) TestFlatViewMutatesSingleRowPerOrder() {
	start := suite.baseTime()
	rows := OrderDetails([]*types.StrategySession{sessionOf(
		submitEvent("a1", "ETHUSDT", "BUY", 1, start),
		responseEvent("a1", "ETHUSDT", "Order accepted", 10, start.Add(time.Second)),
		fillEvent("a1", "Partial fill", 0.4, 2000, start.Add(2*time.Second)),
		fillEvent("a1", "Order filled", 0.6, 2001, start.Add(3*time.Second)),
	)})

	suite.Require().Len(rows, 1)

	row := rows[0]
	suite.Equal(types.OrderDetailFilled, row.Status)
	suite.Equal(0.6, row.LastFilledQty)
	suite.Equal(2001.0, row.Price)
	suite.Require().True(row.FillTime.IsSome())
	suite.Equal(start.Add(3*time.Second), row.FillTime.Unwrap())
}

func (suite *DetailsTestSuite) TestSessionViewReplacesAcceptedRowWithFillRows() {
	start := suite.baseTime()
	details := SessionOrderDetails([]*types.StrategySession{sessionOf(
		submitEvent("a1", "ETHUSDT", "BUY", 1, start),
		responseEvent("a1", "ETHUSDT", "Order accepted", 10, start.Add(time.Second)),
		fillEvent("a1", "Partial fill", 0.4, 2000, start.Add(2*time.Second)),
		fillEvent("a1", "Order filled", 0.6, 2001, start.Add(3*time.Second)),
	)})

	suite.Require().Len(details, 1)
	rows := details[0].Orders
	// The accepted row is superseded; each fill keeps its own row.
	suite.Require().Len(rows, 2)

	suite.Equal(types.OrderDetailPartial, rows[0].Status)
	suite.Equal(0.4, rows[0].LastFilledQty)
	suite.Require().True(rows[0].FillTime.IsSome())
	suite.Equal(start.Add(2*time.Second), rows[0].FillTime.Unwrap())

	suite.Equal(types.OrderDetailFilled, rows[1].Status)
	suite.Equal(0.6, rows[1].LastFilledQty)

	// Both rows keep the original submit-side attributes.
	suite.Equal("BUY", rows[0].Side)
	suite.Equal("BUY", rows[1].Side)

	suite.Equal(2, details[0].Summary.Fills.Total)
}

func (suite *DetailsTestSuite) TestStateEventRewritesStatus() {
	start := suite.baseTime()
	rows := OrderDetails([]*types.StrategySession{sessionOf(
		submitEvent("a1", "ETHUSDT", "BUY", 1, start),
		responseEvent("a1", "ETHUSDT", "Order accepted", 10, start.Add(time.Second)),
		audit(types.SubcategoryOrderState, "order canceled by user", start.Add(2*time.Second), map[string]types.FieldValue{
			"order_id": types.TextField("a1"),
		}),
	)})

	suite.Require().Len(rows, 1)
	suite.Equal(types.OrderDetailCanceled, rows[0].Status)
	suite.Equal("Canceled", rows[0].Status.Display())
}

func (suite *DetailsTestSuite) TestPairLinkStampsBothLegs() {
	start := suite.baseTime()
	rows := OrderDetails([]*types.StrategySession{sessionOf(
		submitEvent("t1", "ETHUSDT", "BUY", 1, start),
		responseEvent("t1", "ETHUSDT", "Order accepted", 5, start.Add(time.Second)),
		submitEvent("c1", "ETHUSDC", "SELL", 1, start.Add(2*time.Second)),
		responseEvent("c1", "ETHUSDC", "Order accepted", 6, start.Add(3*time.Second)),
		audit(types.SubcategoryPairLink, "Pair linked", start.Add(4*time.Second), map[string]types.FieldValue{
			"pair_id":       types.TextField("p1"),
			"usdt_order_id": types.TextField("t1"),
			"usdc_order_id": types.TextField("c1"),
		}),
	)})

	suite.Require().Len(rows, 2)
	suite.Equal("p1", rows[0].PairID)
	suite.Equal("p1", rows[1].PairID)
}

func (suite *DetailsTestSuite) TestSessionViewOrdersByEffectiveTime() {
	start := suite.baseTime()
	details := SessionOrderDetails([]*types.StrategySession{sessionOf(
		// First order fills late, second never fills; the unfilled row
		// sorts by its submit time ahead of the late fill.
		submitEvent("a1", "ETHUSDT", "BUY", 1, start),
		responseEvent("a1", "ETHUSDT", "Order accepted", 5, start.Add(time.Second)),
		submitEvent("a2", "ETHUSDT", "BUY", 1, start.Add(2*time.Second)),
		responseEvent("a2", "ETHUSDT", "Order accepted", 5, start.Add(3*time.Second)),
		fillEvent("a1", "Order filled", 1, 2000, start.Add(10*time.Second)),
	)})

	suite.Require().Len(details, 1)
	rows := details[0].Orders
	suite.Require().Len(rows, 2)
	suite.Equal("a2", rows[0].OrderID)
	suite.Equal("a1", rows[1].OrderID)
}
