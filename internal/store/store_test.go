package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/stretchr/testify/suite"
)

type ResultStoreTestSuite struct {
	suite.Suite
	store *ResultStore
}

func TestResultStoreSuite(t *testing.T) {
	suite.Run(t, new(ResultStoreTestSuite))
}

func (suite *ResultStoreTestSuite) SetupTest() {
	log, err := logger.NewLogger()
	suite.Require().NoError(err)

	store, err := NewResultStore(log)
	suite.Require().NoError(err)
	suite.store = store
}

func (suite *ResultStoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func (suite *ResultStoreTestSuite) TestRecordAndQueryEvents() {
	at := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

	events := []types.LogEvent{
		{
			Timestamp:   at,
			Level:       types.LogLevelInfo,
			Module:      "executor",
			Category:    types.CategoryAudit,
			Subcategory: types.SubcategoryOrderSubmit,
			Asset:       "ETH",
			Message:     "Submitting order",
			Data: map[string]types.FieldValue{
				"order_id": types.TextField("a1"),
				"qty":      types.NumberField(0.5),
			},
		},
		{
			Timestamp: at.Add(time.Second),
			Level:     types.LogLevelInfo,
			Module:    "executor",
			Asset:     "SOL",
			Message:   "unrelated",
		},
	}

	suite.Require().NoError(suite.store.RecordEvents("s1", events))

	got, err := suite.store.EventsByAsset("ETH")
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)

	event := got[0]
	suite.True(event.Timestamp.Equal(at))
	suite.Equal(types.LogLevelInfo, event.Level)
	suite.Equal(types.CategoryAudit, event.Category)
	suite.Equal(types.SubcategoryOrderSubmit, event.Subcategory)
	suite.Equal("Submitting order", event.Message)

	// The payload round-trips through its JSON encoding with kinds intact.
	suite.Equal(types.TextField("a1"), event.Data["order_id"])
	suite.Equal(types.NumberField(0.5), event.Data["qty"])
}

func (suite *ResultStoreTestSuite) TestRecordSessions() {
	at := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

	session := &types.StrategySession{
		ID:    "s1",
		Asset: "ETH",
		Events: []types.LogEvent{
			{Timestamp: at, Level: types.LogLevelInfo, Module: "executor", Asset: "ETH", Message: "one"},
			{Timestamp: at.Add(time.Second), Level: types.LogLevelInfo, Module: "executor", Asset: "ETH", Message: "two"},
		},
	}

	suite.Require().NoError(suite.store.RecordSessions([]*types.StrategySession{session}))

	got, err := suite.store.EventsByAsset("ETH")
	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func (suite *ResultStoreTestSuite) TestCountOrdersByStatus() {
	at := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

	orders := []*types.OrderDetail{
		{SubmitTime: at, Symbol: "ETHUSDT", Status: types.OrderDetailFilled, OrderID: "a1"},
		{SubmitTime: at, Symbol: "ETHUSDC", Status: types.OrderDetailFilled, OrderID: "a2",
			FillTime: optional.Some(at.Add(time.Second)), LatencyMs: optional.Some(12.5)},
		{SubmitTime: at, Symbol: "ETHUSDT", Status: types.OrderDetailRejected, OrderID: "a3"},
	}

	suite.Require().NoError(suite.store.RecordOrders(orders))

	counts, err := suite.store.CountOrdersByStatus()
	suite.Require().NoError(err)
	suite.Equal(map[string]int{"filled": 2, "rejected": 1}, counts)
}

func (suite *ResultStoreTestSuite) TestWriteParquet() {
	at := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

	suite.Require().NoError(suite.store.RecordEvents("s1", []types.LogEvent{
		{Timestamp: at, Level: types.LogLevelInfo, Module: "executor", Asset: "ETH", Message: "one"},
	}))
	suite.Require().NoError(suite.store.RecordOrders([]*types.OrderDetail{
		{SubmitTime: at, Symbol: "ETHUSDT", Status: types.OrderDetailFilled, OrderID: "a1"},
	}))

	dir := suite.T().TempDir()
	suite.Require().NoError(suite.store.Write(dir))

	for _, name := range []string{"events.parquet", "orders.parquet"} {
		info, err := os.Stat(filepath.Join(dir, name))
		suite.Require().NoError(err)
		suite.Greater(info.Size(), int64(0))
	}
}

func (suite *ResultStoreTestSuite) TestCleanupResetsState() {
	at := time.Date(2026, 1, 27, 10, 0, 0, 0, time.UTC)

	suite.Require().NoError(suite.store.RecordEvents("s1", []types.LogEvent{
		{Timestamp: at, Level: types.LogLevelInfo, Module: "executor", Asset: "ETH", Message: "one"},
	}))

	suite.Require().NoError(suite.store.Cleanup())

	got, err := suite.store.EventsByAsset("ETH")
	suite.Require().NoError(err)
	suite.Empty(got)
}
