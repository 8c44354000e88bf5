package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/rxtech-lab/argo-loglens/internal/version"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) buildFixture() *Report {
	start := time.Date(2026, 1, 27, 10, 0, 0, 0, time.Local)

	session := &types.StrategySession{
		ID:        "s1",
		Asset:     "ETH",
		StartTime: start,
		EndTime:   optional.Some(start.Add(5 * time.Second)),
		Config:    types.SessionConfig{Quantity: 1, Direction: "long", SpreadThreshold: 0.1},
		Events:    make([]types.LogEvent, 3),
	}

	stats := types.NewSessionStats()
	stats.SpreadTriggers = 2
	stats.Orders.Total = 4
	stats.Orders.Accepted = 3
	stats.Orders.Rejected = 1
	stats.Orders.Latencies = []float64{10, 15}

	order := &types.OrderDetail{
		SubmitTime: start.Add(time.Second),
		FillTime:   optional.Some(start.Add(2 * time.Second)),
		Symbol:     "ETHUSDT",
		Side:       "BUY",
		Quantity:   0.5,
		Price:      2000,
		Status:     types.OrderDetailFilled,
		OrderID:    "a1",
		LatencyMs:  optional.Some(12.5),
	}

	file := FileMetadata{Name: "bot.log", SizeBytes: 1024, Lines: 42}

	return BuildReport(file, "all", []*types.StrategySession{session}, stats, []*types.OrderDetail{order})
}

func (suite *ReportTestSuite) TestBuildReport() {
	report := suite.buildFixture()

	suite.NotEmpty(report.ID)
	suite.Equal(version.GetVersion(), report.Version)
	suite.Equal("bot.log", report.File.Name)
	suite.Equal("all", report.Filter)

	suite.Require().Len(report.Sessions, 1)
	summary := report.Sessions[0]
	suite.Equal("ETH", summary.Asset)
	suite.Equal("2026-01-27 10:00:00.000", summary.StartTime)
	suite.Equal("2026-01-27 10:00:05.000", summary.EndTime)
	suite.Equal("5000ms", summary.Duration)
	suite.Equal(3, summary.EventCount)

	suite.Equal(2, report.Stats.SpreadTriggers)
	suite.Equal("75.00%", report.Stats.Orders.AcceptRate)
	suite.Equal("12.50ms", report.Stats.Orders.AverageLatency)
	suite.Equal("0.00%", report.Stats.OrderPairs.SuccessRate)

	suite.Require().Len(report.Orders, 1)
	row := report.Orders[0]
	suite.Equal("Filled", row.Status)
	suite.Equal("2026-01-27 10:00:01.000", row.SubmitTime)
	suite.Equal("2026-01-27 10:00:02.000", row.FillTime)
	suite.Equal("12.50ms", row.Latency)
}

func (suite *ReportTestSuite) TestSaveAndLoadRoundTrip() {
	report := suite.buildFixture()
	path := filepath.Join(suite.T().TempDir(), "report.json")

	suite.Require().NoError(report.Save(path))

	loaded, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal(report.ID, loaded.ID)
	suite.Equal(report.Sessions, loaded.Sessions)
	suite.Equal(report.Stats, loaded.Stats)
	suite.Equal(report.Orders, loaded.Orders)
}

func (suite *ReportTestSuite) TestLoadRejectsIncompatibleVersion() {
	previous := version.Version
	version.Version = "1.2.0"
	defer func() { version.Version = previous }()

	report := suite.buildFixture()
	report.Version = "2.0.0"
	path := filepath.Join(suite.T().TempDir(), "report.json")
	suite.Require().NoError(report.Save(path))

	_, err := Load(path)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeReportIncompatible))
}

func (suite *ReportTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "missing.json"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeReportReadFailed))
}

func (suite *ReportTestSuite) TestFormatDuration() {
	suite.Equal("5000ms", FormatDuration(5*time.Second))
	suite.Equal("250ms", FormatDuration(250*time.Millisecond))
	suite.Equal("90000ms", FormatDuration(90*time.Second))
}

func (suite *ReportTestSuite) TestReportSchema() {
	schema, err := ReportSchema()
	suite.Require().NoError(err)
	suite.Contains(schema, "\"properties\"")
	suite.Contains(schema, "spread_triggers")
	suite.Contains(schema, "order_pairs")
}
