// Package store persists analysis results in an in-memory DuckDB database so
// they can be queried with SQL and exported to Parquet.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/internal/types"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
	"go.uber.org/zap"
)

// ResultStore records parsed events and order rows in a DuckDB database.
type ResultStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewResultStore creates a new instance of ResultStore.
func NewResultStore(logger *logger.Logger) (*ResultStore, error) {
	// Create an in-memory DuckDB database
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to open database", err)
	}

	// Test connection to ensure database is properly initialized
	if err := db.Ping(); err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to connect to database", err)
	}

	store := &ResultStore{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	// Initialize the database tables
	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

// RecordEvents inserts parsed events.
func (s *ResultStore) RecordEvents(sessionID string, events []types.LogEvent) error {
	if s == nil || s.db == nil {
		return errors.New(errors.ErrCodeStoreUnavailable, "result store or database is nil")
	}

	for _, event := range events {
		var nextID int

		err := s.db.QueryRow("SELECT nextval('event_id_seq')").Scan(&nextID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to get next ID from sequence", err)
		}

		// Serialize the payload to JSON
		var dataJSON string

		if len(event.Data) > 0 {
			dataBytes, err := json.Marshal(event.Data)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to marshal event payload to JSON", err)
			}

			dataJSON = string(dataBytes)
		}

		insertQuery := s.sq.
			Insert("events").
			Columns("id", "session_id", "timestamp", "level", "module", "category", "subcategory", "asset", "message", "data").
			Values(nextID, sessionID, event.Timestamp, string(event.Level), event.Module,
				string(event.Category), event.Subcategory, event.Asset, event.Message, dataJSON).
			RunWith(s.db)

		if _, err := insertQuery.Exec(); err != nil {
			return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to insert event", err)
		}
	}

	return nil
}

// RecordSessions inserts the events of each session under its session ID.
func (s *ResultStore) RecordSessions(sessions []*types.StrategySession) error {
	for _, session := range sessions {
		if err := s.RecordEvents(session.ID, session.Events); err != nil {
			return err
		}
	}

	return nil
}

// RecordOrders inserts order detail rows.
func (s *ResultStore) RecordOrders(orders []*types.OrderDetail) error {
	if s == nil || s.db == nil {
		return errors.New(errors.ErrCodeStoreUnavailable, "result store or database is nil")
	}

	for _, order := range orders {
		var nextID int

		err := s.db.QueryRow("SELECT nextval('order_row_id_seq')").Scan(&nextID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to get next ID from sequence", err)
		}

		var fillTime any
		if order.FillTime.IsSome() {
			fillTime = order.FillTime.Unwrap()
		}

		var latency any
		if order.LatencyMs.IsSome() {
			latency = order.LatencyMs.Unwrap()
		}

		insertQuery := s.sq.
			Insert("orders").
			Columns("id", "submit_time", "fill_time", "symbol", "side", "order_type",
				"quantity", "last_filled_qty", "cum_filled_qty", "price", "status",
				"order_id", "latency_ms", "pair_id").
			Values(nextID, order.SubmitTime, fillTime, order.Symbol, order.Side, order.OrderType,
				order.Quantity, order.LastFilledQty, order.CumFilledQty, order.Price,
				string(order.Status), order.OrderID, latency, order.PairID).
			RunWith(s.db)

		if _, err := insertQuery.Exec(); err != nil {
			return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to insert order row", err)
		}
	}

	return nil
}

// EventsByAsset returns recorded events for an asset in insertion order.
func (s *ResultStore) EventsByAsset(asset string) ([]types.LogEvent, error) {
	if s == nil || s.db == nil {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "result store or database is nil")
	}

	selectQuery := s.sq.
		Select("timestamp", "level", "module", "category", "subcategory", "asset", "message", "data").
		From("events").
		Where(squirrel.Eq{"asset": asset}).
		OrderBy("id ASC").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query events", err)
	}
	defer rows.Close()

	var events []types.LogEvent

	for rows.Next() {
		var event types.LogEvent

		var levelStr, categoryStr string

		var dataJSON sql.NullString

		err := rows.Scan(
			&event.Timestamp,
			&levelStr,
			&event.Module,
			&categoryStr,
			&event.Subcategory,
			&event.Asset,
			&event.Message,
			&dataJSON,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan event", err)
		}

		event.Level = types.LogLevel(levelStr)
		event.Category = types.EventCategory(categoryStr)

		if dataJSON.Valid && dataJSON.String != "" {
			var data map[string]types.FieldValue
			if err := json.Unmarshal([]byte(dataJSON.String), &data); err != nil {
				return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to unmarshal event payload", err)
			}

			event.Data = data
		}

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating events", err)
	}

	return events, nil
}

// CountOrdersByStatus returns the number of recorded order rows per status.
func (s *ResultStore) CountOrdersByStatus() (map[string]int, error) {
	if s == nil || s.db == nil {
		return nil, errors.New(errors.ErrCodeStoreUnavailable, "result store or database is nil")
	}

	selectQuery := s.sq.
		Select("status", "COUNT(*)").
		From("orders").
		GroupBy("status").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to query order counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var status string

		var count int

		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan order count", err)
		}

		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "error iterating order counts", err)
	}

	return counts, nil
}

// Write saves the recorded tables to Parquet files in the specified directory.
func (s *ResultStore) Write(path string) error {
	if s == nil || s.db == nil || s.logger == nil {
		return errors.New(errors.ErrCodeStoreUnavailable, "result store, database, or logger is nil")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to create directory", err)
	}

	eventsPath := filepath.Join(path, "events.parquet")

	_, err := s.db.Exec(fmt.Sprintf(`COPY events TO '%s' (FORMAT PARQUET)`, eventsPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to export events to Parquet", err)
	}

	ordersPath := filepath.Join(path, "orders.parquet")

	_, err = s.db.Exec(fmt.Sprintf(`COPY orders TO '%s' (FORMAT PARQUET)`, ordersPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to export orders to Parquet", err)
	}

	s.logger.Info("Successfully exported results to Parquet files",
		zap.String("events", eventsPath),
		zap.String("orders", ordersPath),
	)

	return nil
}

// Cleanup resets the database state.
func (s *ResultStore) Cleanup() error {
	if s == nil || s.db == nil {
		return errors.New(errors.ErrCodeStoreUnavailable, "result store or database is nil")
	}

	_, err := s.db.Exec(`
		DROP TABLE IF EXISTS events;
		DROP TABLE IF EXISTS orders;
		DROP SEQUENCE IF EXISTS event_id_seq;
		DROP SEQUENCE IF EXISTS order_row_id_seq;
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWriteFailed, "failed to cleanup tables", err)
	}

	// Reinitialize
	return s.initialize()
}

// Close closes the database connection.
func (s *ResultStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *ResultStore) initialize() error {
	if s == nil || s.db == nil {
		return errors.New(errors.ErrCodeStoreUnavailable, "result store or database is nil")
	}

	_, err := s.db.Exec(`CREATE SEQUENCE IF NOT EXISTS event_id_seq`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create event sequence", err)
	}

	_, err = s.db.Exec(`CREATE SEQUENCE IF NOT EXISTS order_row_id_seq`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create order sequence", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			session_id TEXT,
			timestamp TIMESTAMP,
			level TEXT,
			module TEXT,
			category TEXT,
			subcategory TEXT,
			asset TEXT,
			message TEXT,
			data TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create events table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY,
			submit_time TIMESTAMP,
			fill_time TIMESTAMP,
			symbol TEXT,
			side TEXT,
			order_type TEXT,
			quantity DOUBLE,
			last_filled_qty DOUBLE,
			cum_filled_qty DOUBLE,
			price DOUBLE,
			status TEXT,
			order_id TEXT,
			latency_ms DOUBLE,
			pair_id TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create orders table", err)
	}

	return nil
}
