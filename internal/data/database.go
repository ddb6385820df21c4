package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"shopbackend/internal/logger"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	maxOpenConns    = 1
	connMaxLifetime = time.Hour
	queryTimeout    = time.Second * 30
	openRetries     = 3
)

const TimeFormat = time.RFC3339Nano

// =============================================================================
// SCHEMA DEFINITIONS
// =============================================================================

// Every table carries a position column so that Load returns rows in the
// order they were saved.
const schema = `
    CREATE TABLE IF NOT EXISTS users (
        position INTEGER PRIMARY KEY,
        username TEXT NOT NULL,
        password TEXT NOT NULL,
        role TEXT NOT NULL,
        name TEXT NOT NULL DEFAULT '',
        membership_level INTEGER,
        budget REAL
    );
    CREATE TABLE IF NOT EXISTS products (
        position INTEGER PRIMARY KEY,
        product_index INTEGER NOT NULL,
        product_name TEXT NOT NULL DEFAULT '',
        price REAL NOT NULL DEFAULT 0,
        manufacturer TEXT NOT NULL DEFAULT '',
        remarks_json TEXT
    );
    CREATE TABLE IF NOT EXISTS transactions (
        position INTEGER PRIMARY KEY,
        id TEXT NOT NULL,
        username TEXT NOT NULL,
        product_index INTEGER NOT NULL,
        quantity INTEGER NOT NULL,
        total_cost REAL NOT NULL,
        discount REAL NOT NULL,
        discounted_cost REAL NOT NULL,
        final_cost REAL NOT NULL,
        date TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_transactions_username ON transactions(username);
    CREATE TABLE IF NOT EXISTS membership_costs (
        level INTEGER PRIMARY KEY,
        cost REAL NOT NULL
    );`

// =============================================================================
// DATABASE CONNECTION AND SETUP
// =============================================================================

// SQLiteStore snapshots the State into four tables. Each Save replaces the
// contents of every table inside a single SQL transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database file and ensures the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "shop.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := openWithRetry(path, openRetries)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func openWithRetry(dataSourceName string, maxRetries int) (*sql.DB, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err := sql.Open("sqlite", dataSourceName)
		if err != nil {
			logger.LogWarn("Database connection attempt %d failed: %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
			continue
		}

		db.SetMaxOpenConns(maxOpenConns)
		db.SetConnMaxLifetime(connMaxLifetime)

		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		err = db.PingContext(ctx)
		cancel()

		if err != nil {
			logger.LogWarn("Database ping attempt %d failed: %v", attempt, err)
			db.Close()
			lastErr = err
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
			continue
		}

		if err := enablePragmas(db); err != nil {
			logger.LogWarn("Failed to enable some database optimizations: %v", err)
		}

		logger.LogInfo("Database connection established (attempt %d)", attempt)
		return db, nil
	}

	return nil, fmt.Errorf("failed to open database after %d attempts: %w", maxRetries, lastErr)
}

func enablePragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	var lastErr error
	for _, pragma := range pragmas {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		_, err := conn.ExecContext(ctx, pragma)
		cancel()

		if err != nil {
			logger.LogWarn("Failed to execute %s: %v", pragma, err)
			lastErr = err
		}
	}
	return lastErr
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// =============================================================================
// LOAD
// =============================================================================

func (s *SQLiteStore) Load(ctx context.Context) (*State, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	st := NewState()
	var err error

	if st.Users, err = s.loadUsers(ctx); err != nil {
		return nil, err
	}
	if st.Products, err = s.loadProducts(ctx); err != nil {
		return nil, err
	}
	if st.Transactions, err = s.loadTransactions(ctx); err != nil {
		return nil, err
	}
	if st.LevelCosts, err = s.loadLevelCosts(ctx); err != nil {
		return nil, err
	}

	logger.LogInfo("Loaded %d users, %d products, %d transactions from %s",
		len(st.Users), len(st.Products), len(st.Transactions), s.path)
	return st, nil
}

func (s *SQLiteStore) loadUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, password, role, name, membership_level, budget FROM users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var recs []userRecord
	for rows.Next() {
		var rec userRecord
		var role string
		var level sql.NullInt64
		var budget sql.NullFloat64
		if err := rows.Scan(&rec.Username, &rec.Password, &role, &rec.Name, &level, &budget); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		rec.Role = Role(role)
		if level.Valid {
			l := int(level.Int64)
			rec.MembershipLevel = &l
		}
		if budget.Valid {
			b := budget.Float64
			rec.Budget = &b
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	users, err := usersFromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) loadProducts(ctx context.Context) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_index, product_name, price, manufacturer, remarks_json FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		var p Product
		var remarks sql.NullString
		if err := rows.Scan(&p.Index, &p.Name, &p.Price, &p.Manufacturer, &remarks); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if remarks.Valid {
			if err := unmarshalJSON(remarks.String, &p.Remarks); err != nil {
				return nil, fmt.Errorf("failed to parse remarks of product %d: %w", p.Index, err)
			}
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

func (s *SQLiteStore) loadTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, product_index, quantity, total_cost, discount,
			discounted_cost, final_cost, date
		FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		var t Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.Username, &t.ProductIndex, &t.Quantity, &t.TotalCost,
			&t.Discount, &t.DiscountedCost, &t.FinalCost, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("failed to parse date of transaction %s: %w", t.ID, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

func (s *SQLiteStore) loadLevelCosts(ctx context.Context) (LevelCosts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT level, cost FROM membership_costs`)
	if err != nil {
		return nil, fmt.Errorf("failed to query membership costs: %w", err)
	}
	defer rows.Close()

	stored := make(map[int]float64)
	for rows.Next() {
		var level int
		var cost float64
		if err := rows.Scan(&level, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan membership cost: %w", err)
		}
		stored[level] = cost
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership cost rows: %w", err)
	}
	return levelCostsFromMap(stored)
}

// =============================================================================
// SAVE
// =============================================================================

func (s *SQLiteStore) Save(ctx context.Context, st *State) (err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.LogError("Rollback after failed save also failed: %v", rbErr)
			}
		}
	}()

	for _, table := range []string{"users", "products", "transactions", "membership_costs"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, u := range st.Users {
		rec := toUserRecord(u)
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO users (position, username, password, role, name, membership_level, budget)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, rec.Username, rec.Password, string(rec.Role), rec.Name,
			nullableInt(rec.MembershipLevel), nullableFloat(rec.Budget)); err != nil {
			return fmt.Errorf("failed to insert user %q: %w", rec.Username, err)
		}
	}

	for i, p := range st.Products {
		var remarks interface{}
		if p.Remarks != nil {
			if remarks, err = marshalJSON(p.Remarks); err != nil {
				return err
			}
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO products (position, product_index, product_name, price, manufacturer, remarks_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			i, p.Index, p.Name, p.Price, p.Manufacturer, remarks); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", p.Index, err)
		}
	}

	for i, t := range st.Transactions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (position, id, username, product_index, quantity, total_cost,
				discount, discounted_cost, final_cost, date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, t.ID, t.Username, t.ProductIndex, t.Quantity, t.TotalCost,
			t.Discount, t.DiscountedCost, t.FinalCost, formatTime(t.Date)); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	for level, cost := range st.LevelCosts {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO membership_costs (level, cost) VALUES (?, ?)`, level, cost); err != nil {
			return fmt.Errorf("failed to insert membership cost %d: %w", level, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS (JSON AND TIME HANDLING)
// =============================================================================

func marshalJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func unmarshalJSON(data string, v interface{}) error {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

func parseTime(timeStr string) (time.Time, error) {
	return time.Parse(TimeFormat, timeStr)
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
