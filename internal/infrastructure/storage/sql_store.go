package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

const pricesTable = "last_prices"

const schema = `CREATE TABLE IF NOT EXISTS last_prices (
	item_id    TEXT PRIMARY KEY,
	price      DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Dialect captures the few statements that differ between SQL backends.
type Dialect struct {
	Name        string
	Driver      string
	Placeholder sq.PlaceholderFormat
	// exceptIDs builds the predicate matching rows whose id is not in ids.
	exceptIDs func(ids []string) sq.Sqlizer
}

// SQLite stores prices through mattn/go-sqlite3.
var SQLite = Dialect{
	Name:        "sqlite",
	Driver:      "sqlite3",
	Placeholder: sq.Question,
	exceptIDs: func(ids []string) sq.Sqlizer {
		return sq.NotEq{"item_id": ids}
	},
}

// Postgres stores prices through lib/pq.
var Postgres = Dialect{
	Name:        "postgres",
	Driver:      "postgres",
	Placeholder: sq.Dollar,
	exceptIDs: func(ids []string) sq.Sqlizer {
		return sq.Expr("NOT (item_id = ANY(?))", pq.StringArray(ids))
	},
}

// SQLStore persists the price state in a relational table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.StateStore = (*SQLStore)(nil)

// NewSQLStore wires an open sql.DB; the schema is not touched.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		now:     time.Now,
	}
}

// OpenSQL opens dsn with the dialect's driver and ensures the schema exists.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	store := NewSQLStore(db, dialect)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the prices table when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create %s table: %w", pricesTable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Load reads every recorded price.
func (s *SQLStore) Load(ctx context.Context) (domain.PriceState, error) {
	query, args, err := s.builder.Select("item_id", "price").From(pricesTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}

	state := domain.PriceState{}
	for rows.Next() {
		var (
			id    string
			price float64
		)
		if err := rows.Scan(&id, &price); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan price: %w", err)
		}
		state[id] = price
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return state, nil
}

// Replace upserts every entry and removes rows absent from state, in one
// transaction.
func (s *SQLStore) Replace(ctx context.Context, state domain.PriceState) error {
	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}

	if len(ids) > 0 {
		now := s.now().UTC()
		insert := s.builder.Insert(pricesTable).Columns("item_id", "price", "updated_at")
		for _, id := range ids {
			insert = insert.Values(id, state[id], now)
		}
		insert = insert.Suffix("ON CONFLICT (item_id) DO UPDATE SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at")

		if err := s.exec(ctx, tx, insert); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert prices: %w", err)
		}
	}

	prune := s.builder.Delete(pricesTable).Where(s.dialect.exceptIDs(ids))
	if err := s.exec(ctx, tx, prune); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prune prices: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (s *SQLStore) exec(ctx context.Context, tx *sql.Tx, stmt sq.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build statement: %w", err)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
