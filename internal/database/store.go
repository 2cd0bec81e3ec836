package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/overtimestaff/marketboard/internal/model"
)

// Querier is the subset of pgxpool.Pool used by Store.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// Store reads and writes listings in the market_updates table.
type Store struct {
	db    Querier
	table string
}

// NewStore creates a store over the given schema-qualified table.
func NewStore(db Querier, schema, table string) *Store {
	return &Store{
		db:    db,
		table: pgx.Identifier{schema, table}.Sanitize(),
	}
}

const listColumns = `id::text, type, title, location, original_rate, currency, region, highlight, created_at, urgency_level`

// ListRecent returns up to limit rows, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.Row, error) {
	sql := `SELECT ` + listColumns + ` FROM ` + s.table + ` ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	return out, nil
}

// Insert stores a new listing and returns the stored row.
func (s *Store) Insert(ctx context.Context, in model.ListingInput) (model.Row, error) {
	sql := `INSERT INTO ` + s.table + ` (id, type, title, location, original_rate, currency, region, highlight, urgency_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + listColumns

	row := s.db.QueryRow(ctx, sql,
		uuid.New(),
		string(in.Type),
		in.Title,
		in.Location,
		in.OriginalRate,
		in.Currency,
		in.Region,
		in.Highlight,
		string(in.Urgency),
	)

	out, err := scanRow(row)
	if err != nil {
		return model.Row{}, fmt.Errorf("insert listing: %w", err)
	}
	return out, nil
}

func scanRow(row pgx.Row) (model.Row, error) {
	var (
		out       model.Row
		id        string
		location  *string
		currency  *string
		region    *string
		urgency   *string
		createdAt time.Time
	)

	err := row.Scan(
		&id,
		&out.Type,
		&out.Title,
		&location,
		&out.OriginalRate,
		&currency,
		&region,
		&out.Highlight,
		&createdAt,
		&urgency,
	)
	if err != nil {
		return model.Row{}, fmt.Errorf("scan listing: %w", err)
	}

	out.ID = model.FlexibleID(id)
	out.Location = deref(location)
	out.Currency = deref(currency)
	out.Region = deref(region)
	out.UrgencyLevel = deref(urgency)
	out.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
