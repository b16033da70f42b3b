package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// Store is the Postgres backed remote ledger.
type Store struct {
	db      *sql.DB
	connStr string
	retry   time.Duration
	logger  *slog.Logger
}

// New returns a store on db. connStr is used to open the dedicated
// connection the change feed listens on.
func New(db *sql.DB, connStr string, retry time.Duration) *Store {
	return &Store{
		db:      db,
		connStr: connStr,
		retry:   retry,
		logger:  slog.Default().With("component", "entry-feed"),
	}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, amount, paid, order
func scanEntry(s scanner) (*entry.Entry, error) {
	var e entry.Entry

	if err := s.Scan(&e.ID, &e.Name, &e.Amount, &e.Paid, &e.Order); err != nil {
		return nil, err
	}

	return &e, nil
}

const selectEntryColumns = `id, name, amount, paid, "order"`

func (s *Store) FetchAll(ctx context.Context, ordered bool) ([]*entry.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM entries`
	if ordered {
		query += ` ORDER BY "order" ASC, created_at ASC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*entry.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry rows: %w", err)
	}

	return entries, nil
}

func (s *Store) Insert(ctx context.Context, e *entry.Entry) error {
	if e.ID != uuid.Nil {
		query := `
			INSERT INTO entries (id, name, amount, paid, "order")
			VALUES ($1, $2, $3, $4, $5)
		`

		if _, err := s.db.ExecContext(ctx, query, e.ID, e.Name, e.Amount, e.Paid, e.Order); err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}

		return nil
	}

	query := `
		INSERT INTO entries (name, amount, paid, "order")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, e.Name, e.Amount, e.Paid, e.Order).Scan(&e.ID); err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, p entry.Patch) error {
	if p.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Name != nil {
		set("name", *p.Name)
	}

	if p.Amount != nil {
		set("amount", *p.Amount)
	}

	if p.Paid != nil {
		set("paid", *p.Paid)
	}

	if p.Order != nil {
		set(`"order"`, *p.Order)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE entries SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}

	if n == 0 {
		return entry.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	return nil
}

// UpsertOrder writes the whole batch in a single statement. Rows deleted in
// the meantime are skipped rather than recreated.
func (s *Store) UpsertOrder(ctx context.Context, batch []entry.Position) error {
	if len(batch) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(batch))
	orders := make([]int32, len(batch))

	for i, p := range batch {
		ids[i] = p.ID
		orders[i] = int32(p.Order)
	}

	query := `
		UPDATE entries AS e
		SET "order" = b.ord
		FROM unnest($1::uuid[], $2::int[]) AS b(id, ord)
		WHERE e.id = b.id
	`

	if _, err := s.db.ExecContext(ctx, query, ids, orders); err != nil {
		return fmt.Errorf("saving entry order: %w", err)
	}

	return nil
}
