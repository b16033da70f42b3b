package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/database"
	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// Subscribe listens on Channel and hands every change to fn until ctx is
// cancelled. If the connection drops it is reopened after the retry delay;
// changes made while disconnected are not replayed.
func (s *Store) Subscribe(ctx context.Context, fn func(entry.Event)) error {
	conn, err := s.listen(ctx)
	if err != nil {
		return err
	}

	go s.feed(ctx, conn, fn)

	return nil
}

func (s *Store) listen(ctx context.Context) (*pgx.Conn, error) {
	conn, err := database.Listener(ctx, s.connStr)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		_ = conn.Close(context.Background())
		return nil, fmt.Errorf("listening on %s: %w", Channel, err)
	}

	return conn, nil
}

func (s *Store) feed(ctx context.Context, conn *pgx.Conn, fn func(entry.Event)) {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			_ = conn.Close(context.Background())

			if ctx.Err() != nil {
				return
			}

			s.logger.Error("change feed interrupted", "error", err)

			if conn = s.reconnect(ctx); conn == nil {
				return
			}

			continue
		}

		ev, err := decodeEvent([]byte(n.Payload))
		if err != nil {
			s.logger.Warn("skipping malformed change payload", "error", err, "payload", n.Payload)
			continue
		}

		fn(ev)
	}
}

func (s *Store) reconnect(ctx context.Context) *pgx.Conn {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.retry):
		}

		conn, err := s.listen(ctx)
		if err == nil {
			s.logger.Info("change feed reconnected")
			return conn
		}

		s.logger.Error("failed to reconnect change feed", "error", err)
	}
}

// changeRow mirrors the JSON of an entries row. Columns missing from an
// UPDATE payload stay nil.
type changeRow struct {
	ID     uuid.UUID        `json:"id"`
	Name   *string          `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
	Paid   *bool            `json:"paid"`
	Order  *int             `json:"order"`
}

type changePayload struct {
	Type entry.EventType `json:"type"`
	New  *changeRow      `json:"new"`
	Old  *changeRow      `json:"old"`
}

func decodeEvent(payload []byte) (entry.Event, error) {
	var p changePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return entry.Event{}, fmt.Errorf("decoding change payload: %w", err)
	}

	switch p.Type {
	case entry.EventInsert:
		if p.New == nil {
			return entry.Event{}, errors.New("insert without new row")
		}

		return entry.Event{Type: p.Type, ID: p.New.ID, Record: p.New.toEntry()}, nil

	case entry.EventUpdate:
		if p.New == nil {
			return entry.Event{}, errors.New("update without new row")
		}

		return entry.Event{Type: p.Type, ID: p.New.ID, Patch: p.New.patch()}, nil

	case entry.EventDelete:
		if p.Old == nil {
			return entry.Event{}, errors.New("delete without old row")
		}

		return entry.Event{Type: p.Type, ID: p.Old.ID}, nil
	}

	return entry.Event{}, fmt.Errorf("unknown change type %q", p.Type)
}

func (r *changeRow) toEntry() *entry.Entry {
	e := &entry.Entry{ID: r.ID}
	e.Apply(r.patch())

	return e
}

func (r *changeRow) patch() entry.Patch {
	return entry.Patch{
		Name:   r.Name,
		Amount: r.Amount,
		Paid:   r.Paid,
		Order:  r.Order,
	}
}
