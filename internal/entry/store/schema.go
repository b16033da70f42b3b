package store

import (
	"context"
	"fmt"
)

// Channel is the NOTIFY channel the entries trigger publishes on.
const Channel = "entries_changes"

// Schema creates the entries table and the trigger feeding the change
// channel. UPDATE payloads only carry the columns that changed, plus id.
const Schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name       text NOT NULL DEFAULT '',
	amount     numeric(14, 2),
	paid       boolean NOT NULL DEFAULT false,
	"order"    integer NOT NULL DEFAULT 0,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE OR REPLACE FUNCTION notify_entries_change() RETURNS trigger AS $$
DECLARE
	payload jsonb;
BEGIN
	IF TG_OP = 'INSERT' THEN
		payload := jsonb_build_object('type', TG_OP, 'new', to_jsonb(NEW));
	ELSIF TG_OP = 'UPDATE' THEN
		payload := jsonb_build_object('type', TG_OP, 'new',
			(SELECT COALESCE(jsonb_object_agg(n.key, n.value), '{}'::jsonb)
			   FROM jsonb_each(to_jsonb(NEW)) AS n
			  WHERE to_jsonb(OLD) -> n.key IS DISTINCT FROM n.value)
			|| jsonb_build_object('id', NEW.id));
	ELSE
		payload := jsonb_build_object('type', TG_OP, 'old', jsonb_build_object('id', OLD.id));
	END IF;

	PERFORM pg_notify(TG_ARGV[0], payload::text);

	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS entries_notify ON entries;

CREATE TRIGGER entries_notify
	AFTER INSERT OR UPDATE OR DELETE ON entries
	FOR EACH ROW EXECUTE FUNCTION notify_entries_change('` + Channel + `');
`

// Migrate applies Schema. It is safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrating entries schema: %w", err)
	}

	return nil
}
