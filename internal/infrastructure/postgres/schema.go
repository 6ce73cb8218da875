package postgres

import (
	"context"
	"fmt"
)

// schema tablas del servicio. Idempotente: se puede ejecutar en cada arranque.
const schema = `
CREATE TABLE IF NOT EXISTS items (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT          NOT NULL,
	price       NUMERIC(18,4) NOT NULL CHECK (price >= 0),
	status      TEXT          NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'DELETED')),
	created_at  TIMESTAMPTZ   NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ   NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS inventory (
	id                  BIGSERIAL PRIMARY KEY,
	item_id             BIGINT      NOT NULL UNIQUE REFERENCES items(id),
	available_quantity  INTEGER     NOT NULL CHECK (available_quantity >= 0),
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS activity_records (
	id              BIGSERIAL PRIMARY KEY,
	event_id        TEXT        NOT NULL UNIQUE,
	activity_type   TEXT        NOT NULL,
	activity_value  TEXT        NOT NULL,
	item_id         BIGINT      NOT NULL,
	item_name       TEXT        NOT NULL,
	activity_time   TIMESTAMPTZ NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_activity_records_item_time
	ON activity_records (item_id, activity_time DESC);
`

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
