package database

import (
	"context"
	"fmt"
)

// migrations run in order on every start; each statement is idempotent.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "extensions",
		sql:  `CREATE EXTENSION IF NOT EXISTS btree_gist`,
	},
	{
		name: "users",
		sql: `CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password      TEXT NOT NULL,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "signages",
		sql: `CREATE TABLE IF NOT EXISTS signages (
			id           UUID PRIMARY KEY,
			label        TEXT NOT NULL UNIQUE,
			last_used_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "sessions",
		sql: `CREATE TABLE IF NOT EXISTS sessions (
			id          UUID PRIMARY KEY,
			owner_id    UUID NOT NULL,
			owner_label TEXT NOT NULL,
			method      TEXT NOT NULL CHECK (method IN ('identity', 'code')),
			token       UUID NOT NULL UNIQUE,
			user_agent  TEXT,
			ip_address  TEXT,
			expires_at  TIMESTAMPTZ NOT NULL,
			revoked_at  TIMESTAMPTZ,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "bookings",
		sql: `CREATE TABLE IF NOT EXISTS bookings (
			id           UUID PRIMARY KEY,
			resource     TEXT NOT NULL,
			owner_id     UUID NOT NULL,
			owner_label  TEXT NOT NULL,
			start_time   TIMESTAMPTZ NOT NULL,
			end_time     TIMESTAMPTZ NOT NULL,
			purpose      TEXT NOT NULL,
			notes        TEXT,
			status       TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'cancelled')),
			cancelled_at TIMESTAMPTZ,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT bookings_valid_interval CHECK (start_time < end_time)
		)`,
	},
	{
		name: "bookings_resource_idx",
		sql:  `CREATE INDEX IF NOT EXISTS bookings_resource_status_start_idx ON bookings (resource, status, start_time)`,
	},
	{
		// active bookings on one resource never overlap, whatever path wrote them
		name: "bookings_no_overlap",
		sql: `DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
				ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
					EXCLUDE USING gist (resource WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
					WHERE (status = 'active');
			END IF;
		END
		$$`,
	},
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db PgxIface) error {
	for _, m := range migrations {
		if _, err := db.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", m.name, err)
		}
	}
	return nil
}
