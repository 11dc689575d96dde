package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		category      TEXT NOT NULL,
		price         BIGINT NOT NULL CHECK (price > 0),
		offer_price   BIGINT,
		quantity      TEXT NOT NULL DEFAULT '',
		rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_veg        BOOLEAN NOT NULL DEFAULT FALSE,
		orders_placed BIGINT NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS restaurant_tables (
		id               BIGSERIAL PRIMARY KEY,
		table_number     TEXT NOT NULL UNIQUE,
		seating_capacity INT NOT NULL CHECK (seating_capacity > 0),
		section          TEXT NOT NULL,
		is_available     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id             UUID PRIMARY KEY,
		full_name      TEXT NOT NULL,
		email          TEXT NOT NULL,
		phone          TEXT NOT NULL,
		num_people     INT NOT NULL,
		purpose        TEXT NOT NULL DEFAULT '',
		arrival_date   DATE NOT NULL,
		arrival_time   TIME NOT NULL,
		table_number   TEXT NOT NULL,
		table_capacity INT NOT NULL,
		order_type     TEXT NOT NULL,
		total_amount   BIGINT NOT NULL DEFAULT 0,
		status         TEXT NOT NULL DEFAULT 'confirmed',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations (arrival_date, arrival_time, status)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_email ON reservations (lower(email))`,
	`CREATE TABLE IF NOT EXISTS reservation_items (
		id             UUID PRIMARY KEY,
		reservation_id UUID NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
		menu_item_id   BIGINT NOT NULL,
		name           TEXT NOT NULL DEFAULT '',
		quantity       INT NOT NULL,
		price          BIGINT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS todays_specials (
		id                  UUID PRIMARY KEY,
		menu_item_id        BIGINT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		special_price       BIGINT,
		special_description TEXT NOT NULL DEFAULT '',
		is_active           BOOLEAN NOT NULL DEFAULT TRUE,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// OpenPostgres opens a pgx-backed database/sql pool and verifies connectivity
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables if they do not exist yet
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
