package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS study_plans (
		id BIGSERIAL PRIMARY KEY,
		plan_name TEXT NOT NULL,
		plan_description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS plan_materials (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		artifact_url TEXT,
		text_length INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS plan_materials_plan_id_idx ON plan_materials (plan_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS study_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_name TEXT NOT NULL,
		plan_description TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plan_materials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		artifact_url TEXT,
		text_length INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS plan_materials_plan_id_idx ON plan_materials (plan_id)`,
}

// EnsureSchema creates the tables used by SQLRepository when missing.
// plan_materials.plan_id has no foreign key: workflow plan ids are caller supplied.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts := postgresSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
