package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateProjectsTable, downCreateProjectsTable)
}

func upCreateProjectsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE projects (
	  id BIGSERIAL PRIMARY KEY,
	  name TEXT NOT NULL,
	  description TEXT NOT NULL DEFAULT '',
	  owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE INDEX idx_projects_owner_id ON projects(owner_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateProjectsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS projects;`)
	return err
}
