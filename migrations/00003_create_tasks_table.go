package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTasksTable, downCreateTasksTable)
}

func upCreateTasksTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE tasks (
	  id BIGSERIAL PRIMARY KEY,
	  title TEXT NOT NULL,
	  description TEXT NOT NULL DEFAULT '',
	  status TEXT NOT NULL DEFAULT 'todo',
	  project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	  assignee_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	  CONSTRAINT check_task_status CHECK (status IN ('todo', 'in_progress', 'done'))
	);

	CREATE INDEX idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX idx_tasks_assignee_id ON tasks(assignee_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateTasksTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS tasks;`)
	return err
}
