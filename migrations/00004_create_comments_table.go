package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCommentsTable, downCreateCommentsTable)
}

func upCreateCommentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE comments (
	  id BIGSERIAL PRIMARY KEY,
	  body TEXT NOT NULL,
	  task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	  author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	  CONSTRAINT check_comment_body_length CHECK (char_length(body) BETWEEN 1 AND 5000)
	);

	CREATE INDEX idx_comments_task_id ON comments(task_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateCommentsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS comments;`)
	return err
}
