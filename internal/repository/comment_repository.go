package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"project-hub/internal/model"
)

type CommentRepository interface {
	List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	UpdateBody(ctx context.Context, id int64, body string) (*model.Comment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type postgresCommentRepository struct {
	db *sqlx.DB
}

func NewPostgresCommentRepository(db *sqlx.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

const commentSelect = `
		SELECT c.id, c.body, c.task_id, c.author_id, u.name AS author_name, c.created_at
		FROM comments c
		JOIN users u ON c.author_id = u.id`

func (r *postgresCommentRepository) List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	query := commentSelect
	args := []interface{}{}
	argID := 1

	if filter.TaskID != nil {
		query += fmt.Sprintf(" WHERE c.task_id = $%d", argID)
		args = append(args, *filter.TaskID)
		argID++
	}
	// thread order
	query += " ORDER BY c.created_at ASC, c.id ASC"

	comments := []model.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *postgresCommentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, commentSelect+` WHERE c.id = $1`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &comment, nil
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	query := `
		INSERT INTO comments (body, task_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, comment.Body, comment.TaskID, comment.AuthorID)
	if err := row.Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return nil, translateError(err)
	}

	return comment, nil
}

func (r *postgresCommentRepository) UpdateBody(ctx context.Context, id int64, body string) (*model.Comment, error) {
	var comment model.Comment
	query := `UPDATE comments SET body = $1 WHERE id = $2 RETURNING id, body, task_id, author_id, created_at`
	err := r.db.GetContext(ctx, &comment, query, body, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &comment, nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
