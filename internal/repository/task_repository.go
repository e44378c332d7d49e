package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"project-hub/internal/model"
)

type TaskRepository interface {
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type postgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) TaskRepository {
	return &postgresTaskRepository{db: db}
}

const taskSelect = `
		SELECT t.id, t.title, t.description, t.status, t.project_id, t.assignee_id,
			u.name AS assignee_name, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN users u ON t.assignee_id = u.id`

func (r *postgresTaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	query := taskSelect
	args := []interface{}{}
	argID := 1

	if filter.ProjectID != nil {
		query += fmt.Sprintf(" WHERE t.project_id = $%d", argID)
		args = append(args, *filter.ProjectID)
		argID++
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *postgresTaskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, taskSelect+` WHERE t.id = $1`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &task, nil
}

func (r *postgresTaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	query := `
		INSERT INTO tasks (title, description, status, assignee_id, project_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, task.Title, task.Description, task.Status, task.AssigneeID, task.ProjectID)
	if err := row.Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, translateError(err)
	}

	return task, nil
}

func (r *postgresTaskRepository) Update(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	var task model.Task
	query := `
		UPDATE tasks
		SET title = COALESCE($1, title), description = COALESCE($2, description),
			status = COALESCE($3, status), assignee_id = COALESCE($4, assignee_id),
			updated_at = NOW()
		WHERE id = $5
		RETURNING id, title, description, status, project_id, assignee_id, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &task, query, patch.Title, patch.Description, patch.Status, patch.AssigneeID, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translateError(err)
	}

	return &task, nil
}

func (r *postgresTaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
