package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"project-hub/internal/model"
)

type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) (*model.Project, error)
	Update(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type postgresProjectRepository struct {
	db *sqlx.DB
}

func NewPostgresProjectRepository(db *sqlx.DB) ProjectRepository {
	return &postgresProjectRepository{db: db}
}

const projectSelect = `
		SELECT p.id, p.name, p.description, p.owner_id, u.name AS owner_name, p.created_at, p.updated_at
		FROM projects p
		JOIN users u ON p.owner_id = u.id`

func (r *postgresProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	query := projectSelect + ` ORDER BY p.created_at DESC, p.id DESC`
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *postgresProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	query := projectSelect + ` WHERE p.id = $1`
	err := r.db.GetContext(ctx, &project, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

func (r *postgresProjectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	query := `
		INSERT INTO projects (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, project.Name, project.Description, project.OwnerID)
	if err := row.Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, translateError(err)
	}

	return project, nil
}

// Update applies the non-nil fields of patch and returns nil when the project does not exist.
func (r *postgresProjectRepository) Update(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	var project model.Project
	query := `
		UPDATE projects
		SET name = COALESCE($1, name), description = COALESCE($2, description), updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, description, owner_id, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &project, query, patch.Name, patch.Description, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &project, nil
}

// Delete removes the project; tasks and their comments go with it through ON DELETE CASCADE.
func (r *postgresProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
