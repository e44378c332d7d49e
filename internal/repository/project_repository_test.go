package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"project-hub/internal/model"
	repo "project-hub/internal/repository"
)

func TestPostgresProjectRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresProjectRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO projects (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`)).
		WithArgs("P", "", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	p, err := r.Create(context.Background(), &model.Project{Name: "P", OwnerID: 4})
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, "", p.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_List_NewestFirst(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresProjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "description", "owner_id", "owner_name", "created_at", "updated_at"}).
		AddRow(int64(2), "B", "", int64(1), "Owner", now, now).
		AddRow(int64(1), "A", "", int64(1), "Owner", now.Add(-time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN users u ON p.owner_id = u.id ORDER BY p.created_at DESC`)).WillReturnRows(rows)

	projects, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "Owner", projects[0].OwnerName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_FindByID_NoRows(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresProjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	p, err := r.FindByID(context.Background(), 9)
	require.NoError(t, err)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_Update_PartialKeepsNilFields(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresProjectRepository(db)

	desc := "new description"
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SET name = COALESCE($1, name), description = COALESCE($2, description), updated_at = NOW()`)).
		WithArgs(nil, desc, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "owner_id", "created_at", "updated_at"}).
			AddRow(int64(3), "Kept", desc, int64(1), now, now))

	p, err := r.Update(context.Background(), 3, model.ProjectPatch{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Kept", p.Name)
	require.Equal(t, desc, p.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresProjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM projects WHERE id = $1`)).
		WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := r.Delete(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
