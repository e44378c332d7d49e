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

func TestPostgresCommentRepository_List_ThreadOrder(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresCommentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.task_id = $1 ORDER BY c.created_at ASC`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "task_id", "author_id", "author_name", "created_at"}).
			AddRow(int64(1), "first", int64(3), int64(1), "A", now.Add(-time.Minute)).
			AddRow(int64(2), "second", int64(3), int64(2), "B", now))

	taskID := int64(3)
	comments, err := r.List(context.Background(), model.CommentFilter{TaskID: &taskID})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Body)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCommentRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments (body, task_id, author_id)`)).
		WithArgs("hello", int64(3), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), time.Now()))

	c, err := r.Create(context.Background(), &model.Comment{Body: "hello", TaskID: 3, AuthorID: 4})
	require.NoError(t, err)
	require.Equal(t, int64(10), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCommentRepository_UpdateBody_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := repo.NewPostgresCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE comments SET body = $1 WHERE id = $2`)).
		WithArgs("edited", int64(5)).WillReturnError(sql.ErrNoRows)

	c, err := r.UpdateBody(context.Background(), 5, "edited")
	require.NoError(t, err)
	require.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}
