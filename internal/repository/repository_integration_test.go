package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"project-hub/internal/model"
	_ "project-hub/migrations"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	db       *sqlx.DB
	pgc      *postgres.PostgresContainer
	ctx      context.Context
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
	comments CommentRepository
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("pgx", connStr)
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(goose.SetDialect("postgres"))
	s.Require().NoError(goose.Up(db.DB, "../../migrations"))

	s.users = NewPostgresUserRepository(s.db)
	s.projects = NewPostgresProjectRepository(s.db)
	s.tasks = NewPostgresTaskRepository(s.db)
	s.comments = NewPostgresCommentRepository(s.db)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *RepositoryIntegrationTestSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, `TRUNCATE comments, tasks, projects, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *RepositoryIntegrationTestSuite) createUser(email string) *model.User {
	u, err := s.users.Create(s.ctx, &model.User{Email: email, PasswordHash: "hash", Name: "Tester", Role: model.RoleUser})
	s.Require().NoError(err)
	return u
}

func (s *RepositoryIntegrationTestSuite) TestUserRepository_DuplicateEmail() {
	s.createUser("dup@test.com")

	_, err := s.users.Create(s.ctx, &model.User{Email: "dup@test.com", PasswordHash: "hash", Name: "Again", Role: model.RoleUser})
	assert.ErrorIs(s.T(), err, ErrDuplicate)

	// email matching is case-sensitive
	_, err = s.users.Create(s.ctx, &model.User{Email: "DUP@test.com", PasswordHash: "hash", Name: "Upper", Role: model.RoleUser})
	assert.NoError(s.T(), err)
}

func (s *RepositoryIntegrationTestSuite) TestProjectDelete_CascadesToTasksAndComments() {
	owner := s.createUser("owner@test.com")

	project, err := s.projects.Create(s.ctx, &model.Project{Name: "P", OwnerID: owner.ID})
	s.Require().NoError(err)

	task, err := s.tasks.Create(s.ctx, &model.Task{Title: "T", Status: model.TaskStatusTodo, ProjectID: project.ID})
	s.Require().NoError(err)

	comment, err := s.comments.Create(s.ctx, &model.Comment{Body: "hi", TaskID: task.ID, AuthorID: owner.ID})
	s.Require().NoError(err)

	deleted, err := s.projects.Delete(s.ctx, project.ID)
	s.Require().NoError(err)
	assert.True(s.T(), deleted)

	foundTask, err := s.tasks.FindByID(s.ctx, task.ID)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), foundTask)

	foundComment, err := s.comments.FindByID(s.ctx, comment.ID)
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), foundComment)
}

func (s *RepositoryIntegrationTestSuite) TestTaskCreate_MissingProjectViolatesForeignKey() {
	_, err := s.tasks.Create(s.ctx, &model.Task{Title: "T", Status: model.TaskStatusTodo, ProjectID: 4242})

	var refErr *ReferenceError
	s.Require().ErrorAs(err, &refErr)
	assert.Equal(s.T(), ConstraintTaskProject, refErr.Constraint)
}

func (s *RepositoryIntegrationTestSuite) TestProjectUpdate_PartialAndOrdering() {
	owner := s.createUser("partial@test.com")

	first, err := s.projects.Create(s.ctx, &model.Project{Name: "First", Description: "keep me", OwnerID: owner.ID})
	s.Require().NoError(err)
	_, err = s.projects.Create(s.ctx, &model.Project{Name: "Second", OwnerID: owner.ID})
	s.Require().NoError(err)

	name := "Renamed"
	updated, err := s.projects.Update(s.ctx, first.ID, model.ProjectPatch{Name: &name})
	s.Require().NoError(err)
	assert.Equal(s.T(), "Renamed", updated.Name)
	assert.Equal(s.T(), "keep me", updated.Description)
	assert.True(s.T(), !updated.UpdatedAt.Before(first.UpdatedAt))

	list, err := s.projects.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	assert.Equal(s.T(), "Second", list[0].Name)
	assert.Equal(s.T(), "Tester", list[0].OwnerName)
}

func TestRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}
