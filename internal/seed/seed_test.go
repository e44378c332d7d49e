package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"project-hub/internal/model"
	"project-hub/internal/repository/repositorytest"
	"project-hub/internal/seed"
)

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	seeder := seed.NewSeeder(store.Users(), store.Projects(), store.Tasks(), bcrypt.MinCost)

	result, err := seeder.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, seed.Result{UsersCreated: 2, ProjectCreated: true, TasksCreated: 2}, result)

	admin, err := store.Users().FindByEmail(ctx, seed.AdminEmail)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, admin.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(seed.AdminPassword)))

	user, err := store.Users().FindByEmail(ctx, seed.UserEmail)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, user.Role)

	projects, err := store.Projects().List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, seed.DemoProjectName, projects[0].Name)
	require.Equal(t, admin.ID, projects[0].OwnerID)

	tasks, err := store.Tasks().List(ctx, model.TaskFilter{ProjectID: &projects[0].ID})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	byTitle := map[string]model.Task{}
	for _, task := range tasks {
		byTitle[task.Title] = task
	}
	require.Equal(t, model.TaskStatusTodo, byTitle["Setup CI/CD"].Status)
	require.Equal(t, user.ID, *byTitle["Setup CI/CD"].AssigneeID)
	require.Equal(t, model.TaskStatusInProgress, byTitle["Write docs"].Status)
	require.Nil(t, byTitle["Write docs"].AssigneeID)
}

func TestSeeder_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()
	seeder := seed.NewSeeder(store.Users(), store.Projects(), store.Tasks(), bcrypt.MinCost)

	_, err := seeder.Run(ctx)
	require.NoError(t, err)

	result, err := seeder.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, seed.Result{}, result)

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	tasks, err := store.Tasks().List(ctx, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestSeeder_KeepsExistingAccounts(t *testing.T) {
	ctx := context.Background()
	store := repositorytest.NewStore()

	_, err := store.Users().Create(ctx, &model.User{
		Email: seed.UserEmail, PasswordHash: "kept", Name: "Already Here", Role: model.RoleUser,
	})
	require.NoError(t, err)

	result, err := seed.NewSeeder(store.Users(), store.Projects(), store.Tasks(), bcrypt.MinCost).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.UsersCreated)

	user, err := store.Users().FindByEmail(ctx, seed.UserEmail)
	require.NoError(t, err)
	require.Equal(t, "kept", user.PasswordHash)
}
