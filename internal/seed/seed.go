// Package seed loads the demo accounts and sample project used for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"project-hub/internal/model"
	"project-hub/internal/repository"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
	UserEmail     = "user@example.com"
	UserPassword  = "user123"

	DemoProjectName = "Demo Project"
)

type Result struct {
	UsersCreated   int
	ProjectCreated bool
	TasksCreated   int
}

type Seeder struct {
	users      repository.UserRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	bcryptCost int
}

func NewSeeder(users repository.UserRepository, projects repository.ProjectRepository, tasks repository.TaskRepository, bcryptCost int) *Seeder {
	return &Seeder{users: users, projects: projects, tasks: tasks, bcryptCost: bcryptCost}
}

// Run is idempotent: existing accounts are kept and the demo project is only created once.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var result Result

	admin, created, err := s.ensureUser(ctx, AdminEmail, AdminPassword, "Admin User", model.RoleAdmin)
	if err != nil {
		return result, err
	}
	if created {
		result.UsersCreated++
	}

	user, created, err := s.ensureUser(ctx, UserEmail, UserPassword, "Regular User", model.RoleUser)
	if err != nil {
		return result, err
	}
	if created {
		result.UsersCreated++
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		if p.Name == DemoProjectName && p.OwnerID == admin.ID {
			slog.InfoContext(ctx, "Seed complete", slog.Int("users_created", result.UsersCreated))
			return result, nil
		}
	}

	project, err := s.projects.Create(ctx, &model.Project{
		Name:        DemoProjectName,
		Description: "A sample project to get started",
		OwnerID:     admin.ID,
	})
	if err != nil {
		return result, fmt.Errorf("create demo project: %w", err)
	}
	result.ProjectCreated = true

	tasks := []model.Task{
		{
			Title:       "Setup CI/CD",
			Description: "Configure continuous integration",
			Status:      model.TaskStatusTodo,
			ProjectID:   project.ID,
			AssigneeID:  &user.ID,
		},
		{
			Title:       "Write docs",
			Description: "Document the API endpoints",
			Status:      model.TaskStatusInProgress,
			ProjectID:   project.ID,
		},
	}
	for i := range tasks {
		if _, err := s.tasks.Create(ctx, &tasks[i]); err != nil {
			return result, fmt.Errorf("create demo task %q: %w", tasks[i].Title, err)
		}
		result.TasksCreated++
	}

	slog.InfoContext(ctx, "Seed complete",
		slog.Int("users_created", result.UsersCreated),
		slog.Int("tasks_created", result.TasksCreated),
	)
	return result, nil
}

func (s *Seeder) ensureUser(ctx context.Context, email, password, name, role string) (*model.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find user %s: %w", email, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, false, err
	}

	user, err := s.users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create user %s: %w", email, err)
	}
	return user, true, nil
}
