package service

import (
	"context"

	"project-hub/internal/authz"
	"project-hub/internal/model"
	"project-hub/internal/repository"
)

type ProjectService interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	CreateProject(ctx context.Context, identity model.Identity, name, description string) (*model.Project, error)
	UpdateProject(ctx context.Context, identity model.Identity, id int64, patch model.ProjectPatch) (*model.Project, error)
	DeleteProject(ctx context.Context, identity model.Identity, id int64) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	authorizer  authz.Authorizer
}

func NewProjectService(projectRepo repository.ProjectRepository, authorizer authz.Authorizer) ProjectService {
	return &projectService{projectRepo: projectRepo, authorizer: authorizer}
}

func (s *projectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *projectService) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *projectService) CreateProject(ctx context.Context, identity model.Identity, name, description string) (*model.Project, error) {
	if err := s.authorizer.Authorize(ctx, identity, authz.ActionCreate, authz.Resource{Kind: authz.KindProject}); err != nil {
		return nil, err
	}

	return s.projectRepo.Create(ctx, &model.Project{
		Name:        name,
		Description: description,
		OwnerID:     identity.UserID,
	})
}

func (s *projectService) UpdateProject(ctx context.Context, identity model.Identity, id int64, patch model.ProjectPatch) (*model.Project, error) {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, identity, authz.ActionUpdate, authz.Project(existing)); err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrProjectNotFound
	}

	updated.OwnerName = existing.OwnerName
	return updated, nil
}

func (s *projectService) DeleteProject(ctx context.Context, identity model.Identity, id int64) error {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizer.Authorize(ctx, identity, authz.ActionDelete, authz.Project(existing)); err != nil {
		return err
	}

	deleted, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProjectNotFound
	}
	return nil
}
