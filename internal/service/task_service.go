package service

import (
	"context"
	"errors"

	"project-hub/internal/authz"
	"project-hub/internal/model"
	"project-hub/internal/repository"
)

type TaskService interface {
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	CreateTask(ctx context.Context, identity model.Identity, task *model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, identity model.Identity, id int64, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, identity model.Identity, id int64) error
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	authorizer  authz.Authorizer
}

func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, authorizer authz.Authorizer) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		authorizer:  authorizer,
	}
}

func (s *taskService) ListTasks(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.List(ctx, filter)
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CreateTask requires the referenced project to exist. The check runs before the insert so a
// missing project never reaches the store; the foreign key covers a concurrent delete.
func (s *taskService) CreateTask(ctx context.Context, identity model.Identity, task *model.Task) (*model.Task, error) {
	if err := s.authorizer.Authorize(ctx, identity, authz.ActionCreate, authz.Task()); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	assigneeName, err := s.lookupAssignee(ctx, task.AssigneeID)
	if err != nil {
		return nil, err
	}

	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, referenceError(err)
	}

	created.AssigneeName = assigneeName
	return created, nil
}

func (s *taskService) UpdateTask(ctx context.Context, identity model.Identity, id int64, patch model.TaskPatch) (*model.Task, error) {
	existing, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, identity, authz.ActionUpdate, authz.Task()); err != nil {
		return nil, err
	}

	assigneeName := existing.AssigneeName
	if patch.AssigneeID != nil {
		assigneeName, err = s.lookupAssignee(ctx, patch.AssigneeID)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.taskRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, referenceError(err)
	}
	if updated == nil {
		return nil, ErrTaskNotFound
	}

	updated.AssigneeName = assigneeName
	return updated, nil
}

func (s *taskService) DeleteTask(ctx context.Context, identity model.Identity, id int64) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}

	if err := s.authorizer.Authorize(ctx, identity, authz.ActionDelete, authz.Task()); err != nil {
		return err
	}

	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

func (s *taskService) lookupAssignee(ctx context.Context, assigneeID *int64) (*string, error) {
	if assigneeID == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, *assigneeID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAssigneeNotFound
	}
	return &user.Name, nil
}

func referenceError(err error) error {
	var refErr *repository.ReferenceError
	if !errors.As(err, &refErr) {
		return err
	}

	switch refErr.Constraint {
	case repository.ConstraintTaskProject:
		return ErrProjectNotFound
	case repository.ConstraintTaskAssignee:
		return ErrAssigneeNotFound
	case repository.ConstraintCommentTask:
		return ErrTaskNotFound
	case repository.ConstraintCommentAuthor:
		return ErrUserNotFound
	default:
		return err
	}
}
