package service

import (
	"context"

	"project-hub/internal/authz"
	"project-hub/internal/model"
	"project-hub/internal/repository"
)

type CommentService interface {
	ListComments(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error)
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	CreateComment(ctx context.Context, identity model.Identity, taskID int64, body string) (*model.Comment, error)
	UpdateComment(ctx context.Context, identity model.Identity, id int64, body string) (*model.Comment, error)
	DeleteComment(ctx context.Context, identity model.Identity, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	authorizer  authz.Authorizer
}

func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, authorizer authz.Authorizer) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		authorizer:  authorizer,
	}
}

func (s *commentService) ListComments(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	return s.commentRepo.List(ctx, filter)
}

func (s *commentService) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (s *commentService) CreateComment(ctx context.Context, identity model.Identity, taskID int64, body string) (*model.Comment, error) {
	if err := s.authorizer.Authorize(ctx, identity, authz.ActionCreate, authz.Resource{Kind: authz.KindComment}); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	created, err := s.commentRepo.Create(ctx, &model.Comment{
		Body:     body,
		TaskID:   taskID,
		AuthorID: identity.UserID,
	})
	if err != nil {
		return nil, referenceError(err)
	}
	return created, nil
}

func (s *commentService) UpdateComment(ctx context.Context, identity model.Identity, id int64, body string) (*model.Comment, error) {
	existing, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, identity, authz.ActionUpdate, authz.Comment(existing)); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.UpdateBody(ctx, id, body)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCommentNotFound
	}

	updated.AuthorName = existing.AuthorName
	return updated, nil
}

func (s *commentService) DeleteComment(ctx context.Context, identity model.Identity, id int64) error {
	existing, err := s.GetComment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizer.Authorize(ctx, identity, authz.ActionDelete, authz.Comment(existing)); err != nil {
		return err
	}

	deleted, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}
	return nil
}
