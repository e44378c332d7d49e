package api

import (
	"github.com/gofiber/fiber/v2"

	"project-hub/internal/model"
	"project-hub/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CreateCommentRequest struct {
	Body   string `json:"body" validate:"required,max=5000"`
	TaskID int64  `json:"task_id" validate:"required,gt=0"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	taskID, err := queryID(c, "task_id")
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListComments(c.UserContext(), model.CommentFilter{TaskID: taskID})
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return c.JSON(comments)
}

func (h *CommentHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	comment, err := h.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	var request CreateCommentRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	comment, err := h.commentService.CreateComment(c.UserContext(), identity, request.TaskID, request.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var request UpdateCommentRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	comment, err := h.commentService.UpdateComment(c.UserContext(), identity, id, request.Body)
	if err != nil {
		return err
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.commentService.DeleteComment(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
