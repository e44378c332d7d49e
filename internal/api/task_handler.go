package api

import (
	"github.com/gofiber/fiber/v2"

	"project-hub/internal/model"
	"project-hub/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Status      *string `json:"status" validate:"omitnil,oneof=todo in_progress done"`
	AssigneeID  *int64  `json:"assignee_id" validate:"omitnil,gt=0"`
	ProjectID   int64   `json:"project_id" validate:"required,gt=0"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Status      *string `json:"status" validate:"omitnil,oneof=todo in_progress done"`
	AssigneeID  *int64  `json:"assignee_id" validate:"omitnil,gt=0"`
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	projectID, err := queryID(c, "project_id")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListTasks(c.UserContext(), model.TaskFilter{ProjectID: projectID})
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(tasks)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	var request CreateTaskRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	task := &model.Task{
		Title:       request.Title,
		Description: request.Description,
		ProjectID:   request.ProjectID,
		AssigneeID:  request.AssigneeID,
	}
	if request.Status != nil {
		task.Status = *request.Status
	}

	created, err := h.taskService.CreateTask(c.UserContext(), identity, task)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var request UpdateTaskRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.UserContext(), identity, id, model.TaskPatch{
		Title:       request.Title,
		Description: request.Description,
		Status:      request.Status,
		AssigneeID:  request.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
