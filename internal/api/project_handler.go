package api

import (
	"github.com/gofiber/fiber/v2"

	"project-hub/internal/model"
	"project-hub/internal/service"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateProjectRequest leaves absent fields untouched.
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.projectService.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return c.JSON(projects)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProject(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	var request CreateProjectRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	project, err := h.projectService.CreateProject(c.UserContext(), identity, request.Name, request.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var request UpdateProjectRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	project, err := h.projectService.UpdateProject(c.UserContext(), identity, id, model.ProjectPatch{
		Name:        request.Name,
		Description: request.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(project)
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.projectService.DeleteProject(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
