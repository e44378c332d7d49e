package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"project-hub/internal/model"
	"project-hub/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	user, token, err := h.authService.RegisterUser(c.UserContext(), request.Email, request.Password, request.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{User: toUserResponse(user), Token: token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := parseBody(c, &request); err != nil {
		return err
	}

	user, token, err := h.authService.LoginUser(c.UserContext(), request.Email, request.Password)
	if err != nil {
		return err
	}

	return c.JSON(AuthResponse{User: toUserResponse(user), Token: token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUserProfile(c.UserContext(), identity)
	if err != nil {
		return err
	}

	return c.JSON(toUserResponse(user))
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	identity, err := IdentityFromContext(c)
	if err != nil {
		return err
	}

	users, err := h.authService.ListUsers(c.UserContext(), identity)
	if err != nil {
		return err
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, toUserResponse(&users[i]))
	}
	return c.JSON(response)
}
