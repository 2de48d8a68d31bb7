package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trend-blog/internal/api/dto"
	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/service"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// AdminHandler exposes the admin-gated user management endpoints. Freshness
// and role enforcement sit in front of these routes, in that order; handlers
// only need the caller identity for the self-delete guard and audit fields.
type AdminHandler struct {
	users *service.UserService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{users: userService}
}

// ListUsers handles GET /api/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   dto.NewUserResponses(users),
	})
}

// ApproveUser handles POST /api/approve-user.
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("인증이 필요합니다.")
	}

	var req dto.ApproveUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.ApproveUser(c.Context(), principal.User.ID, req.UserID, req.Approved)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}

// DeleteUser handles POST /api/delete-user.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("인증이 필요합니다.")
	}

	var req dto.DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Context(), principal.User.ID, req.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateUser handles POST /api/update-user.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.AdminUpdateUser(c.Context(), req.UserID, req.Name, req.Email, req.ApprovedYN)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}
