package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trend-blog/internal/api/dto"
	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/service"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// UsersHandler exposes the public and self-service account endpoints.
type UsersHandler struct {
	users     *service.UserService
	freshness *auth.FreshnessGuard
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, freshness *auth.FreshnessGuard) *UsersHandler {
	return &UsersHandler{users: userService, freshness: freshness}
}

// Register handles POST /api/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := h.freshness.Check(req.Timestamp); err != nil {
		return err
	}

	user, err := h.users.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"userId":  user.ID,
	})
}

// Login handles POST /api/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := h.freshness.Check(req.Timestamp); err != nil {
		return err
	}

	user, token, _, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    dto.NewUserResponse(user),
	})
}

// Logout handles POST /api/logout. Best effort: responds 200 whether or not
// a token was presented or could be revoked.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	h.users.Logout(c.Context(), bearerToken(c))
	return c.JSON(fiber.Map{"success": true})
}

// ChangePassword handles POST /api/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("인증이 필요합니다.")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateProfile handles POST /api/update-profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("인증이 필요합니다.")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Context(), principal.User.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}

// CheckAdmin handles GET /api/check-admin.
func (h *UsersHandler) CheckAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("인증이 필요합니다.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"isAdmin": principal.User.IsAdmin(),
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
