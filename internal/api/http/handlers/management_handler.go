package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/service"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// ManagementAction is the closed set of operations the multiplexed endpoint
// accepts. Anything outside it fails before any other work.
type ManagementAction string

const (
	ActionRegister       ManagementAction = "register"
	ActionLogin          ManagementAction = "login"
	ActionLogout         ManagementAction = "logout"
	ActionChangePassword ManagementAction = "changePassword"
	ActionUpdateProfile  ManagementAction = "updateProfile"
	ActionApprove        ManagementAction = "approve"
	ActionDelete         ManagementAction = "delete"
	ActionAdminUpdate    ManagementAction = "adminUpdate"
	ActionList           ManagementAction = "list"
)

type accessLevel int

const (
	accessPublic accessLevel = iota
	accessToken
	accessAdmin
)

type managementRoute struct {
	method  string
	access  accessLevel
	handler fiber.Handler
}

// ManagementHandler multiplexes the legacy /api/user-management endpoint
// onto the same handlers the dedicated routes use, so every flow exists
// exactly once.
type ManagementHandler struct {
	authMW    *auth.AuthMiddleware
	freshness *auth.FreshnessGuard
	routes    map[ManagementAction]managementRoute
}

// NewManagementHandler wires the action table.
func NewManagementHandler(users *UsersHandler, admin *AdminHandler, authMW *auth.AuthMiddleware, freshness *auth.FreshnessGuard) *ManagementHandler {
	return &ManagementHandler{
		authMW:    authMW,
		freshness: freshness,
		routes: map[ManagementAction]managementRoute{
			ActionRegister:       {method: fiber.MethodPost, access: accessPublic, handler: users.Register},
			ActionLogin:          {method: fiber.MethodPost, access: accessPublic, handler: users.Login},
			ActionLogout:         {method: fiber.MethodPost, access: accessPublic, handler: users.Logout},
			ActionChangePassword: {method: fiber.MethodPost, access: accessToken, handler: users.ChangePassword},
			ActionUpdateProfile:  {method: fiber.MethodPost, access: accessToken, handler: users.UpdateProfile},
			ActionApprove:        {method: fiber.MethodPost, access: accessAdmin, handler: admin.ApproveUser},
			ActionDelete:         {method: fiber.MethodPost, access: accessAdmin, handler: admin.DeleteUser},
			ActionAdminUpdate:    {method: fiber.MethodPut, access: accessAdmin, handler: admin.UpdateUser},
			ActionList:           {method: fiber.MethodGet, access: accessAdmin, handler: admin.ListUsers},
		},
	}
}

// Handle dispatches GET/POST/PUT /api/user-management by action.
func (h *ManagementHandler) Handle(c *fiber.Ctx) error {
	action := ManagementAction(c.Query("action"))
	if c.Method() != fiber.MethodGet {
		var probe struct {
			Action string `json:"action"`
		}
		if err := c.BodyParser(&probe); err == nil && probe.Action != "" {
			action = ManagementAction(probe.Action)
		}
	}

	route, ok := h.routes[action]
	if !ok {
		return apperrors.NewValidationError("지원하지 않는 작업입니다.")
	}
	if route.method != c.Method() {
		return apperrors.NewMethodNotAllowed("허용되지 않는 메서드입니다.")
	}

	if route.access != accessPublic {
		// Freshness comes before any token or store work; a stale request
		// is a 400 even when the caller would have failed the role gate.
		if err := h.freshness.Check(auth.TimestampFromRequest(c)); err != nil {
			return err
		}
		principal, err := h.authMW.Authenticate(c)
		if err != nil {
			return err
		}
		if route.access == accessAdmin && !principal.User.IsAdmin() {
			return apperrors.NewForbidden(service.MsgAdminRequired)
		}
		auth.SetPrincipal(c, principal)
	}

	return route.handler(c)
}
