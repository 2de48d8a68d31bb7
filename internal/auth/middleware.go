package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/trend-blog/internal/domain"
	"github.com/spec-kit/trend-blog/internal/repository"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. User is re-loaded from the
// store on every request, so Role reflects the current role rather than the
// one embedded in the token at issuance.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	denylist TokenDenylist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, denylist TokenDenylist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.Authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Authenticate resolves the bearer token on the request into a Principal
// without terminating the chain. The multiplexed management endpoint calls
// this directly for the actions that need it.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) (*Principal, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized("인증이 필요합니다.")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("인증 정보가 올바르지 않습니다.")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("유효하지 않은 토큰입니다.")
	}

	if m.denylist != nil {
		// Fail open when the denylist store is unreachable; logout is
		// best-effort by contract.
		if revoked, err := m.denylist.IsRevoked(c.Context(), claims.ID); err == nil && revoked {
			return nil, apperrors.NewUnauthorized("유효하지 않은 토큰입니다.")
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("유효하지 않은 토큰입니다.")
		}
		return nil, apperrors.MapError(err)
	}

	return &Principal{User: user, Claims: claims}, nil
}

// RequireAdmin ensures the authenticated principal holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("인증이 필요합니다.")
		}
		if !principal.User.IsAdmin() {
			return apperrors.NewForbidden("관리자 권한이 필요합니다.")
		}
		return c.Next()
	}
}

// SetPrincipal stores the principal for downstream handlers. Used by the
// multiplexed endpoint, which authenticates per action instead of per route.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
