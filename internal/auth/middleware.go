package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, decoded from its token.
// Verification is stateless: the token is the proof, no store is consulted.
type Principal struct {
	UserID string
	Email  string
	Role   domain.Role
}

// AuthMiddleware validates bearer tokens and attaches principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. A missing header
// yields 401; a header that is present but fails verification yields 403.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewInvalidToken("invalid token")
	}

	c.Locals(principalKey, &Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
