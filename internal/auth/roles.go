package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop-service/internal/domain"
	apperrors "github.com/spec-kit/sweet-shop-service/pkg/util"
)

// RequireAdmin guards mutating routes. It must run after Handle: an
// absent principal means authentication never ran, reported as 401.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if principal.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admins only")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is attached.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		return c.Next()
	}
}
