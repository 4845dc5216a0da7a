package middleware

import (
	"errors"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthCookie is the name of the HTTP-only cookie carrying the admin JWT.
// The login handler sets it and this middleware reads it.
const AuthCookie = "admin_token"

// NewJWTAuthMiddleware validates the JWT from the auth cookie and stores
// the parsed claims in the request locals under "user". Requests without
// a valid token are rejected with 401 before reaching any handler.
func NewJWTAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(AuthCookie)
		if tokenStr == "" {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, "Missing auth token cookie")
		}

		claims := &domain.JwtCustomClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired auth token")
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// RequireRole allows the request through only when the authenticated
// claims carry one of the given roles. Must run after
// NewJWTAuthMiddleware.
func RequireRole(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userClaims, ok := c.Locals("user").(*domain.JwtCustomClaims)
		if !ok {
			return common.ErrorResponse(c, fiber.StatusInternalServerError, "Could not parse user claims")
		}

		for _, role := range allowedRoles {
			if userClaims.Role == role {
				return c.Next()
			}
		}

		return common.ErrorResponse(c, fiber.StatusForbidden, "Access denied: insufficient permissions")
	}
}

// GetClaimsFromLocals returns the claims stored by NewJWTAuthMiddleware.
func GetClaimsFromLocals(c *fiber.Ctx) (*domain.JwtCustomClaims, error) {
	claims, ok := c.Locals("user").(*domain.JwtCustomClaims)
	if !ok {
		return nil, errors.New("user claims not found in context")
	}
	return claims, nil
}
