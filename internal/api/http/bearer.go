package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/service"
	"github.com/spec-kit/token-service/pkg/util"
)

const claimsKey = "auth_claims"

// BearerMiddleware authenticates bearer tokens on API routes. The
// validation result is threaded through the request locals as a value;
// there is no shared last-error state.
type BearerMiddleware struct {
	tokens *service.TokenService
}

// NewBearerMiddleware constructs middleware.
func NewBearerMiddleware(tokens *service.TokenService) *BearerMiddleware {
	return &BearerMiddleware{tokens: tokens}
}

// Handle validates the Authorization header if one is present. An absent
// header is no opinion: the request proceeds unauthenticated and a later
// RequireAuthenticated decides whether that is acceptable. Any other
// failure rejects the request.
func (m *BearerMiddleware) Handle(c *fiber.Ctx) error {
	claims, err := m.tokens.Validate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		if util.HasCode(err, util.CodeNoAuthHeader) {
			return c.Next()
		}
		return err
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the validated claims, if any.
func ClaimsFromContext(c *fiber.Ctx) (*auth.Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*auth.Claims)
	return claims, ok
}

// RequireAuthenticated ensures a validated token is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimsFromContext(c); !ok {
			return util.NewNoAuthHeader()
		}
		return c.Next()
	}
}
