package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/errors"
	"github.com/skyline-media/realtime-relay/services"
)

// userContextKey is the echo context key the authenticated user is stored
// under.
const userContextKey = "_relay_auth_user"

// BearerToken extracts the raw bearer value from the Authorization header.
// Returns "" when the header is absent or not a Bearer credential.
func BearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth guards a route group: the request must carry a bearer token
// that the validator resolves to an active user. The user is stored on the
// context for handlers.
func RequireAuth(validator services.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authentication required"})
			}

			user, err := validator.ValidateToken(c.Request().Context(), token)
			if err != nil {
				message := "Invalid token"
				if re, ok := errors.AsRelayError(err); ok {
					message = re.Message
				}
				return c.JSON(errors.HTTPStatus(err), echo.Map{"message": message})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext retrieves the authenticated user stored by RequireAuth.
func UserFromContext(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok
}
