package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prasetyadev/notulen-assistant/errors"
	"github.com/prasetyadev/notulen-assistant/pkg/jwt"
)

// ContextKeySessionID is where the verified session ID is stored on the echo context
const ContextKeySessionID = "session_id"

// RequireSessionToken middleware: only allow requests carrying a bearer token
// bound to the session in the :id path param.
func RequireSessionToken(tokens *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return writeAppError(c, errors.ErrSessionTokenInvalid())
			}

			sessionID, err := tokens.VerifySessionToken(token)
			if err != nil {
				return writeAppError(c, errors.ErrSessionTokenInvalid())
			}

			if sessionID != c.Param("id") {
				return writeAppError(c, errors.ErrSessionMismatch())
			}

			c.Set(ContextKeySessionID, sessionID)
			return next(c)
		}
	}
}

// extractBearerToken reads the token from the Authorization header
func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAppError(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
