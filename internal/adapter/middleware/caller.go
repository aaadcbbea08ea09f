package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/pkg/id"
)

// HeaderUserID carries the public id of the acting user.
const HeaderUserID = "Ax-User-Id"

const callerKey = "caller"

// UserLookup resolves the acting user from its public id.
type UserLookup interface {
	GetByUserID(ctx context.Context, userID string) (*user.User, error)
}

// CallerMiddleware resolves Ax-User-Id into a user and stores it on the context.
// Role checks stay in the usecases.
func CallerMiddleware(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if userID == "" || !id.Valid(userID) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid " + HeaderUserID})
			}

			u, err := users.GetByUserID(c.Request().Context(), userID)
			if errors.Is(err, user.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
			}
			if err != nil {
				slog.ErrorContext(c.Request().Context(), "caller lookup failed", "user_id", userID, "err", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}

			c.Set(callerKey, u)
			return next(c)
		}
	}
}

// Caller returns the user resolved by CallerMiddleware, or nil.
func Caller(c echo.Context) *user.User {
	u, _ := c.Get(callerKey).(*user.User)
	return u
}
