package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/surgewatch/surgewatch/internal/platform/db"
)

// Middleware validates the bearer token and places the authenticated hospital
// ID on the request context. Requests without a valid token get 401.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			hospitalID, err := issuer.Validate(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := db.WithHospitalID(c.Request().Context(), hospitalID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
