package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ValidID 在進到 handler 之前檢查路徑參數是否為合法的 id
func ValidID(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := uuid.Parse(c.Param(param)); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Not a valid ID.")
			}
			return next(c)
		}
	}
}
