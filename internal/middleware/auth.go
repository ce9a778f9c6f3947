package middleware

import (
	"net/http"
	"strings"

	"vidly/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey  = "user"
	HeaderAuthToken = "x-auth-token"
)

var verifyAccessToken = service.VerifyAccessToken

// extractToken 先讀 x-auth-token，沒有時才看 Authorization: Bearer
func extractToken(c echo.Context) string {
	if tok := strings.TrimSpace(c.Request().Header.Get(HeaderAuthToken)); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth 驗證 token 並把 claims 放進 context。
// 沒有 token 回 401，token 無效回 400。
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := extractToken(c)
			if tok == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access denied: No auth token provided.")
			}
			claims, err := verifyAccessToken(secret, tok)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Access denied: Invalid auth token provided.").SetInternal(err)
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin 必須排在 RequireAuth 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied: No auth token provided.")
		}
		if !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "User does not have admin permissions.")
		}
		return next(c)
	}
}

// Claims 取出 RequireAuth 放入的 claims
func Claims(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims != nil
}
