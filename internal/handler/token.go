package handler

import (
	"vidly/internal/middleware"

	"github.com/labstack/echo/v4"
)

// SetAuthToken 把 token 放進 x-auth-token header，並讓瀏覽器端讀得到
func SetAuthToken(c echo.Context, token string) {
	h := c.Response().Header()
	h.Set(middleware.HeaderAuthToken, token)
	h.Set(echo.HeaderAccessControlExposeHeaders, middleware.HeaderAuthToken)
}
