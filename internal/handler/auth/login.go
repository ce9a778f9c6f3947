package auth

import (
	"errors"
	"net/http"
	"time"

	"vidly/internal/database"
	"vidly/internal/dto"
	"vidly/internal/handler"
	"vidly/internal/service"
	"vidly/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
)

const msgBadCredentials = "Username or password incorrect."

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     Log in
// @Description 帳號不存在與密碼錯誤回傳相同訊息
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.LoginRequest true "Credentials"
// @Success     200  {object} dto.LoginResponse
// @Header      200  {string} x-auth-token "JWT"
// @Failure     400  {object} dto.HTTPError
// @Router      /auth [post]
func LoginHandler(db database.Querier, secret string, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		user, err := getUserByEmail(c.Request().Context(), db, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			return handler.BadRequest(c, msgBadCredentials)
		}
		if err != nil {
			return err
		}
		if err := authenticateUser(*user, req.Password); err != nil {
			return handler.BadRequest(c, msgBadCredentials)
		}

		token, exp, err := issueAccessToken(secret, *user, ttl)
		if err != nil {
			return err
		}
		handler.SetAuthToken(c, token)
		return c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: exp})
	}
}
