package users

import (
	"errors"
	"net/http"
	"time"

	"vidly/internal/database"
	"vidly/internal/dto"
	"vidly/internal/handler"
	"vidly/internal/middleware"
	"vidly/internal/model"
	"vidly/internal/service"
	"vidly/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword     = service.HashPassword
	issueAccessToken = service.IssueAccessToken
	createUser       = store.CreateUser
	getUserByID      = store.GetUserByID
	getUserByEmail   = store.GetUserByEmail
)

const msgDuplicateEmail = "Email already has an account."

// RegisterHandler 建立一般使用者帳號，token 放在 x-auth-token header
// @Summary     Register a user
// @Description Email 會轉小寫；註冊後直接回傳登入用 token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     dto.RegisterRequest true "User"
// @Success     201  {object} dto.RegisterResponse
// @Header      201  {string} x-auth-token "JWT"
// @Failure     400  {object} dto.HTTPError
// @Router      /users [post]
func RegisterHandler(db database.Querier, secret string, ttl time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		_, err := getUserByEmail(ctx, db, req.Email)
		if err == nil {
			return handler.BadRequest(c, msgDuplicateEmail)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		user, err := createUser(ctx, db, &model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
		})
		// 兩個請求同時註冊同一個 email 時由 unique index 擋下
		if errors.Is(err, store.ErrDuplicateEmail) {
			return handler.BadRequest(c, msgDuplicateEmail)
		}
		if err != nil {
			return err
		}

		token, _, err := issueAccessToken(secret, *user, ttl)
		if err != nil {
			return err
		}
		handler.SetAuthToken(c, token)
		return c.JSON(http.StatusCreated, dto.RegisterResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}
}

// MyAccountHandler 回傳 token 所屬使用者，不含密碼雜湊
// @Summary     Get current user
// @Tags        users
// @Produce     json
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/my-account [get]
func MyAccountHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access denied: No auth token provided.")
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return handler.NotFound(c, "Could not find user.")
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(*user))
	}
}
