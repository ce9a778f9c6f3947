package handler

import (
	"net/http"
	"time"

	"vidly/internal/cache"
	"vidly/internal/database"
	"vidly/internal/dto"

	"github.com/labstack/echo/v4"
)

const pingKey = "vidly:ping"

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     503 {object} dto.HTTPError
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, dto.HTTPError{Message: "database unhealthy"})
		}
		if err := cch.Set(ctx, pingKey, "pong", time.Minute).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, dto.HTTPError{Message: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
