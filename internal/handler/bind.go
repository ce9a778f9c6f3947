package handler

import (
	"net/http"

	"vidly/internal/dto"
	"vidly/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Normalizer 由需要在驗證前整理輸入（去空白、轉小寫）的 request 實作
type Normalizer interface {
	Normalize()
}

// BindAndValidate 綁定 JSON body 並驗證；失敗時回傳 400 的 echo.HTTPError，
// 驗證錯誤逐欄列在 errors
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.HTTPError{Message: "Invalid request body."}).SetInternal(err)
	}
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.HTTPError{
			Message: "Invalid request data.",
			Errors:  service.ValidationMessages(err),
		})
	}
	return nil
}

// NotFound 回 404 與訊息
func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, dto.HTTPError{Message: msg})
}

// BadRequest 回 400 與訊息
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: msg})
}

// LogCacheError 快取失敗不影響回應，只記 warning
func LogCacheError(log logrus.FieldLogger, op, key string, err error) {
	if err != nil {
		log.WithFields(logrus.Fields{"op": op, "key": key}).WithError(err).Warn("cache unavailable")
	}
}

// ParamID 解析路徑上的 id；路由前面已有 middleware.ValidID，這裡只是保底
func ParamID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Not a valid ID.")
	}
	return id, nil
}
