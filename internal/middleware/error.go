package middleware

import (
	"fmt"
	"net/http"

	"vidly/internal/dto"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorHandler 將 echo.HTTPError 轉成 dto.HTTPError；
// 其他錯誤記 log 後一律回 500 "Unexpected error."
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := dto.HTTPError{Message: "Unexpected error."}
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			switch m := he.Message.(type) {
			case dto.HTTPError:
				body = m
			case string:
				body = dto.HTTPError{Message: m}
			default:
				body = dto.HTTPError{Message: fmt.Sprint(m)}
			}
		}

		if code >= http.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).WithError(err).Error("unexpected error")
			body = dto.HTTPError{Message: "Unexpected error."}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}
