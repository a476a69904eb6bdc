package middleware

import (
	"adPulse/pkg/logger"
	"errors"
	"net/http"

	jsonres "adPulse/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler adalah global error handler echo: error yang lolos dari
// handler dibungkus ke envelope standar.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "status", code, "error", err)
	}

	if err := c.JSON(code, jsonres.Error(statusLabel(code), message, nil)); err != nil {
		logger.Error("failed to write error response", err)
	}
}

func statusLabel(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
