package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"carpool/internal/api"
	"carpool/internal/apperr"
	"carpool/pkg/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler answers every failed request with {"error": "..."}.
// Internal errors are logged and never shown to the client.
func ErrorHandler(log logger.ILogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := http.StatusInternalServerError, "internal error"

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae) && ae.Kind != apperr.KindInternal:
			status, msg = StatusOf(ae.Kind), ae.Message
		case errors.As(err, &he):
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = fmt.Sprint(he.Message)
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				logger.String("method", c.Request().Method),
				logger.String("path", c.Path()),
				logger.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, api.ErrorResponse{Error: msg})
		}
		if err != nil {
			log.Error("write error response", logger.Error(err))
		}
	}
}

// RequestLogger logs one line per request through zap.
func RequestLogger(log logger.ILogger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, logger.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
