package middleware

import (
	"log/slog"

	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// ContextLogger puts a logger tagged with the request ID into the request
// context. It must run after echo's RequestID middleware.
func ContextLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logger.Into(req.Context(), logger.WithRequestID(requestID))))
			}
			return next(c)
		}
	}
}

// RequestLogger logs one line per request through the structured logger.
func RequestLogger() echo.MiddlewareFunc {
	return eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request failed", append(attrs, slog.String("error", v.Error.Error()))...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}
