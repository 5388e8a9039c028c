package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogging writes one line per request once the handler chain has finished, so
// the owner and salon resolved by later middleware are included.
func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.logger == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := responseStatus(c, err)
			fields := logrus.Fields{
				"method":     c.Request().Method,
				"route":      c.Path(),
				"status":     status,
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}
			if userID, ok := helpers.GetUserIDRaw(c); ok {
				fields["user_id"] = userID
			}
			if s, ok := helpers.GetSalon(c); ok {
				fields["salon_id"] = s.ID
			}
			entry := m.logger.WithFields(fields)
			if status >= 500 {
				entry.Error("request completed")
			} else {
				entry.Info("request completed")
			}
			return err
		}
	}
}
