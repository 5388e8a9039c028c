package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/ports"
)

// Health check handler. A failing optional dependency (the cache store) degrades the
// report but keeps a 200; any other failure returns 503.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	overall := "healthy"
	code := http.StatusOK
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			deps[hc.Name()] = "unhealthy"
			if overall == "healthy" {
				overall = "degraded"
			}
			if oc, ok := hc.(ports.OptionalHealthChecker); !ok || !oc.Optional() {
				code = http.StatusServiceUnavailable
			}
		} else {
			deps[hc.Name()] = "healthy"
		}
	}
	health := map[string]interface{}{
		"status":       overall,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      "1.0.0",
		"service":      "glambooking-api",
		"dependencies": deps,
	}
	return c.JSON(code, health)
}
