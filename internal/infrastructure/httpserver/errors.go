package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

var errorStatus = []struct {
	err  error
	code int
}{
	{salon.ErrNotFound, http.StatusNotFound},
	{catalog.ErrNotFound, http.StatusNotFound},
	{client.ErrNotFound, http.StatusNotFound},
	{booking.ErrNotFound, http.StatusNotFound},
	{billing.ErrNotFound, http.StatusNotFound},
	{salon.ErrSlugTaken, http.StatusConflict},
	{salon.ErrAlreadyOnboarded, http.StatusConflict},
	{client.ErrEmailTaken, http.StatusConflict},
	{booking.ErrSlotTaken, http.StatusConflict},
	{billing.ErrSamePlan, http.StatusConflict},
	{salon.ErrInactive, http.StatusForbidden},
	{salon.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{booking.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{booking.ErrTooSoon, http.StatusUnprocessableEntity},
	{booking.ErrServiceInactive, http.StatusUnprocessableEntity},
	{billing.ErrInvalidPlan, http.StatusBadRequest},
}

// serviceError maps domain errors to HTTP errors. Anything unrecognised is logged
// and reported as a 500 without leaking its message.
func (s *Server) serviceError(c echo.Context, err error) error {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.code, m.err.Error())
		}
	}
	if s.logger != nil {
		s.logger.WithField("path", c.Path()).WithError(err).Error("request failed")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// bindAndValidate decodes the body into req and runs its validation tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
