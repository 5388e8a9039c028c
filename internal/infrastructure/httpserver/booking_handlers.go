package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listBookings(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	list, err := s.bookingSvc.List(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"bookings": list, "total": len(list)})
}

func (s *Server) upcomingBookings(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	list, err := s.bookingSvc.Upcoming(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"bookings": list, "total": len(list)})
}

func (s *Server) createBooking(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	var req booking.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := s.bookingSvc.Create(c.Request().Context(), sl, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (s *Server) cancelBooking(c echo.Context) error {
	return s.transitionBooking(c, s.bookingSvc.Cancel)
}

func (s *Server) completeBooking(c echo.Context) error {
	return s.transitionBooking(c, s.bookingSvc.Complete)
}

func (s *Server) transitionBooking(c echo.Context, apply func(context.Context, *salon.Salon, uuid.UUID) (*booking.Booking, error)) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	b, err := apply(c.Request().Context(), sl, id)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
