package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/booking"
	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

// createSalon onboards the calling account.
func (s *Server) createSalon(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req salon.CreateSalonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := s.salonSvc.CreateSalon(c.Request().Context(), userID, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) getProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	profile, err := s.salonSvc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) updateProfile(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	var req salon.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := s.salonSvc.UpdateProfile(c.Request().Context(), sl, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) changeSalonStatus(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	var req salon.StatusChange
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := s.salonSvc.ChangeStatus(c.Request().Context(), sl, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) getPublicPage(c echo.Context) error {
	page, err := s.salonSvc.GetPublicPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (s *Server) createPublicBooking(c echo.Context) error {
	var req booking.PublicBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b, err := s.bookingSvc.CreatePublic(c.Request().Context(), c.Param("slug"), &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}
