package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

func (s *Server) dashboardSummary(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	sum, err := s.dashboardSvc.Summary(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (s *Server) dashboardRevenue(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	rev, err := s.dashboardSvc.Revenue(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, rev)
}

func (s *Server) dashboardUpcoming(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	up, err := s.dashboardSvc.Upcoming(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, up)
}
