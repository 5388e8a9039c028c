package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/catalog"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listServices(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	list, err := s.catalogSvc.List(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"services": list, "total": len(list)})
}

func (s *Server) createService(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	var req catalog.CreateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := s.catalogSvc.Create(c.Request().Context(), sl, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, svc)
}

func (s *Server) updateService(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req catalog.UpdateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := s.catalogSvc.Update(c.Request().Context(), sl, id, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}

func (s *Server) deleteService(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.catalogSvc.Delete(c.Request().Context(), sl, id); err != nil {
		return s.serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
