package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/client"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listClients(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	list, err := s.clientSvc.List(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"clients": list, "total": len(list)})
}

func (s *Server) countClients(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	n, err := s.clientSvc.Count(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

func (s *Server) createClient(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	var req client.CreateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := s.clientSvc.Create(c.Request().Context(), sl, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateClient(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req client.UpdateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := s.clientSvc.Update(c.Request().Context(), sl, id, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteClient(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.clientSvc.Delete(c.Request().Context(), sl, id); err != nil {
		return s.serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
