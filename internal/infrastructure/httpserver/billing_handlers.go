package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/billing"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getSubscription(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	sub, err := s.billingSvc.GetSubscription(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

func (s *Server) listInvoices(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	invoices, err := s.billingSvc.ListInvoices(c.Request().Context(), sl)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"invoices": invoices, "total": len(invoices)})
}

// changePlan is an account-level change: every cached entry for the owner is dropped.
func (s *Server) changePlan(c echo.Context) error {
	sl, err := helpers.GetSalonFromContext(c)
	if err != nil {
		return err
	}
	var req billing.ChangePlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sub, err := s.billingSvc.ChangePlan(c.Request().Context(), sl, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}
