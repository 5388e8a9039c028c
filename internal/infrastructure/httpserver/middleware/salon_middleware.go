package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/ports"
	"github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/helpers"
)

type SalonMiddleware struct {
	salonService ports.SalonService
	logger       *logrus.Logger
}

func NewSalonMiddleware(salonService ports.SalonService, logger *logrus.Logger) *SalonMiddleware {
	return &SalonMiddleware{salonService: salonService, logger: logger}
}

// RequireSalon resolves the caller's salon through the cached profile. It must run
// after RequireJWT. Accounts that have not onboarded yet get 403.
func (m *SalonMiddleware) RequireSalon() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := helpers.GetUserIDFromContext(c)
			if err != nil {
				return err
			}

			profile, err := m.salonService.GetProfile(c.Request().Context(), userID)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("failed to resolve salon")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve salon")
			}
			if profile.Salon == nil {
				return echo.NewHTTPError(http.StatusForbidden, "salon onboarding required")
			}

			helpers.SetSalon(c, profile.Salon)
			return next(c)
		}
	}
}
