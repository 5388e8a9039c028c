package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/glambooking/glambooking-api/internal/core/domain/salon"
)

type ctxKey string

const (
	keySalon     ctxKey = "salon"
	keyUserID    ctxKey = "user_id"
	keyUserEmail ctxKey = "user_email"
)

func SetSalon(c echo.Context, s *salon.Salon) { c.Set(string(keySalon), s) }
func GetSalon(c echo.Context) (*salon.Salon, bool) {
	v := c.Get(string(keySalon))
	s, ok := v.(*salon.Salon)
	return s, ok
}

func SetUserID(c echo.Context, id string) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserID))
	id, ok := v.(string)
	return id, ok && id != ""
}

func SetUserEmail(c echo.Context, email string) { c.Set(string(keyUserEmail), email) }
func GetUserEmailRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserEmail))
	s, ok := v.(string)
	return s, ok
}
