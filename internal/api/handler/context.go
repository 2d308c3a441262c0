package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/places-api/internal/core/domain"
)

const accountKey = "account"

// SetAccount stores the authenticated account on the request context.
func SetAccount(c echo.Context, account *domain.Account) {
	c.Set(accountKey, account)
}

// ctxAccount returns the account stored by the Auth middleware. Its absence
// means the route was mounted without authentication.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(accountKey).(*domain.Account)
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}

// pathID parses the :id parameter. Anything but a positive integer matches
// no entity.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
