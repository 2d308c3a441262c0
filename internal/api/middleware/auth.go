package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/places-api/internal/api/handler"
	"github.com/99minutos/places-api/internal/api/metrics"
	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

// Auth authenticates the bearer token and injects the account into context.
// Both "Bearer <token>" and "Token <token>" schemes are accepted.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := credentials(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			account, err := tokens.Authenticate(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
				}
				return err
			}

			handler.SetAccount(c, account)
			return next(c)
		}
	}
}

func credentials(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "bearer") && !strings.EqualFold(scheme, "token") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
