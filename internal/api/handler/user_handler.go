package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/places-api/internal/api/metrics"
	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "invalid payload")

type UserHandler struct {
	accounts ports.AccountService
	tokens   ports.TokenService
}

func NewUserHandler(accounts ports.AccountService, tokens ports.TokenService) *UserHandler {
	return &UserHandler{accounts: accounts, tokens: tokens}
}

// Create registers a new account.
//
// @Summary      Create a user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /user/create [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.CreateAccount(c.Request().Context(), ports.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(account))
}

// Token exchanges credentials for the account's bearer token.
//
// @Summary      Obtain a token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /user/token [post]
func (h *UserHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	token, err := h.tokens.IssueToken(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.TokensIssuedTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues("issued").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token.Value})
}
