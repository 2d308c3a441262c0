package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/places-api/internal/api/metrics"
	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

// ReferenceHandler serves the country and state collections. Both support
// list and create only.
type ReferenceHandler struct {
	kind    domain.ReferenceKind
	service ports.ReferenceService
}

func NewReferenceHandler(kind domain.ReferenceKind, service ports.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{kind: kind, service: service}
}

func (h *ReferenceHandler) Path() string { return "/" + string(h.kind) }

func (h *ReferenceHandler) Capabilities() Capability { return CapList | CapCreate }

// List returns the caller's entities ordered by name descending.
//
// @Summary      List countries or states
// @Tags         reference
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   referenceResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /country [get]
// @Router       /state [get]
func (h *ReferenceHandler) List(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	refs, err := h.service.List(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReferenceResponses(refs))
}

// Create adds an entity owned by the caller.
//
// @Summary      Create a country or state
// @Tags         reference
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      referenceRequest  true  "Entity name"
// @Success      201   {object}  referenceResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /country [post]
// @Router       /state [post]
func (h *ReferenceHandler) Create(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req referenceRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	ref, err := h.service.Create(c.Request().Context(), account, req.Name)
	if err != nil {
		return err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(string(h.kind)).Inc()
	return c.JSON(http.StatusCreated, toReferenceResponse(*ref))
}
