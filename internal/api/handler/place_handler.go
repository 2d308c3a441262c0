package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/places-api/internal/api/metrics"
	"github.com/99minutos/places-api/internal/core/ports"
)

// PlaceHandler serves /place. Deletion is not exposed.
type PlaceHandler struct {
	service ports.PlaceService
}

func NewPlaceHandler(service ports.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

func (h *PlaceHandler) Path() string { return "/place" }

func (h *PlaceHandler) Capabilities() Capability {
	return CapList | CapCreate | CapRetrieve | CapUpdate
}

// List handles GET /place.
//
// @Summary      List places
// @Tags         place
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   placeResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /place [get]
func (h *PlaceHandler) List(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	places, err := h.service.List(c.Request().Context(), account)
	if err != nil {
		return err
	}

	out := make([]placeResponse, len(places))
	for i, p := range places {
		out[i] = toPlaceResponse(p)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /place.
//
// @Summary      Create a place
// @Tags         place
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      placeRequest  true  "Place with country and state ids"
// @Success      201   {object}  placeResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /place [post]
func (h *PlaceHandler) Create(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req placeRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	place, err := h.service.Create(c.Request().Context(), account, toCreatePlaceInput(req))
	if err != nil {
		return err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("place").Inc()
	return c.JSON(http.StatusCreated, toPlaceResponse(place))
}

// Retrieve handles GET /place/:id with relations expanded.
//
// @Summary      Get a place
// @Tags         place
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Place id"
// @Success      200  {object}  placeDetailResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /place/{id} [get]
func (h *PlaceHandler) Retrieve(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Retrieve(c.Request().Context(), account, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlaceDetailResponse(detail))
}

// Update handles PUT /place/:id. Omitted relation sets are cleared.
//
// @Summary      Replace a place
// @Tags         place
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Place id"
// @Param        body  body      placeRequest  true  "Full place"
// @Success      200   {object}  placeResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /place/{id} [put]
func (h *PlaceHandler) Update(c echo.Context) error {
	return h.update(c, false)
}

// PartialUpdate handles PATCH /place/:id. Only supplied fields change.
//
// @Summary      Update a place
// @Tags         place
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Place id"
// @Param        body  body      placeRequest  true  "Fields to change"
// @Success      200   {object}  placeResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /place/{id} [patch]
func (h *PlaceHandler) PartialUpdate(c echo.Context) error {
	return h.update(c, true)
}

func (h *PlaceHandler) update(c echo.Context, partial bool) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req placeRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	place, err := h.service.Update(c.Request().Context(), account, toUpdatePlaceInput(id, req, partial))
	if err != nil {
		return err
	}

	mode := "full"
	if partial {
		mode = "partial"
	}
	metrics.PlaceUpdatesTotal.WithLabelValues(mode).Inc()
	return c.JSON(http.StatusOK, toPlaceResponse(place))
}
