package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/places-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("name", "This field may not be blank."), http.StatusBadRequest, "validation failed"},
		{"wrapped validation", fmt.Errorf("create: %w", domain.NewValidationError("name", "x")), http.StatusBadRequest, "validation failed"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, "unable to authenticate with provided credentials"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, domain.ErrUnauthenticated.Error()},
		{"not found", fmt.Errorf("find: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{"echo", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != tc.msg {
				t.Fatalf("unexpected message: %v", resp["error"])
			}
			if _, ok := resp["token"]; ok {
				t.Fatalf("error body must not carry a token")
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/place", nil), rec)

	err := domain.NewValidationError("country", `Invalid pk "9" - object does not exist.`)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp struct {
		Fields map[string][]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got := resp.Fields["country"]; len(got) != 1 || got[0] != `Invalid pk "9" - object does not exist.` {
		t.Fatalf("unexpected fields: %+v", resp.Fields)
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
