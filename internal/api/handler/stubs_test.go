package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

type stubAccountService struct {
	createFn func(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error)
}

func (s *stubAccountService) CreateAccount(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *stubAccountService) CreateSuperuser(context.Context, string, string) (*domain.Account, error) {
	panic("not used by handlers")
}

func (s *stubAccountService) VerifyCredentials(context.Context, string, string) (*domain.Account, error) {
	panic("not used by handlers")
}

type stubTokenService struct {
	issueFn func(ctx context.Context, email, password string) (*domain.Token, error)
	authFn  func(ctx context.Context, token string) (*domain.Account, error)
}

func (s *stubTokenService) IssueToken(ctx context.Context, email, password string) (*domain.Token, error) {
	return s.issueFn(ctx, email, password)
}

func (s *stubTokenService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	return s.authFn(ctx, token)
}

type stubReferenceService struct {
	listFn   func(ctx context.Context, account *domain.Account) ([]domain.Reference, error)
	createFn func(ctx context.Context, account *domain.Account, name string) (*domain.Reference, error)
}

func (s *stubReferenceService) List(ctx context.Context, account *domain.Account) ([]domain.Reference, error) {
	return s.listFn(ctx, account)
}

func (s *stubReferenceService) Create(ctx context.Context, account *domain.Account, name string) (*domain.Reference, error) {
	return s.createFn(ctx, account, name)
}

type stubPlaceService struct {
	listFn     func(ctx context.Context, account *domain.Account) ([]*domain.Place, error)
	createFn   func(ctx context.Context, account *domain.Account, input ports.CreatePlaceInput) (*domain.Place, error)
	retrieveFn func(ctx context.Context, account *domain.Account, id int64) (*domain.PlaceDetail, error)
	updateFn   func(ctx context.Context, account *domain.Account, input ports.UpdatePlaceInput) (*domain.Place, error)
}

func (s *stubPlaceService) List(ctx context.Context, account *domain.Account) ([]*domain.Place, error) {
	return s.listFn(ctx, account)
}

func (s *stubPlaceService) Create(ctx context.Context, account *domain.Account, input ports.CreatePlaceInput) (*domain.Place, error) {
	return s.createFn(ctx, account, input)
}

func (s *stubPlaceService) Retrieve(ctx context.Context, account *domain.Account, id int64) (*domain.PlaceDetail, error) {
	return s.retrieveFn(ctx, account, id)
}

func (s *stubPlaceService) Update(ctx context.Context, account *domain.Account, input ports.UpdatePlaceInput) (*domain.Place, error) {
	return s.updateFn(ctx, account, input)
}

// newRequest builds an echo context for a JSON request. A nil account leaves
// the request unauthenticated.
func newRequest(method, target, body string, account *domain.Account) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	if account != nil {
		SetAccount(c, account)
	}
	return c, rec
}

func ownerFixture() *domain.Account {
	return &domain.Account{ID: 1, Email: "owner@example.com", IsActive: true}
}
