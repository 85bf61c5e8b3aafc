package customers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customersvc "github.com/angelmondragon/wholesale-backend/internal/customers"
	ordersvc "github.com/angelmondragon/wholesale-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

type stubCustomerService struct {
	customersvc.Service

	created customersvc.CreateInput
	updated *customersvc.UpdateInput
}

func (s *stubCustomerService) Create(_ context.Context, input customersvc.CreateInput) (*customersvc.CustomerDTO, error) {
	s.created = input
	return &customersvc.CustomerDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCustomerService) Update(_ context.Context, id uuid.UUID, input customersvc.UpdateInput) (*customersvc.CustomerDTO, error) {
	s.updated = &input
	return &customersvc.CustomerDTO{ID: id}, nil
}

type stubOrderService struct {
	ordersvc.Service

	customer uuid.UUID
	params   pagination.Params
	err      error
}

func (s *stubOrderService) ListByCustomer(_ context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[ordersvc.OrderDTO], error) {
	s.customer = customerID
	s.params = params
	return pagination.Page[ordersvc.OrderDTO]{Items: []ordersvc.OrderDTO{}}, s.err
}

func withID(req *http.Request, id string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCreateCustomer(t *testing.T) {
	svc := &stubCustomerService{}
	resp := httptest.NewRecorder()
	body := `{"name":"Corner Store","storeId":"ST-9","creditLimit":"2500.00"}`
	Create(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "Corner Store", svc.created.Name)
	require.NotNil(t, svc.created.StoreID)
	assert.Equal(t, "ST-9", *svc.created.StoreID)
	require.NotNil(t, svc.created.CreditLimit)
	assert.True(t, decimal.NewFromInt(2500).Equal(*svc.created.CreditLimit))
}

func TestCreateCustomerRequiresName(t *testing.T) {
	resp := httptest.NewRecorder()
	Create(&stubCustomerService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"storeId":"ST-1"}`)))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"is required"`)
}

func TestUpdateRejectsBalanceOverride(t *testing.T) {
	svc := &stubCustomerService{}
	resp := httptest.NewRecorder()
	req := withID(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"outstandingBalance":0}`)), uuid.NewString())
	Update(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Nil(t, svc.updated)
}

func TestOrdersListsByCustomer(t *testing.T) {
	svc := &stubOrderService{}
	id := uuid.New()
	resp := httptest.NewRecorder()
	req := withID(httptest.NewRequest(http.MethodGet, "/?limit=10", nil), id.String())
	Orders(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, id, svc.customer)
	assert.Equal(t, 10, svc.params.Limit)
}

func TestOrdersUnknownCustomer(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")}
	resp := httptest.NewRecorder()
	Orders(svc, nil).ServeHTTP(resp, withID(httptest.NewRequest(http.MethodGet, "/", nil), uuid.NewString()))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "customer not found")
}
