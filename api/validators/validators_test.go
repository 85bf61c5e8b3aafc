package validators

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

	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
)

type lineRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type sampleRequest struct {
	Name   string           `json:"name" validate:"required"`
	Amount decimal.Decimal  `json:"amount" validate:"gt=0"`
	Credit *decimal.Decimal `json:"credit,omitempty" validate:"omitempty,gte=0"`
	Items  []lineRequest    `json:"items" validate:"required,min=1,dive"`
}

func decode(t *testing.T, body string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest sampleRequest
	return DecodeJSONBody(req, &dest)
}

func TestDecodeJSONBodyValid(t *testing.T) {
	require.NoError(t, decode(t, `{"name":"a","amount":10.5,"credit":0,"items":[{"quantity":1}]}`))
}

func TestDecodeJSONBodyFieldDetails(t *testing.T) {
	err := decode(t, `{"name":"","amount":"-1","credit":-5,"items":[{"quantity":0}]}`)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be greater than 0", details["amount"])
	assert.Equal(t, "must be greater than or equal to 0", details["credit"])
	assert.Equal(t, "must be at least 1", details["items[0].quantity"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	err := decode(t, `{"name":"a","amount":1,"items":[{"quantity":1}],"balance":5}`)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	err := decode(t, ``)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	assert.Equal(t, 5, params.Limit)

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err = ParsePagination(req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodGet, "/?cursor=not-a-cursor", nil)
	_, err = ParsePagination(req)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseUUIDParam(t *testing.T) {
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("id", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	id := uuid.New()
	got, err := ParseUUIDParam(withParam(id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(withParam("42"), "id")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestTrimOptional(t *testing.T) {
	blank := "   "
	padded := " net 30 "
	assert.Nil(t, TrimOptional(nil))
	assert.Nil(t, TrimOptional(&blank))
	assert.Equal(t, "net 30", *TrimOptional(&padded))
}
