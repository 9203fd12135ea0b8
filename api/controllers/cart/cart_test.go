package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/designstudio-backend/api/middleware"
	cartsvc "github.com/angelmondragon/designstudio-backend/internal/cart"
	"github.com/angelmondragon/designstudio-backend/pkg/shopify"
)

type stubStorefront struct {
	lastCartID string
	lastLines  []shopify.CartLineInput
	payload    *shopify.CartPayload
	err        error
}

func (s *stubStorefront) CartCreate(_ context.Context, lines []shopify.CartLineInput) (*shopify.CartPayload, error) {
	s.lastLines = lines
	return s.payload, s.err
}

func (s *stubStorefront) CartLinesAdd(_ context.Context, cartID string, lines []shopify.CartLineInput) (*shopify.CartPayload, error) {
	s.lastCartID = cartID
	s.lastLines = lines
	return s.payload, s.err
}

type recorder struct {
	ids     []uuid.UUID
	cartIDs []string
}

func (r *recorder) RecordCart(_ context.Context, id uuid.UUID, cartID string) error {
	r.ids = append(r.ids, id)
	r.cartIDs = append(r.cartIDs, cartID)
	return nil
}

type envelope struct {
	Data  map[string]any `json:"data"`
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, storefront *stubStorefront, rec CartRecorder, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	svc, err := cartsvc.NewService(storefront, nil, nil)
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	CartSubmit(svc, rec, nil).ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return resp, env
}

func okPayload() *shopify.CartPayload {
	return &shopify.CartPayload{Cart: &shopify.Cart{ID: "gid://shopify/Cart/9", CheckoutURL: "https://shop.test/c/9"}}
}

func TestCartSubmitRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"invalid json", `{"lines":`, "Invalid JSON body"},
		{"empty body", ``, "Invalid JSON body"},
		{"missing lines", `{"cartId":"c1"}`, "Missing lines"},
		{"lines not array", `{"lines":{"merchandiseId":"a"}}`, "Missing lines"},
		{"null lines", `{"lines":null}`, "Missing lines"},
		{"no valid lines", `{"lines":[{"merchandiseId":"","quantity":1},{"merchandiseId":"a","quantity":0}]}`, "No valid lines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(tt.body))
			resp, env := serve(t, &stubStorefront{payload: okPayload()}, nil, req)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestCartSubmitCreatesCart(t *testing.T) {
	storefront := &stubStorefront{payload: okPayload()}
	body := `{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/5","quantity":2.9,"attributes":[{"key":"Stone","value":"42"},{"key":"","value":"x"}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(body))

	resp, env := serve(t, storefront, nil, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "gid://shopify/Cart/9", env.Data["cartId"])
	assert.Equal(t, "https://shop.test/c/9", env.Data["checkoutUrl"])
	require.Len(t, storefront.lastLines, 1)
	assert.Equal(t, 2, storefront.lastLines[0].Quantity)
	assert.Equal(t, []shopify.Attribute{{Key: "Stone", Value: "42"}}, storefront.lastLines[0].Attributes)
	assert.Empty(t, storefront.lastCartID)
}

func TestCartSubmitAddsLinesAndRecordsSessionCart(t *testing.T) {
	storefront := &stubStorefront{payload: okPayload()}
	rec := &recorder{}
	sessionID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"cartId":"gid://shopify/Cart/9","lines":[{"merchandiseId":"v1","quantity":1}]}`))
	req = req.WithContext(middleware.WithSessionID(req.Context(), sessionID))

	resp, _ := serve(t, storefront, rec, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "gid://shopify/Cart/9", storefront.lastCartID)
	assert.Equal(t, []uuid.UUID{sessionID}, rec.ids)
	assert.Equal(t, []string{"gid://shopify/Cart/9"}, rec.cartIDs)
}

func TestCartSubmitAnonymousDoesNotRecord(t *testing.T) {
	rec := &recorder{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"lines":[{"merchandiseId":"v1","quantity":1}]}`))
	resp, _ := serve(t, &stubStorefront{payload: okPayload()}, rec, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, rec.ids)
}

func TestCartSubmitUserErrors(t *testing.T) {
	storefront := &stubStorefront{payload: &shopify.CartPayload{UserErrors: []shopify.UserError{{Field: []string{"lines"}, Message: "Variant sold out"}}}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"lines":[{"merchandiseId":"v1","quantity":1}]}`))

	resp, env := serve(t, storefront, nil, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "SHOPIFY_USER_ERRORS", env.Error.Message)
	assert.Contains(t, env.Error.Details, "userErrors")
}

func TestCartSubmitUpstreamFailure(t *testing.T) {
	storefront := &stubStorefront{err: errors.New("shopify responded 502")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"lines":[{"merchandiseId":"v1","quantity":1}]}`))

	resp, env := serve(t, storefront, nil, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "UPSTREAM_ERROR", env.Error.Code)
	assert.Equal(t, "shopify responded 502", env.Error.Details["detail"])
}

func TestCartSubmitNullCart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"lines":[{"merchandiseId":"v1","quantity":1}]}`))
	resp, env := serve(t, &stubStorefront{payload: &shopify.CartPayload{}}, nil, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, env.Data["cartId"])
	assert.Nil(t, env.Data["checkoutUrl"])
}

func TestCartSubmitUsesSharedEnvelopes(t *testing.T) {
	topLevel := func(t *testing.T, resp *httptest.ResponseRecorder) []string {
		t.Helper()
		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		return keys
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"lines":[{"merchandiseId":"v1","quantity":1}]}`))
	resp, _ := serve(t, &stubStorefront{payload: okPayload()}, nil, req)
	assert.Equal(t, []string{"data"}, topLevel(t, resp))

	failing := &stubStorefront{payload: &shopify.CartPayload{UserErrors: []shopify.UserError{{Message: "Variant sold out"}}}}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", strings.NewReader(`{"lines":[{"merchandiseId":"v1","quantity":1}]}`))
	resp, env := serve(t, failing, nil, req)
	assert.Equal(t, []string{"error"}, topLevel(t, resp))
	assert.NotEmpty(t, env.Error.Code)
	assert.Contains(t, env.Error.Details, "userErrors")
}
