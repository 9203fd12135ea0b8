package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	tokens map[string]uuid.UUID
}

func (f fakeAuthenticator) Authenticate(token string) (uuid.UUID, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return uuid.Nil, errors.New("unknown token")
}

func TestSessionAuth(t *testing.T) {
	id := uuid.New()
	auth := fakeAuthenticator{tokens: map[string]uuid.UUID{"good": id}}

	var seen uuid.UUID
	handler := SessionAuth(auth, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/design-sessions/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, id, seen)
}

func TestOptionalSessionAuth(t *testing.T) {
	id := uuid.New()
	auth := fakeAuthenticator{tokens: map[string]uuid.UUID{"good": id}}

	var seen []uuid.UUID
	handler := OptionalSessionAuth(auth, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, SessionIDFromContext(r.Context()))
	}))

	for _, header := range []string{"", "Bearer nope", "Bearer good"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shopify/cart", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, []uuid.UUID{uuid.Nil, uuid.Nil, id}, seen)
}
