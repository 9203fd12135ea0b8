package validators

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
)

type stepPayload struct {
	Step   int    `json:"step" validate:"required,min=1,max=3"`
	Intent string `json:"intent" validate:"omitempty,oneof=select change view card"`
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{name: "valid", body: `{"step":2,"intent":"change"}`},
		{name: "unknown field", body: `{"step":2,"extra":true}`, wantErr: true},
		{name: "out of range", body: `{"step":4}`, wantErr: true, field: "step"},
		{name: "bad intent", body: `{"step":1,"intent":"jump"}`, wantErr: true, field: "intent"},
		{name: "empty body", body: ``, wantErr: true, field: "step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload stepPayload
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := DecodeJSONBody(req, &payload)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 2, payload.Step)
				return
			}
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			if tt.field != "" {
				details, ok := typed.Details().(map[string]string)
				require.True(t, ok)
				assert.Contains(t, details, tt.field)
			}
		})
	}
}

func TestDecodeLooseJSON(t *testing.T) {
	var payload map[string]any
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"lines":[],"other":1}`))
	require.NoError(t, DecodeLooseJSON(req, &payload, "Invalid JSON body"))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	err := DecodeLooseJSON(req, &payload, "Invalid JSON body")
	require.Error(t, err)
	assert.Equal(t, "Invalid JSON body", pkgerrors.As(err).Message())
}

func TestParsePathID(t *testing.T) {
	for raw, ok := range map[string]bool{"42": true, "0": false, "-3": false, "abc": false} {
		rc := chi.NewRouteContext()
		rc.URLParams.Add("stoneId", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

		id, err := ParsePathID(req, "stoneId")
		if ok {
			require.NoError(t, err, raw)
			assert.Equal(t, int64(42), id)
		} else {
			assert.Error(t, err, raw)
		}
	}
}

func TestParseQueryEnum(t *testing.T) {
	parse := func(raw string) (string, error) {
		if raw != "natural" && raw != "lab_grown" {
			return "", errors.New("unknown")
		}
		return raw, nil
	}
	req := httptest.NewRequest(http.MethodGet, "/?stoneType=lab_grown&bad=moissanite", nil)

	v, err := ParseQueryEnum(req, "stoneType", "natural", parse)
	require.NoError(t, err)
	assert.Equal(t, "lab_grown", v)

	v, err = ParseQueryEnum(req, "missing", "natural", parse)
	require.NoError(t, err)
	assert.Equal(t, "natural", v)

	_, err = ParseQueryEnum(req, "bad", "natural", parse)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
	assert.Equal(t, "/design-studio", SanitizeString("/design-\nstudio", 0))
	assert.Equal(t, "ébc", SanitizeString("ébcd", 3))
}
