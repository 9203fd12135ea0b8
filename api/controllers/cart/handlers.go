package cart

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/designstudio-backend/api/middleware"
	"github.com/angelmondragon/designstudio-backend/api/responses"
	"github.com/angelmondragon/designstudio-backend/api/validators"
	cartsvc "github.com/angelmondragon/designstudio-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
)

// Submitter forwards normalized lines to the storefront.
type Submitter interface {
	Submit(ctx context.Context, req cartsvc.Request) (*cartsvc.Result, error)
}

// CartRecorder remembers the storefront cart on a design session.
type CartRecorder interface {
	RecordCart(ctx context.Context, id uuid.UUID, cartID string) error
}

// CartSubmit creates a storefront cart or adds lines to an existing one.
// When the caller carries a design session token the resulting cart id is
// stored on that session. Responses use the shared envelopes: success is
// {data:{cartId,checkoutUrl}} and failures are {error:{code,message,details}}
// with Shopify user errors under details.userErrors.
func CartSubmit(svc Submitter, recorder CartRecorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartRequest
		if err := validators.DecodeLooseJSON(r, &payload, "Invalid JSON body"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := payload.rawLines()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), cartsvc.Request{
			CartID: payload.cartID(),
			Lines:  cartsvc.DecodeLines(lines),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordCart(r.Context(), recorder, logg, result)
		responses.WriteSuccess(w, result)
	}
}

func recordCart(ctx context.Context, recorder CartRecorder, logg *logger.Logger, result *cartsvc.Result) {
	if recorder == nil || result == nil || result.CartID == nil || *result.CartID == "" {
		return
	}
	id := middleware.SessionIDFromContext(ctx)
	if id == uuid.Nil {
		return
	}
	if err := recorder.RecordCart(ctx, id, *result.CartID); err != nil && logg != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "design_session.record_cart_failed")
	}
}

type cartRequest struct {
	CartID *string         `json:"cartId"`
	Lines  json.RawMessage `json:"lines"`
}

func (c cartRequest) cartID() string {
	if c.CartID == nil {
		return ""
	}
	return *c.CartID
}

// rawLines requires lines to be a JSON array; its entries are decoded
// leniently by the cart service.
func (c cartRequest) rawLines() ([]json.RawMessage, error) {
	var lines []json.RawMessage
	if len(c.Lines) == 0 || json.Unmarshal(c.Lines, &lines) != nil || lines == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing lines")
	}
	return lines, nil
}
