package cart

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
	"github.com/angelmondragon/designstudio-backend/pkg/shopify"
)

const (
	opCreate   = "create"
	opLinesAdd = "lines_add"

	outcomeOK         = "ok"
	outcomeInvalid    = "invalid"
	outcomeUserErrors = "user_errors"
	outcomeUpstream   = "upstream_error"
)

// Storefront is the slice of the Shopify client the cart proxy needs.
type Storefront interface {
	CartCreate(ctx context.Context, lines []shopify.CartLineInput) (*shopify.CartPayload, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*shopify.CartPayload, error)
}

type Metrics interface {
	IncOutcome(operation, outcome string)
}

// Request creates a cart, or adds to CartID when it is set.
type Request struct {
	CartID string
	Lines  []LineInput
}

// Result carries nil fields when Shopify returns no cart.
type Result struct {
	CartID      *string `json:"cartId"`
	CheckoutURL *string `json:"checkoutUrl"`
}

type Service struct {
	storefront Storefront
	metrics    Metrics
	logg       *logger.Logger
}

func NewService(storefront Storefront, metrics Metrics, logg *logger.Logger) (*Service, error) {
	if storefront == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storefront client is required")
	}
	return &Service{storefront: storefront, metrics: metrics, logg: logg}, nil
}

// Submit normalizes the lines and forwards them to Shopify.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	cartID := strings.TrimSpace(req.CartID)
	op := opCreate
	if cartID != "" {
		op = opLinesAdd
	}

	lines := NormalizeLines(req.Lines)
	if len(lines) == 0 {
		s.observe(op, outcomeInvalid)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No valid lines")
	}

	var (
		payload *shopify.CartPayload
		err     error
	)
	if op == opLinesAdd {
		payload, err = s.storefront.CartLinesAdd(ctx, cartID, lines)
	} else {
		payload, err = s.storefront.CartCreate(ctx, lines)
	}
	if err != nil {
		s.observe(op, outcomeUpstream)
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "operation", op), "shopify cart error", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "Shopify request failed").
			WithDetails(map[string]any{"detail": err.Error()})
	}

	if len(payload.UserErrors) > 0 {
		s.observe(op, outcomeUserErrors)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "SHOPIFY_USER_ERRORS").
			WithDetails(map[string]any{"userErrors": payload.UserErrors})
	}

	s.observe(op, outcomeOK)
	result := &Result{}
	if payload.Cart != nil {
		id, checkout := payload.Cart.ID, payload.Cart.CheckoutURL
		result.CartID = &id
		result.CheckoutURL = &checkout
	}
	return result, nil
}

func (s *Service) observe(op, outcome string) {
	if s.metrics != nil {
		s.metrics.IncOutcome(op, outcome)
	}
}
