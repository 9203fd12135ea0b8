package shopify

import "context"

const cartCreateMutation = `
mutation cartCreate($lines: [CartLineInput!]) {
  cartCreate(input: { lines: $lines }) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}
`

const cartLinesAddMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}
`

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLineInput is one merchandise line sent to the storefront.
type CartLineInput struct {
	MerchandiseID string      `json:"merchandiseId"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CartPayload is the shared result shape of the cart mutations.
type CartPayload struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

// CartCreate creates a new cart holding lines.
func (c *Client) CartCreate(ctx context.Context, lines []CartLineInput) (*CartPayload, error) {
	var data struct {
		CartCreate CartPayload `json:"cartCreate"`
	}
	if err := c.Do(ctx, cartCreateMutation, map[string]any{"lines": lines}, &data); err != nil {
		return nil, err
	}
	return &data.CartCreate, nil
}

// CartLinesAdd appends lines to an existing cart.
func (c *Client) CartLinesAdd(ctx context.Context, cartID string, lines []CartLineInput) (*CartPayload, error) {
	var data struct {
		CartLinesAdd CartPayload `json:"cartLinesAdd"`
	}
	if err := c.Do(ctx, cartLinesAddMutation, map[string]any{"cartId": cartID, "lines": lines}, &data); err != nil {
		return nil, err
	}
	return &data.CartLinesAdd, nil
}
