package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/invoice"
	"github.com/travelhub/order-composer/internal/orders"
)

// Identity comes from the API gateway, which already authenticated the caller.
type identity struct {
	UserID string
	Role   invoice.Role
}

func identityOf(r *http.Request) identity {
	return identity{
		UserID: r.Header.Get("X-User-Id"),
		Role:   invoice.Role(r.Header.Get("X-Role")),
	}
}

// lenientNumber accepts JSON numbers, numeric strings and garbage alike;
// anything that is not a non-negative number reads as 0.
type lenientNumber struct {
	set bool
	raw string
}

func (n *lenientNumber) UnmarshalJSON(b []byte) error {
	n.set = true
	b = bytes.TrimSpace(b)
	if s, err := strconv.Unquote(string(b)); err == nil {
		n.raw = s
		return nil
	}
	n.raw = string(b)
	return nil
}

func (n lenientNumber) Decimal() decimal.Decimal { return currency.ParseAmount(n.raw) }

var maxQuantity = decimal.NewFromInt(orders.MaxQuantity)

// Int truncates to a whole quantity, saturating at orders.MaxQuantity.
func (n lenientNumber) Int() int {
	d := n.Decimal()
	if d.GreaterThan(maxQuantity) {
		return orders.MaxQuantity
	}
	return int(d.IntPart())
}

// priceInput is a price typed in one of the display currencies.
type priceInput struct {
	Currency string        `json:"currency"`
	Value    lenientNumber `json:"value"`
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
