package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Triad is one amount expressed in IDR, SAR and USD at the same time.
// Only one slot is ever an input; the other two are derived by Resolve.
type Triad struct {
	IDR decimal.Decimal `json:"idr"`
	SAR decimal.Decimal `json:"sar"`
	USD decimal.Decimal `json:"usd"`
}

// Get returns the slot for c, zero for unknown codes.
func (t Triad) Get(c Code) decimal.Decimal {
	switch c {
	case IDR:
		return t.IDR
	case SAR:
		return t.SAR
	case USD:
		return t.USD
	}
	return decimal.Zero
}

// Rounded rounds every slot to its currency's smallest denomination.
func (t Triad) Rounded() Triad {
	return Triad{
		IDR: Round(IDR, t.IDR),
		SAR: Round(SAR, t.SAR),
		USD: Round(USD, t.USD),
	}
}

// Resolve derives the triad of value expressed in source.
// Negative values are clamped to 0, non-positive rates fall back to the defaults.
// The source slot keeps value untouched.
func Resolve(source Code, value decimal.Decimal, rates RateSet) Triad {
	if !source.Valid() {
		return Triad{}
	}
	value = Clamp(value)
	r := rates.Normalize()

	idr := value.Mul(r.ToIDR(source))
	t := Triad{
		IDR: idr,
		SAR: idr.Div(r.SARToIDR),
		USD: idr.Div(r.USDToIDR),
	}
	switch source {
	case IDR:
		t.IDR = value
	case SAR:
		t.SAR = value
	case USD:
		t.USD = value
	}
	return t
}

// Convert moves value from one currency to another through IDR.
func Convert(value decimal.Decimal, from, to Code, rates RateSet) decimal.Decimal {
	return Resolve(from, value, rates).Get(to)
}

// Clamp returns v, or 0 when v is negative.
func Clamp(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// ParseAmount coerces user input to a non-negative decimal.
// Empty, non-numeric and negative input all become 0.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return Clamp(d)
}

func Round(c Code, v decimal.Decimal) decimal.Decimal {
	return v.Round(c.Places())
}
