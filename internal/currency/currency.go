package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Code string

const (
	IDR Code = "IDR"
	SAR Code = "SAR"
	USD Code = "USD"
)

// Codes in display order.
var Codes = []Code{IDR, SAR, USD}

func (c Code) Valid() bool {
	switch c {
	case IDR, SAR, USD:
		return true
	}
	return false
}

// ParseCode accepts lower/upper case, unknown -> "".
func ParseCode(s string) Code {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return ""
}

// Places is the number of decimals shown for the currency (smallest denomination).
func (c Code) Places() int32 {
	if c == IDR {
		return 0
	}
	return 2
}

var (
	DefaultSARToIDR = decimal.NewFromInt(4200)
	DefaultUSDToIDR = decimal.NewFromInt(15500)
)

// RateSet: harga 1 unit mata uang asing dalam IDR.
type RateSet struct {
	SARToIDR decimal.Decimal `json:"sar_to_idr"`
	USDToIDR decimal.Decimal `json:"usd_to_idr"`
}

func DefaultRates() RateSet {
	return RateSet{SARToIDR: DefaultSARToIDR, USDToIDR: DefaultUSDToIDR}
}

// Normalize replaces every non-positive rate with its default.
func (r RateSet) Normalize() RateSet {
	if !r.SARToIDR.IsPositive() {
		r.SARToIDR = DefaultSARToIDR
	}
	if !r.USDToIDR.IsPositive() {
		r.USDToIDR = DefaultUSDToIDR
	}
	return r
}

// IsDefault reports whether both rates equal the built-in defaults.
func (r RateSet) IsDefault() bool {
	n := r.Normalize()
	return n.SARToIDR.Equal(DefaultSARToIDR) && n.USDToIDR.Equal(DefaultUSDToIDR)
}

// ToIDR returns the IDR value of one unit of c. Zero for unknown codes.
func (r RateSet) ToIDR(c Code) decimal.Decimal {
	switch c {
	case IDR:
		return decimal.NewFromInt(1)
	case SAR:
		return r.SARToIDR
	case USD:
		return r.USDToIDR
	}
	return decimal.Zero
}
