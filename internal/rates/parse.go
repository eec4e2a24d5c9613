package rates

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
)

type Origin string

const (
	OriginBranch  Origin = "branch"
	OriginGlobal  Origin = "global"
	OriginDefault Origin = "default"
)

// payload kept by the business-rules service
type currencyRates struct {
	SARToIDR decimal.NullDecimal `json:"SAR_TO_IDR"`
	USDToIDR decimal.NullDecimal `json:"USD_TO_IDR"`
}

// Parse decodes a currency_rates payload. Every missing, unparsable or
// non-positive rate takes the matching value from defaults; complete=false
// reports that at least one did.
func Parse(b []byte, defaults currency.RateSet) (rs currency.RateSet, complete bool) {
	defaults = defaults.Normalize()
	var cr currencyRates
	if len(b) == 0 || json.Unmarshal(b, &cr) != nil {
		return defaults, false
	}

	rs, complete = defaults, true
	if cr.SARToIDR.Valid && cr.SARToIDR.Decimal.IsPositive() {
		rs.SARToIDR = cr.SARToIDR.Decimal
	} else {
		complete = false
	}
	if cr.USDToIDR.Valid && cr.USDToIDR.Decimal.IsPositive() {
		rs.USDToIDR = cr.USDToIDR.Decimal
	} else {
		complete = false
	}
	return rs, complete
}
