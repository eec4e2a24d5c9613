package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
)

// PriceFor returns the unit price of one room of rt in the product's native currency.
//
// Products priced per room type read the breakdown entry; a missing entry prices at 0.
// Products without a breakdown use the effective tier price. withMeal adds the meal
// surcharge to whatever base was found, including a zero one.
func PriceFor(p *Product, rt RoomType, withMeal bool) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}

	var base decimal.Decimal
	if len(p.RoomBreakdown) > 0 {
		rp, ok := p.RoomBreakdown[rt]
		if !ok {
			return decimal.Zero
		}
		base = rp.Price
	} else {
		base = p.EffectivePrice()
	}

	base = currency.Clamp(base)
	if withMeal {
		base = base.Add(currency.Clamp(p.MealPrice))
	}
	return base
}

// UnitPrice is the flat price used by non-hotel rows.
func UnitPrice(p *Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return currency.Clamp(p.EffectivePrice())
}
