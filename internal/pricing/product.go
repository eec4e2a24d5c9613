package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
)

type ProductType string

const (
	TypeHotel    ProductType = "hotel"
	TypeVisa     ProductType = "visa"
	TypeTicket   ProductType = "ticket"
	TypeBus      ProductType = "bus"
	TypeHandling ProductType = "handling"
	TypePackage  ProductType = "package"
)

func (t ProductType) Valid() bool {
	switch t {
	case TypeHotel, TypeVisa, TypeTicket, TypeBus, TypeHandling, TypePackage:
		return true
	}
	return false
}

type RoomPrice struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Product as served by the catalog. Prices are in Currency.
type Product struct {
	ID            string                 `json:"id"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Type          ProductType            `json:"type"`
	IsPackage     bool                   `json:"is_package"`
	Currency      currency.Code          `json:"currency"`
	PriceGeneral  decimal.Decimal        `json:"price_general"`
	PriceBranch   decimal.NullDecimal    `json:"price_branch"`
	PriceOwner    decimal.NullDecimal    `json:"price_owner"`
	RoomBreakdown map[RoomType]RoomPrice `json:"room_breakdown,omitempty"`
	MealPrice     decimal.Decimal        `json:"meal_price"`
}

// EffectivePrice picks owner, then branch, then general tier.
func (p *Product) EffectivePrice() decimal.Decimal {
	switch {
	case p.PriceOwner.Valid:
		return p.PriceOwner.Decimal
	case p.PriceBranch.Valid:
		return p.PriceBranch.Decimal
	}
	return p.PriceGeneral
}

// NativeCurrency falls back to IDR when the catalog sent nothing usable.
func (p *Product) NativeCurrency() currency.Code {
	if p == nil || !p.Currency.Valid() {
		return currency.IDR
	}
	return p.Currency
}
