package orders

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

// MaxQuantity bounds every quantity so that headcounts and subtotals never
// overflow into negative numbers.
const MaxQuantity = math.MaxInt32

func clampQty(q int) int {
	switch {
	case q < 0:
		return 0
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}

func lineTotal(qty int, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(clampQty(qty))).Mul(currency.Clamp(price))
}

// RowSubtotal in the row's native currency.
func RowSubtotal(r Row) decimal.Decimal {
	if !r.IsHotel() {
		return lineTotal(r.Quantity, r.UnitPrice)
	}
	total := decimal.Zero
	for _, rm := range r.Rooms {
		total = total.Add(lineTotal(rm.Quantity, rm.UnitPrice))
	}
	return total
}

// RowHeadcount is the number of occupants implied by the rooms of a hotel row.
func RowHeadcount(r Row) int {
	if !r.IsHotel() {
		return 0
	}
	n := 0
	for _, rm := range r.Rooms {
		n += clampQty(rm.Quantity) * pricing.CapacityOf(rm.RoomType)
	}
	return n
}

// RowQuantity is the number of billable units: rooms for hotel rows.
func RowQuantity(r Row) int {
	if !r.IsHotel() {
		return clampQty(r.Quantity)
	}
	n := 0
	for _, rm := range r.Rooms {
		n += clampQty(rm.Quantity)
	}
	return n
}

func rowCurrency(r Row) currency.Code {
	if r.Currency.Valid() {
		return r.Currency
	}
	return currency.IDR
}
