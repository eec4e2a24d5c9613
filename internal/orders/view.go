package orders

import (
	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

// RoomView is a room line with its prices in all three currencies.
type RoomView struct {
	RoomLine
	Capacity  int            `json:"capacity"`
	Headcount int            `json:"headcount"`
	Price     currency.Triad `json:"price"`
	Subtotal  currency.Triad `json:"subtotal"`
}

type RowView struct {
	Row
	Rooms     []RoomView     `json:"rooms,omitempty"`
	Price     currency.Triad `json:"price"`
	Subtotal  currency.Triad `json:"subtotal"`
	Headcount int            `json:"headcount"`
}

// View is what the editing UI renders: rows with display triads, the totals
// and which currency accepts input.
type View struct {
	SessionID      string           `json:"session_id"`
	BranchID       string           `json:"branch_id,omitempty"`
	OwnerID        string           `json:"owner_id,omitempty"`
	Rates          currency.RateSet `json:"rates"`
	ActiveCurrency currency.Code    `json:"active_currency"`
	ReadOnly       []currency.Code  `json:"read_only_currencies"`
	Rows           []RowView        `json:"rows"`
	Totals         Totals           `json:"totals"`
}

func triad(code currency.Code, v decimal.Decimal, rates currency.RateSet) currency.Triad {
	return currency.Resolve(code, v, rates).Rounded()
}

// Render builds the display view of c. Every non-native amount is derived
// from the row's native price, so the three currencies never drift.
func (c Composition) Render() View {
	rates := c.Rates.Normalize()
	v := View{
		SessionID:      c.SessionID,
		BranchID:       c.BranchID,
		OwnerID:        c.OwnerID,
		Rates:          rates,
		ActiveCurrency: c.ActiveCurrency,
		Rows:           make([]RowView, 0, len(c.Rows)),
		Totals:         Reconcile(c.Rows, rates).Rounded(),
	}
	for _, code := range currency.Codes {
		if code != c.ActiveCurrency {
			v.ReadOnly = append(v.ReadOnly, code)
		}
	}

	for _, r := range c.Rows {
		cur := rowCurrency(r)
		rv := RowView{
			Row:       r,
			Subtotal:  triad(cur, RowSubtotal(r), rates),
			Headcount: RowHeadcount(r),
		}
		if !r.IsHotel() {
			rv.Price = triad(cur, r.UnitPrice, rates)
		}
		for _, rm := range r.Rooms {
			one := Row{Type: r.Type, Rooms: []RoomLine{rm}}
			rv.Rooms = append(rv.Rooms, RoomView{
				RoomLine:  rm,
				Capacity:  pricing.CapacityOf(rm.RoomType),
				Headcount: RowHeadcount(one),
				Price:     triad(cur, rm.UnitPrice, rates),
				Subtotal:  triad(cur, RowSubtotal(one), rates),
			})
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}
