package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

// RoomLine is one room type inside a hotel row.
type RoomLine struct {
	ID        string           `json:"id"`
	RoomType  pricing.RoomType `json:"room_type"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"` // native currency of the row
	WithMeal  bool             `json:"with_meal"`
}

// Row is an order line. Hotel rows are priced through Rooms; every other type
// uses Quantity and UnitPrice directly and never carries rooms.
type Row struct {
	ID        string              `json:"id"`
	Type      pricing.ProductType `json:"type"`
	ProductID string              `json:"product_id,omitempty"`
	Currency  currency.Code       `json:"currency"` // native currency of the selected product
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.Decimal     `json:"unit_price"`
	Rooms     []RoomLine          `json:"rooms,omitempty"`
}

func (r Row) IsHotel() bool { return r.Type == pricing.TypeHotel }

// Composition is the state of one editing session. Commands never mutate
// a Composition in place; they return a modified copy.
type Composition struct {
	SessionID      string           `json:"session_id"`
	BranchID       string           `json:"branch_id,omitempty"`
	OwnerID        string           `json:"owner_id,omitempty"`
	Rows           []Row            `json:"rows"`
	Rates          currency.RateSet `json:"rates"`
	ActiveCurrency currency.Code    `json:"active_currency"`
	// Selection increases on every branch/owner change; rate sets fetched for an
	// older selection are discarded.
	Selection int64     `json:"selection"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals is the reconciled summary of a composition.
type Totals struct {
	SAR       decimal.Decimal `json:"total_sar"`
	IDR       decimal.Decimal `json:"total_idr"`
	USD       decimal.Decimal `json:"total_usd"`
	Headcount int             `json:"total_headcount"`
}
