package orders

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

// SubmitItem is one line handed to the order-creation collaborator.
// UnitPrice is always IDR.
type SubmitItem struct {
	ProductID string              `json:"product_id"`
	Type      pricing.ProductType `json:"type"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.Decimal     `json:"unit_price"`
	Meta      *ItemMeta           `json:"meta,omitempty"`
}

// ItemMeta keeps the row origin and the price in the product's own currency.
type ItemMeta struct {
	RowID       string           `json:"row_id"`
	RoomType    pricing.RoomType `json:"room_type,omitempty"`
	WithMeal    bool             `json:"with_meal,omitempty"`
	Currency    currency.Code    `json:"source_currency"`
	SourcePrice decimal.Decimal  `json:"source_price"`
}

type Submission struct {
	SessionID string          `json:"session_id"`
	BranchID  string          `json:"branch_id,omitempty"`
	OwnerID   string          `json:"owner_id,omitempty"`
	Items     []SubmitItem    `json:"items"`
	TotalIDR  decimal.Decimal `json:"total_idr"`
}

// SubmitRules toggles which selections are mandatory for the caller.
type SubmitRules struct {
	RequireBranch bool
	RequireOwner  bool
}

// Validate returns a *ValidationError when the composition can not be submitted.
func (c Composition) Validate(rules SubmitRules) error {
	ve := newValidationError()

	if rules.RequireBranch && c.BranchID == "" {
		ve.add("branch_id", "select a branch")
	}
	if rules.RequireOwner && c.OwnerID == "" {
		ve.add("owner_id", "select an owner")
	}

	billable := 0
	for i, r := range c.Rows {
		if RowQuantity(r) == 0 {
			continue
		}
		billable++
		if r.ProductID == "" {
			ve.add(fmt.Sprintf("rows[%d].product_id", i), "select a product")
		}
	}
	if billable == 0 {
		ve.add("rows", "add at least one item with quantity above 0")
	}

	if ve.count() > 0 {
		return ve
	}
	return nil
}

func toIDR(v decimal.Decimal, from currency.Code, rates currency.RateSet) decimal.Decimal {
	return currency.Round(currency.IDR, currency.Convert(v, from, currency.IDR, rates))
}

// BuildSubmission validates c and converts every row into IDR-priced items.
// Hotel rows become one item per room line with quantity above 0.
func (c Composition) BuildSubmission(rules SubmitRules) (Submission, error) {
	if err := c.Validate(rules); err != nil {
		return Submission{}, err
	}

	rates := c.Rates.Normalize()
	sub := Submission{
		SessionID: c.SessionID,
		BranchID:  c.BranchID,
		OwnerID:   c.OwnerID,
		Items:     make([]SubmitItem, 0, len(c.Rows)),
		TotalIDR:  decimal.Zero,
	}

	add := func(it SubmitItem) {
		sub.Items = append(sub.Items, it)
		sub.TotalIDR = sub.TotalIDR.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	for _, r := range c.Rows {
		cur := rowCurrency(r)
		if !r.IsHotel() {
			if clampQty(r.Quantity) == 0 {
				continue
			}
			price := currency.Clamp(r.UnitPrice)
			add(SubmitItem{
				ProductID: r.ProductID,
				Type:      r.Type,
				Quantity:  r.Quantity,
				UnitPrice: toIDR(price, cur, rates),
				Meta:      &ItemMeta{RowID: r.ID, Currency: cur, SourcePrice: price},
			})
			continue
		}
		for _, rm := range r.Rooms {
			if clampQty(rm.Quantity) == 0 {
				continue
			}
			price := currency.Clamp(rm.UnitPrice)
			add(SubmitItem{
				ProductID: r.ProductID,
				Type:      r.Type,
				Quantity:  rm.Quantity,
				UnitPrice: toIDR(price, cur, rates),
				Meta: &ItemMeta{
					RowID:       r.ID,
					RoomType:    rm.RoomType,
					WithMeal:    rm.WithMeal,
					Currency:    cur,
					SourcePrice: price,
				},
			})
		}
	}
	return sub, nil
}
