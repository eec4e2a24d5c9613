package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		comp       func() Composition
		rules      SubmitRules
		wantFields []string
	}{
		{
			name:       "empty composition",
			comp:       func() Composition { return New("s", "b", "o", currency.DefaultRates()) },
			rules:      SubmitRules{RequireBranch: true, RequireOwner: true},
			wantFields: []string{"rows"},
		},
		{
			name: "missing branch and owner",
			comp: func() Composition {
				c := New("s", "", "", currency.DefaultRates())
				c, _ = c.AddRow(pricing.TypeVisa)
				c, _ = c.SelectProduct(c.Rows[0].ID, visaProduct())
				return c
			},
			rules:      SubmitRules{RequireBranch: true, RequireOwner: true},
			wantFields: []string{"branch_id", "owner_id"},
		},
		{
			name: "owner optional",
			comp: func() Composition {
				c := New("s", "b", "", currency.DefaultRates())
				c, _ = c.AddRow(pricing.TypeVisa)
				c, _ = c.SelectProduct(c.Rows[0].ID, visaProduct())
				return c
			},
			rules: SubmitRules{RequireBranch: true},
		},
		{
			name: "row without product",
			comp: func() Composition {
				c := New("s", "b", "o", currency.DefaultRates())
				c, _ = c.AddRow(pricing.TypeBus)
				return c
			},
			wantFields: []string{"rows[0].product_id"},
		},
		{
			name: "only zero quantity rows",
			comp: func() Composition {
				c := New("s", "b", "o", currency.DefaultRates())
				c, _ = c.AddRow(pricing.TypeVisa)
				c, _ = c.SetQuantity(c.Rows[0].ID, -5)
				return c
			},
			wantFields: []string{"rows"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comp().Validate(tt.rules)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			ve := IsValidationError(err)
			require.NotNil(t, ve, "expected validation error, got %v", err)
			for _, f := range tt.wantFields {
				assert.Contains(t, ve.Fields(), f)
			}
			assert.Len(t, ve.Fields(), len(tt.wantFields))
		})
	}
}

func TestBuildSubmissionConvertsToIDR(t *testing.T) {
	p := mealHotel()
	c := New("sess-1", "b", "o", currency.DefaultRates())

	c, _ = c.AddRow(pricing.TypeHotel)
	hotelID := c.Rows[0].ID
	c, _ = c.SelectProduct(hotelID, p)
	c, _ = c.AddRoom(hotelID, pricing.RoomDouble, 0, false, p)
	c, _ = c.AddRoom(hotelID, pricing.RoomDouble, 2, true, p)

	c, _ = c.AddRow(pricing.TypeVisa)
	c, _ = c.SelectProduct(c.Rows[1].ID, visaProduct())
	c, _ = c.SetQuantity(c.Rows[1].ID, 3)

	// display currency must not influence the persisted price
	c, _ = c.SetActiveCurrency(currency.USD)

	sub, err := c.BuildSubmission(SubmitRules{RequireBranch: true, RequireOwner: true})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sub.SessionID)
	require.Len(t, sub.Items, 3, "zero quantity room is skipped")

	quad := sub.Items[0]
	assert.Equal(t, pricing.TypeHotel, quad.Type)
	assert.Equal(t, 1, quad.Quantity)
	assertDec(t, "420000", quad.UnitPrice)
	require.NotNil(t, quad.Meta)
	assert.Equal(t, pricing.RoomQuad, quad.Meta.RoomType)
	assert.Equal(t, currency.SAR, quad.Meta.Currency)
	assertDec(t, "100", quad.Meta.SourcePrice)

	double := sub.Items[1]
	assert.Equal(t, 2, double.Quantity)
	assertDec(t, "714000", double.UnitPrice)

	visa := sub.Items[2]
	assert.Equal(t, "VISA-UMR", visa.ProductID)
	assert.Equal(t, 3, visa.Quantity)
	assertDec(t, "2400000", visa.UnitPrice)

	assertDec(t, "9048000", sub.TotalIDR)
}

func TestBuildSubmissionRoundsIDR(t *testing.T) {
	rates := currency.RateSet{SARToIDR: dec("4212.345"), USDToIDR: dec("15500")}
	c := New("s", "b", "o", rates)
	c, _ = c.AddRow(pricing.TypeTicket)
	c, _ = c.SelectProduct(c.Rows[0].ID, &pricing.Product{ID: "T", Type: pricing.TypeTicket, Currency: currency.SAR, PriceGeneral: dec("1")})

	sub, err := c.BuildSubmission(SubmitRules{})
	require.NoError(t, err)
	assertDec(t, "4212", sub.Items[0].UnitPrice)
}

func TestValidationErrorMessage(t *testing.T) {
	err := New("s", "", "", currency.DefaultRates()).Validate(SubmitRules{RequireBranch: true})
	require.Error(t, err)
	assert.Equal(t, "validation failed: branch_id: select a branch; rows: add at least one item with quantity above 0", err.Error())
	assert.Nil(t, IsValidationError(nil))
}
