package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

func visaProduct() *pricing.Product {
	return &pricing.Product{
		ID:           "VISA-UMR",
		Type:         pricing.TypeVisa,
		Currency:     currency.IDR,
		PriceGeneral: dec("2500000"),
		PriceBranch:  decimal.NewNullDecimal(dec("2400000")),
	}
}

func TestAddRow(t *testing.T) {
	c := New("s", "b", "", currency.DefaultRates())

	c, err := c.AddRow(pricing.TypeHotel)
	require.NoError(t, err)
	require.Len(t, c.Rows, 1)
	require.Len(t, c.Rows[0].Rooms, 1)
	assert.Equal(t, pricing.RoomQuad, c.Rows[0].Rooms[0].RoomType)
	assert.Equal(t, 1, c.Rows[0].Rooms[0].Quantity)

	c, err = c.AddRow(pricing.TypeVisa)
	require.NoError(t, err)
	assert.Nil(t, c.Rows[1].Rooms)
	assert.Equal(t, 1, c.Rows[1].Quantity)

	_, err = c.AddRow("cruise")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestCommandsDoNotMutateReceiver(t *testing.T) {
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeHotel)
	before := c.Rows[0].Rooms[0]

	qty := 9
	next, err := c.UpdateRoom(c.Rows[0].ID, before.ID, RoomPatch{Quantity: &qty}, nil)
	require.NoError(t, err)

	assert.Equal(t, before, c.Rows[0].Rooms[0])
	assert.Equal(t, 9, next.Rows[0].Rooms[0].Quantity)

	removed, err := next.RemoveRow(next.Rows[0].ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Rows)
	assert.Len(t, next.Rows, 1)
}

func TestSetRowTypeClearsFields(t *testing.T) {
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeVisa)
	id := c.Rows[0].ID

	c, err := c.SelectProduct(id, visaProduct())
	require.NoError(t, err)
	assertDec(t, "2400000", c.Rows[0].UnitPrice)

	c, err = c.SetRowType(id, pricing.TypeHotel)
	require.NoError(t, err)
	row := c.Rows[0]
	assert.Empty(t, row.ProductID)
	assert.True(t, row.UnitPrice.IsZero())
	require.Len(t, row.Rooms, 1)
	assert.Equal(t, pricing.RoomQuad, row.Rooms[0].RoomType)
	assert.Equal(t, 1, row.Rooms[0].Quantity)
	assert.True(t, row.Rooms[0].UnitPrice.IsZero())

	c, err = c.SetRowType(id, pricing.TypeBus)
	require.NoError(t, err)
	assert.Nil(t, c.Rows[0].Rooms)
	assert.Empty(t, c.Rows[0].ProductID)

	_, err = c.SetRowType("missing", pricing.TypeBus)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestSelectProductRejectsOtherType(t *testing.T) {
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeHotel)

	_, err := c.SelectProduct(c.Rows[0].ID, visaProduct())
	assert.ErrorIs(t, err, ErrProductMismatch)
}

func TestRoomCommands(t *testing.T) {
	p := mealHotel()
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeHotel)
	rowID := c.Rows[0].ID

	c, err := c.SelectProduct(rowID, p)
	require.NoError(t, err)

	c, err = c.AddRoom(rowID, pricing.RoomDouble, 3, true, p)
	require.NoError(t, err)
	require.Len(t, c.Rows[0].Rooms, 2)
	assertDec(t, "170", c.Rows[0].Rooms[1].UnitPrice)
	assert.Equal(t, 4+6, RowHeadcount(c.Rows[0]))

	rt := pricing.RoomSingle
	c, err = c.UpdateRoom(rowID, c.Rows[0].Rooms[1].ID, RoomPatch{RoomType: &rt}, p)
	require.NoError(t, err)
	assert.True(t, c.Rows[0].Rooms[1].UnitPrice.IsZero(), "no single price in breakdown")

	override := dec("99")
	c, err = c.UpdateRoom(rowID, c.Rows[0].Rooms[1].ID, RoomPatch{UnitPrice: &override}, p)
	require.NoError(t, err)
	assertDec(t, "99", c.Rows[0].Rooms[1].UnitPrice)

	c, err = c.RemoveRoom(rowID, c.Rows[0].Rooms[0].ID)
	require.NoError(t, err)
	require.Len(t, c.Rows[0].Rooms, 1)

	_, err = c.RemoveRoom(rowID, "nope")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	c, _ = c.AddRow(pricing.TypeVisa)
	_, err = c.AddRoom(c.Rows[1].ID, pricing.RoomQuad, 1, false, p)
	assert.ErrorIs(t, err, ErrNotHotel)

	_, err = c.AddRoom(rowID, "penthouse", 1, false, p)
	assert.ErrorIs(t, err, ErrInvalidRoom)
	bad := pricing.RoomType("penthouse")
	_, err = c.UpdateRoom(rowID, c.Rows[0].Rooms[0].ID, RoomPatch{RoomType: &bad}, p)
	assert.ErrorIs(t, err, ErrInvalidRoom)
}

func TestWritePriceOnlyInActiveCurrency(t *testing.T) {
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeTicket)
	id := c.Rows[0].ID
	c, _ = c.SelectProduct(id, &pricing.Product{ID: "TKT", Type: pricing.TypeTicket, Currency: currency.SAR, PriceGeneral: dec("100")})

	before := c
	got, err := c.WritePrice(id, "", currency.USD, dec("1"))
	require.NoError(t, err)
	assert.Equal(t, before, got, "write in a read-only currency is a no-op")

	got, err = c.WritePrice(id, "", currency.IDR, dec("630000"))
	require.NoError(t, err)
	assertDec(t, "150", got.Rows[0].UnitPrice, "IDR input stored in SAR")

	c, err = c.SetActiveCurrency(currency.USD)
	require.NoError(t, err)
	got, err = c.WritePrice(id, "", currency.USD, dec("10"))
	require.NoError(t, err)
	assertDec(t, "36.90", currency.Round(currency.SAR, got.Rows[0].UnitPrice))

	_, err = c.SetActiveCurrency("EUR")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestWritePriceOnRoom(t *testing.T) {
	p := mealHotel()
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeHotel)
	rowID := c.Rows[0].ID
	c, _ = c.SelectProduct(rowID, p)
	roomID := c.Rows[0].Rooms[0].ID

	c, err := c.WritePrice(rowID, roomID, currency.IDR, dec("504000"))
	require.NoError(t, err)
	assertDec(t, "120", c.Rows[0].Rooms[0].UnitPrice)

	_, err = c.WritePrice(rowID, "", currency.IDR, dec("1"))
	assert.ErrorIs(t, err, ErrNotHotel)
}

func TestRenderKeepsTriadsConsistent(t *testing.T) {
	p := mealHotel()
	c := New("s", "b", "", currency.DefaultRates())
	c, _ = c.AddRow(pricing.TypeHotel)
	c, _ = c.SelectProduct(c.Rows[0].ID, p)

	v := c.Render()
	require.Len(t, v.Rows, 1)
	require.Len(t, v.Rows[0].Rooms, 1)
	room := v.Rows[0].Rooms[0]
	assertDec(t, "100", room.Price.SAR)
	assertDec(t, "420000", room.Price.IDR)
	assertDec(t, "27.10", room.Price.USD)
	assert.Equal(t, 4, room.Capacity)
	assert.Equal(t, []currency.Code{currency.SAR, currency.USD}, v.ReadOnly)
	assertDec(t, "420000", v.Totals.IDR)
}

func TestApplyRatesLastSelectionWins(t *testing.T) {
	c := New("s", "b1", "", currency.DefaultRates())

	first := c.SelectBranch("b2", "")
	second := first.SelectBranch("b3", "")

	stale := currency.RateSet{SARToIDR: dec("4100"), USDToIDR: dec("15000")}
	fresh := currency.RateSet{SARToIDR: dec("4300"), USDToIDR: dec("16000")}

	got, ok := second.ApplyRates(second.Selection, fresh)
	require.True(t, ok)
	assertDec(t, "4300", got.Rates.SARToIDR)

	got, ok = got.ApplyRates(first.Selection, stale)
	assert.False(t, ok)
	assertDec(t, "4300", got.Rates.SARToIDR)
	assert.Equal(t, "b3", got.BranchID)
}
