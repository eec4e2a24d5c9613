package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

var (
	newID = uuid.NewString
	now   = func() time.Time { return time.Now().UTC() }
)

// New starts an empty composition priced with rates, input currency IDR.
func New(sessionID, branchID, ownerID string, rates currency.RateSet) Composition {
	t := now()
	return Composition{
		SessionID:      sessionID,
		BranchID:       branchID,
		OwnerID:        ownerID,
		Rows:           []Row{},
		Rates:          rates.Normalize(),
		ActiveCurrency: currency.IDR,
		CreatedAt:      t,
		UpdatedAt:      t,
	}
}

func (c Composition) clone() Composition {
	rows := make([]Row, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = r
		if r.Rooms != nil {
			rows[i].Rooms = append([]RoomLine(nil), r.Rooms...)
		}
	}
	c.Rows = rows
	c.UpdatedAt = now()
	return c
}

func (c Composition) rowIndex(rowID string) (int, error) {
	for i, r := range c.Rows {
		if r.ID == rowID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("row %s: %w", rowID, ErrRowNotFound)
}

func (r Row) roomIndex(roomID string) (int, error) {
	for i, rm := range r.Rooms {
		if rm.ID == roomID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("room %s: %w", roomID, ErrRoomNotFound)
}

// Row returns a copy of the row with rowID.
func (c Composition) Row(rowID string) (Row, error) {
	i, err := c.rowIndex(rowID)
	if err != nil {
		return Row{}, err
	}
	return c.Rows[i], nil
}

// update applies fn to a copy of the row and returns the new composition.
func (c Composition) update(rowID string, fn func(r *Row) error) (Composition, error) {
	i, err := c.rowIndex(rowID)
	if err != nil {
		return c, err
	}
	out := c.clone()
	if err := fn(&out.Rows[i]); err != nil {
		return c, err
	}
	return out, nil
}

func seedRoom(p *pricing.Product) RoomLine {
	return RoomLine{
		ID:        newID(),
		RoomType:  pricing.DefaultRoomType,
		Quantity:  1,
		UnitPrice: pricing.PriceFor(p, pricing.DefaultRoomType, false),
	}
}

// AddRow appends an empty row of type t. Hotel rows start with one default room.
func (c Composition) AddRow(t pricing.ProductType) (Composition, error) {
	if !t.Valid() {
		return c, fmt.Errorf("%q: %w", t, ErrInvalidType)
	}
	row := Row{
		ID:        newID(),
		Type:      t,
		Currency:  currency.IDR,
		UnitPrice: decimal.Zero,
	}
	if t == pricing.TypeHotel {
		row.Rooms = []RoomLine{seedRoom(nil)}
	} else {
		row.Quantity = 1
	}

	out := c.clone()
	out.Rows = append(out.Rows, row)
	return out, nil
}

func (c Composition) RemoveRow(rowID string) (Composition, error) {
	i, err := c.rowIndex(rowID)
	if err != nil {
		return c, err
	}
	out := c.clone()
	out.Rows = append(out.Rows[:i], out.Rows[i+1:]...)
	return out, nil
}

// SetRowType switches the row to t, dropping product, price and room data.
// Switching into hotel seeds exactly one default room.
func (c Composition) SetRowType(rowID string, t pricing.ProductType) (Composition, error) {
	if !t.Valid() {
		return c, fmt.Errorf("%q: %w", t, ErrInvalidType)
	}
	return c.update(rowID, func(r *Row) error {
		if r.Type == t {
			return nil
		}
		*r = Row{ID: r.ID, Type: t, Currency: currency.IDR, Quantity: r.Quantity, UnitPrice: decimal.Zero}
		if t == pricing.TypeHotel {
			r.Quantity = 0
			r.Rooms = []RoomLine{seedRoom(nil)}
		} else if r.Quantity == 0 {
			r.Quantity = 1
		}
		return nil
	})
}

// SelectProduct binds p to the row and reprices it. A nil product clears the selection.
func (c Composition) SelectProduct(rowID string, p *pricing.Product) (Composition, error) {
	return c.update(rowID, func(r *Row) error {
		if p != nil && p.Type != r.Type {
			return fmt.Errorf("product %s is %s, row is %s: %w", p.ID, p.Type, r.Type, ErrProductMismatch)
		}
		if p == nil {
			r.ProductID = ""
		} else {
			r.ProductID = p.ID
		}
		r.Currency = p.NativeCurrency()

		if !r.IsHotel() {
			r.UnitPrice = pricing.UnitPrice(p)
			return nil
		}
		for i := range r.Rooms {
			r.Rooms[i].UnitPrice = pricing.PriceFor(p, r.Rooms[i].RoomType, r.Rooms[i].WithMeal)
		}
		return nil
	})
}

// SetQuantity sets the quantity of a non-hotel row, clamped to >= 0.
func (c Composition) SetQuantity(rowID string, qty int) (Composition, error) {
	return c.update(rowID, func(r *Row) error {
		if r.IsHotel() {
			return ErrNotHotel
		}
		r.Quantity = clampQty(qty)
		return nil
	})
}

// SetUnitPrice overrides the native-currency unit price of a non-hotel row.
func (c Composition) SetUnitPrice(rowID string, price decimal.Decimal) (Composition, error) {
	return c.update(rowID, func(r *Row) error {
		if r.IsHotel() {
			return ErrNotHotel
		}
		r.UnitPrice = currency.Clamp(price)
		return nil
	})
}

// RoomPatch holds the room fields to change; nil fields stay as they are.
type RoomPatch struct {
	RoomType  *pricing.RoomType
	Quantity  *int
	WithMeal  *bool
	UnitPrice *decimal.Decimal
}

// AddRoom appends a room line to a hotel row, priced from p.
func (c Composition) AddRoom(rowID string, rt pricing.RoomType, qty int, withMeal bool, p *pricing.Product) (Composition, error) {
	if !rt.Valid() {
		return c, fmt.Errorf("%q: %w", rt, ErrInvalidRoom)
	}
	return c.update(rowID, func(r *Row) error {
		if !r.IsHotel() {
			return ErrNotHotel
		}
		r.Rooms = append(r.Rooms, RoomLine{
			ID:        newID(),
			RoomType:  rt,
			Quantity:  clampQty(qty),
			UnitPrice: pricing.PriceFor(p, rt, withMeal),
			WithMeal:  withMeal,
		})
		return nil
	})
}

// UpdateRoom applies patch to a room line. Changing room type or meal flag
// reprices the line from p unless an explicit price is part of the patch.
func (c Composition) UpdateRoom(rowID, roomID string, patch RoomPatch, p *pricing.Product) (Composition, error) {
	if patch.RoomType != nil && !patch.RoomType.Valid() {
		return c, fmt.Errorf("%q: %w", *patch.RoomType, ErrInvalidRoom)
	}
	return c.update(rowID, func(r *Row) error {
		if !r.IsHotel() {
			return ErrNotHotel
		}
		i, err := r.roomIndex(roomID)
		if err != nil {
			return err
		}
		rm := &r.Rooms[i]

		reprice := false
		if patch.RoomType != nil && *patch.RoomType != rm.RoomType {
			rm.RoomType = *patch.RoomType
			reprice = true
		}
		if patch.WithMeal != nil && *patch.WithMeal != rm.WithMeal {
			rm.WithMeal = *patch.WithMeal
			reprice = true
		}
		if patch.Quantity != nil {
			rm.Quantity = clampQty(*patch.Quantity)
		}
		switch {
		case patch.UnitPrice != nil:
			rm.UnitPrice = currency.Clamp(*patch.UnitPrice)
		case reprice:
			rm.UnitPrice = pricing.PriceFor(p, rm.RoomType, rm.WithMeal)
		}
		return nil
	})
}

func (c Composition) RemoveRoom(rowID, roomID string) (Composition, error) {
	return c.update(rowID, func(r *Row) error {
		if !r.IsHotel() {
			return ErrNotHotel
		}
		i, err := r.roomIndex(roomID)
		if err != nil {
			return err
		}
		r.Rooms = append(r.Rooms[:i], r.Rooms[i+1:]...)
		return nil
	})
}

// SetActiveCurrency chooses the single writable display currency.
func (c Composition) SetActiveCurrency(code currency.Code) (Composition, error) {
	if !code.Valid() {
		return c, fmt.Errorf("currency %q: %w", code, ErrInvalidCurrency)
	}
	out := c.clone()
	out.ActiveCurrency = code
	return out, nil
}

// WritePrice sets a unit price shown in display currency code. Only the active
// currency is writable; writes in any other currency leave c unchanged. The
// value is converted into the row's native currency before it is stored.
// An empty roomID targets the row itself, otherwise the room line.
func (c Composition) WritePrice(rowID, roomID string, code currency.Code, value decimal.Decimal) (Composition, error) {
	if code != c.ActiveCurrency {
		return c, nil
	}
	return c.update(rowID, func(r *Row) error {
		native := currency.Convert(value, code, rowCurrency(*r), c.Rates)
		if roomID == "" {
			if r.IsHotel() {
				return ErrNotHotel
			}
			r.UnitPrice = native
			return nil
		}
		if !r.IsHotel() {
			return ErrNotHotel
		}
		i, err := r.roomIndex(roomID)
		if err != nil {
			return err
		}
		r.Rooms[i].UnitPrice = native
		return nil
	})
}

// SelectBranch moves the composition to another branch and/or owner. The
// returned composition carries a new Selection; rates must then be fetched
// for it and applied with ApplyRates.
func (c Composition) SelectBranch(branchID, ownerID string) Composition {
	out := c.clone()
	out.BranchID = branchID
	out.OwnerID = ownerID
	out.Selection++
	return out
}

// ApplyRates installs a rate set fetched for selection. Responses for an
// older selection are dropped and reported with ok=false.
func (c Composition) ApplyRates(selection int64, rates currency.RateSet) (out Composition, ok bool) {
	if selection != c.Selection {
		return c, false
	}
	out = c.clone()
	out.Rates = rates.Normalize()
	return out, true
}
