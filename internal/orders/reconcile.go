package orders

import (
	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
)

// ReferenceCurrency is the currency rows are summed in.
const ReferenceCurrency = currency.SAR

// Reconcile folds rows of mixed native currencies into one SAR total and
// expands it back to IDR and USD. Each row is converted exactly once, so the
// result does not depend on row order.
func Reconcile(rows []Row, rates currency.RateSet) Totals {
	r := rates.Normalize()

	sar := decimal.Zero
	heads := 0
	for _, row := range rows {
		sar = sar.Add(currency.Convert(RowSubtotal(row), rowCurrency(row), ReferenceCurrency, r))
		heads += RowHeadcount(row)
	}

	idr := sar.Mul(r.SARToIDR)
	return Totals{
		SAR:       sar,
		IDR:       idr,
		USD:       idr.Div(r.USDToIDR),
		Headcount: heads,
	}
}

// Rounded rounds every money field to its currency's smallest denomination.
func (t Totals) Rounded() Totals {
	t.SAR = currency.Round(currency.SAR, t.SAR)
	t.IDR = currency.Round(currency.IDR, t.IDR)
	t.USD = currency.Round(currency.USD, t.USD)
	return t
}

func (c Composition) Totals() Totals {
	return Reconcile(c.Rows, c.Rates)
}
