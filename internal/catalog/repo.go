package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/pricing"
)

var ErrNotFound = errors.New("product not found")

// Filter narrows the catalog; empty fields match everything.
// BranchID and OwnerID also pick the branch/owner price tiers.
type Filter struct {
	BranchID string
	OwnerID  string
	Type     pricing.ProductType
}

type Repo struct{ DB *pgxpool.Pool }

// selectProducts yields one row per product. The owner tier prefers the price
// set for the selected branch over the owner's branch-independent price.
const selectProducts = `
	SELECT p.id, p.code, p.name, p.type, p.is_package, p.currency, p.price_general,
	       bp.price, op.price, p.meta
	FROM products p
	LEFT JOIN product_prices bp
	       ON bp.product_id = p.id AND bp.branch_id = $1 AND bp.owner_id IS NULL
	LEFT JOIN LATERAL (
		SELECT price FROM product_prices
		WHERE product_id = p.id AND owner_id = $2
		  AND (branch_id = $1 OR branch_id IS NULL)
		ORDER BY branch_id IS NULL
		LIMIT 1
	) op ON true
	WHERE p.active`

// meta as stored by the product service
type productMeta struct {
	RoomBreakdown map[pricing.RoomType]pricing.RoomPrice `json:"roomBreakdown"`
	MealPrice     decimal.Decimal                        `json:"mealPrice"`
}

func scanProduct(row pgx.Row) (pricing.Product, error) {
	var (
		p    pricing.Product
		cur  string
		meta []byte
	)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Type, &p.IsPackage, &cur,
		&p.PriceGeneral, &p.PriceBranch, &p.PriceOwner, &meta); err != nil {
		return p, err
	}
	p.Currency = currency.ParseCode(cur)
	if p.Currency == "" {
		p.Currency = currency.IDR
	}
	p.MealPrice = decimal.Zero
	if len(meta) > 0 {
		var m productMeta
		// meta rusak tidak fatal: produk tetap bisa dipakai dengan harga tier
		if err := json.Unmarshal(meta, &m); err == nil {
			p.RoomBreakdown = m.RoomBreakdown
			p.MealPrice = m.MealPrice
		}
	}
	return p, nil
}

func (r *Repo) ListProducts(ctx context.Context, f Filter) ([]pricing.Product, error) {
	rows, err := r.DB.Query(ctx, selectProducts+`
		AND ($3 = '' OR p.type = $3)
		ORDER BY p.type, p.code`, f.BranchID, f.OwnerID, string(f.Type))
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []pricing.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string, f Filter) (*pricing.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, selectProducts+` AND p.id = $3`, f.BranchID, f.OwnerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}
