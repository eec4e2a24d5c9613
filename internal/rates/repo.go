package rates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo reads business_rules. A branch row overrides the global row (branch_id NULL).
type Repo struct{ DB *pgxpool.Pool }

// CurrencyRates returns the raw currency_rates JSON for the branch, falling back
// to the global rule. OriginDefault with a nil payload when neither exists.
func (r *Repo) CurrencyRates(ctx context.Context, branchID string) (payload []byte, origin Origin, err error) {
	var branch *string
	err = r.DB.QueryRow(ctx, `
		SELECT branch_id, currency_rates
		FROM business_rules
		WHERE branch_id = NULLIF($1, '') OR branch_id IS NULL
		ORDER BY branch_id NULLS LAST
		LIMIT 1`, branchID).Scan(&branch, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, OriginDefault, nil
	}
	if err != nil {
		return nil, OriginDefault, err
	}
	if branch != nil {
		return payload, OriginBranch, nil
	}
	return payload, OriginGlobal, nil
}
