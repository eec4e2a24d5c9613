package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("invoice not found")

// Repo reads the invoice table owned by the invoice service. Never writes.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetSummary(ctx context.Context, id string) (Summary, error) {
	var s Summary
	err := r.DB.QueryRow(ctx, `
		SELECT id, owner_id, status, is_blocked, total_amount, paid_amount,
		       GREATEST(total_amount - paid_amount, 0) AS remaining_amount
		FROM invoices WHERE id=$1`, id).
		Scan(&s.ID, &s.OwnerID, &s.Status, &s.IsBlocked, &s.TotalAmount, &s.PaidAmount, &s.RemainingAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("query invoice %s: %w", id, err)
	}
	return s, nil
}

// ListByOwner returns the newest invoices of an owner, optionally filtered by status.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string, status Status, limit int) ([]Summary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, owner_id, status, is_blocked, total_amount, paid_amount,
		       GREATEST(total_amount - paid_amount, 0)
		FROM invoices
		WHERE owner_id=$1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3`, ownerID, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Status, &s.IsBlocked, &s.TotalAmount, &s.PaidAmount, &s.RemainingAmount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
