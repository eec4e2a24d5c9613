package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/travelhub/order-composer/internal/invoice"
)

type invoiceSource interface {
	GetSummary(ctx context.Context, id string) (invoice.Summary, error)
	ListByOwner(ctx context.Context, ownerID string, status invoice.Status, limit int) ([]invoice.Summary, error)
}

type InvoiceHandler struct {
	Invoices invoiceSource
}

func (h *InvoiceHandler) Register(r chi.Router) {
	r.Get("/invoices", h.list)
	r.Get("/invoices/{id}/actions", h.actions)
}

type invoiceDTO struct {
	invoice.Summary
	Category invoice.Category `json:"category"`
	Actions  []invoice.Action `json:"actions"`
}

func toInvoiceDTO(s invoice.Summary, role invoice.Role) invoiceDTO {
	acts := invoice.PermittedActions(s, role)
	if acts == nil {
		acts = []invoice.Action{}
	}
	return invoiceDTO{Summary: s, Category: invoice.CategoryOf(s), Actions: acts}
}

// GET /invoices/{id}/actions
// Owners only see their own invoices.
func (h *InvoiceHandler) actions(w http.ResponseWriter, r *http.Request) {
	id := identityOf(r)
	if !id.Role.Valid() {
		writeMsg(w, http.StatusForbidden, "unknown role")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	invoiceID := chi.URLParam(r, "id")
	s, err := h.Invoices.GetSummary(ctx, invoiceID)
	if err != nil {
		writeErr(w, err)
		return
	}
	// invoice owner lain dianggap tidak ada
	if id.Role == invoice.RoleOwner && s.OwnerID != id.UserID {
		writeErr(w, fmt.Errorf("invoice %s: %w", invoiceID, invoice.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTO(s, id.Role))
}

// GET /invoices?owner_id=&status=&limit=
// Owners only ever see their own invoices.
func (h *InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	id := identityOf(r)
	if !id.Role.Valid() {
		writeMsg(w, http.StatusForbidden, "unknown role")
		return
	}
	q := r.URL.Query()
	ownerID := q.Get("owner_id")
	if id.Role == invoice.RoleOwner {
		ownerID = id.UserID
	}
	if ownerID == "" {
		writeMsg(w, http.StatusBadRequest, "owner_id required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Invoices.ListByOwner(ctx, ownerID, invoice.Status(q.Get("status")), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	items := make([]invoiceDTO, 0, len(list))
	for _, s := range list {
		items = append(items, toInvoiceDTO(s, id.Role))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
