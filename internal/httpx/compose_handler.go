package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/travelhub/order-composer/internal/catalog"
	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/invoice"
	kafkax "github.com/travelhub/order-composer/internal/kafka"
	"github.com/travelhub/order-composer/internal/logger"
	"github.com/travelhub/order-composer/internal/orders"
	"github.com/travelhub/order-composer/internal/pricing"
	"github.com/travelhub/order-composer/internal/rates"
	"github.com/travelhub/order-composer/internal/redisx"
	"github.com/travelhub/order-composer/internal/session"
)

type sessionStore interface {
	Create(ctx context.Context, c orders.Composition) error
	Get(ctx context.Context, id string) (orders.Composition, error)
	Update(ctx context.Context, id string, fn func(orders.Composition) (orders.Composition, error)) (orders.Composition, error)
	Delete(ctx context.Context, id string) error
}

type productSource interface {
	ListProducts(ctx context.Context, f catalog.Filter) ([]pricing.Product, error)
	GetProduct(ctx context.Context, id string, f catalog.Filter) (*pricing.Product, error)
}

type rateSource interface {
	RateSet(ctx context.Context, branchID string) rates.Result
}

type publisher interface {
	Send(ctx context.Context, key, value []byte, headers ...kafkago.Header) error
}

type onceKeys interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type ComposeHandler struct {
	Sessions sessionStore
	Products productSource
	Rates    rateSource
	Producer publisher
	Redis    onceKeys
	Service  string
	L        *logger.Logger
}

type viewResp struct {
	orders.View
	RatesOrigin rates.Origin `json:"rates_origin,omitempty"`
	Notice      string       `json:"notice,omitempty"`
}

func (h *ComposeHandler) Register(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.discardSession)
			r.Put("/selection", h.selectBranch)
			r.Put("/currency", h.setCurrency)
			r.Post("/submit", h.submit)

			r.Post("/rows", h.addRow)
			r.Patch("/rows/{rowID}", h.editRow)
			r.Delete("/rows/{rowID}", h.removeRow)

			r.Post("/rows/{rowID}/rooms", h.addRoom)
			r.Patch("/rows/{rowID}/rooms/{roomID}", h.editRoom)
			r.Delete("/rows/{rowID}/rooms/{roomID}", h.removeRoom)
		})
	})
}

func writeErr(w http.ResponseWriter, err error) {
	if ve := orders.IsValidationError(err); ve != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": ve.Fields()})
		return
	}
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, orders.ErrRowNotFound),
		errors.Is(err, orders.ErrRoomNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, invoice.ErrNotFound):
		writeMsg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrNotHotel),
		errors.Is(err, orders.ErrInvalidType),
		errors.Is(err, orders.ErrInvalidCurrency),
		errors.Is(err, orders.ErrInvalidRoom),
		errors.Is(err, orders.ErrProductMismatch):
		writeMsg(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrConflict):
		writeMsg(w, http.StatusConflict, err.Error())
	default:
		writeMsg(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *ComposeHandler) respond(w http.ResponseWriter, code int, c orders.Composition, notice string) {
	writeJSON(w, code, viewResp{View: c.Render(), Notice: notice})
}

func filterOf(c orders.Composition) catalog.Filter {
	return catalog.Filter{BranchID: c.BranchID, OwnerID: c.OwnerID}
}

type sessionReq struct {
	BranchID string `json:"branch_id"`
	OwnerID  string `json:"owner_id"`
}

func (h *ComposeHandler) ownerFor(id identity, requested string) string {
	// owner hanya boleh menyusun order untuk dirinya sendiri
	if id.Role == invoice.RoleOwner {
		return id.UserID
	}
	return requested
}

func (h *ComposeHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := h.Rates.RateSet(ctx, req.BranchID)
	c := orders.New(uuid.NewString(), req.BranchID, h.ownerFor(identityOf(r), req.OwnerID), res.Rates)
	if err := h.Sessions.Create(ctx, c); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewResp{View: c.Render(), RatesOrigin: res.Origin})
}

func (h *ComposeHandler) getSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Sessions.Get(ctx, chi.URLParam(r, "sid"))
	if err != nil {
		writeErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, c, "")
}

func (h *ComposeHandler) discardSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Sessions.Delete(ctx, chi.URLParam(r, "sid")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// selectBranch switches branch/owner and installs the branch rate set. When a
// newer selection lands while the rates are in flight, this response's rates
// are dropped and the newer selection keeps its own.
func (h *ComposeHandler) selectBranch(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	sid := chi.URLParam(r, "sid")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	owner := h.ownerFor(identityOf(r), req.OwnerID)
	c, err := h.Sessions.Update(ctx, sid, func(c orders.Composition) (orders.Composition, error) {
		return c.SelectBranch(req.BranchID, owner), nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	selection := c.Selection

	res := h.Rates.RateSet(ctx, req.BranchID)

	stale := false
	c, err = h.Sessions.Update(ctx, sid, func(cur orders.Composition) (orders.Composition, error) {
		next, ok := cur.ApplyRates(selection, res.Rates)
		stale = !ok
		return next, nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	if stale {
		h.L.Infof("session=%s drop rates of selection %d, current %d", sid, selection, c.Selection)
	}
	writeJSON(w, http.StatusOK, viewResp{View: c.Render(), RatesOrigin: res.Origin})
}

func (h *ComposeHandler) setCurrency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string `json:"currency"`
	}
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	code := currency.ParseCode(req.Currency)
	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		if code == "" {
			return c, fmt.Errorf("currency %q: %w", req.Currency, orders.ErrInvalidCurrency)
		}
		return c.SetActiveCurrency(code)
	}, "")
}

// mutate applies fn to the session of the request and writes the new view.
func (h *ComposeHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(orders.Composition) (orders.Composition, error), notice string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Sessions.Update(ctx, chi.URLParam(r, "sid"), fn)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.respond(w, http.StatusOK, c, notice)
}

func (h *ComposeHandler) addRow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type      pricing.ProductType `json:"type"`
		ProductID string              `json:"product_id"`
	}
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	p, notice, err := h.lookupProduct(r.Context(), chi.URLParam(r, "sid"), req.ProductID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		next, err := c.AddRow(req.Type)
		if err != nil || p == nil {
			return next, err
		}
		return next.SelectProduct(next.Rows[len(next.Rows)-1].ID, p)
	}, notice)
}

// lookupProduct loads a product priced for the session's branch and owner.
// A catalog outage is not fatal: the edit goes on without the product and
// the caller gets a notice. An unknown id is an error.
func (h *ComposeHandler) lookupProduct(ctx context.Context, sid, productID string) (*pricing.Product, string, error) {
	if productID == "" {
		return nil, "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		return nil, "", err
	}
	p, err := h.Products.GetProduct(ctx, productID, filterOf(c))
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, "", err
	}
	if err != nil {
		h.L.Errorf("session=%s get product %s: %v", sid, productID, err)
		return nil, "product catalog unavailable, prices could not be loaded", nil
	}
	return p, "", nil
}

// rowProduct loads the product already bound to a row.
func (h *ComposeHandler) rowProduct(ctx context.Context, sid, rowID string) (*pricing.Product, string, error) {
	c, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		return nil, "", err
	}
	row, err := c.Row(rowID)
	if err != nil {
		return nil, "", err
	}
	return h.lookupProduct(ctx, sid, row.ProductID)
}

type rowPatch struct {
	Type      *pricing.ProductType `json:"type"`
	ProductID *string              `json:"product_id"`
	Quantity  lenientNumber        `json:"quantity"`
	UnitPrice lenientNumber        `json:"unit_price"` // native currency
	Price     *priceInput          `json:"price"`      // display currency
}

func (h *ComposeHandler) editRow(w http.ResponseWriter, r *http.Request) {
	var req rowPatch
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	sid, rowID := chi.URLParam(r, "sid"), chi.URLParam(r, "rowID")

	var (
		p      *pricing.Product
		notice string
		err    error
	)
	if req.ProductID != nil {
		p, notice, err = h.lookupProduct(r.Context(), sid, *req.ProductID)
		if err != nil {
			writeErr(w, err)
			return
		}
	}

	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		var err error
		if req.Type != nil {
			if c, err = c.SetRowType(rowID, *req.Type); err != nil {
				return c, err
			}
		}
		if req.ProductID != nil {
			if c, err = c.SelectProduct(rowID, p); err != nil {
				return c, err
			}
		}
		if req.Quantity.set {
			if c, err = c.SetQuantity(rowID, req.Quantity.Int()); err != nil {
				return c, err
			}
		}
		if req.UnitPrice.set {
			if c, err = c.SetUnitPrice(rowID, req.UnitPrice.Decimal()); err != nil {
				return c, err
			}
		}
		if req.Price != nil {
			return c.WritePrice(rowID, "", currency.ParseCode(req.Price.Currency), req.Price.Value.Decimal())
		}
		return c, nil
	}, notice)
}

func (h *ComposeHandler) removeRow(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "rowID")
	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		return c.RemoveRow(rowID)
	}, "")
}

type roomReq struct {
	RoomType *pricing.RoomType `json:"room_type"`
	Quantity lenientNumber     `json:"quantity"`
	WithMeal *bool             `json:"with_meal"`
	Price    *priceInput       `json:"price"`
}

func (h *ComposeHandler) addRoom(w http.ResponseWriter, r *http.Request) {
	var req roomReq
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	sid, rowID := chi.URLParam(r, "sid"), chi.URLParam(r, "rowID")

	rt := pricing.DefaultRoomType
	if req.RoomType != nil {
		rt = pricing.ParseRoomType(string(*req.RoomType))
	}
	qty := 1
	if req.Quantity.set {
		qty = req.Quantity.Int()
	}
	withMeal := req.WithMeal != nil && *req.WithMeal

	p, notice, err := h.rowProduct(r.Context(), sid, rowID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		return c.AddRoom(rowID, rt, qty, withMeal, p)
	}, notice)
}

func (h *ComposeHandler) editRoom(w http.ResponseWriter, r *http.Request) {
	var req roomReq
	if err := decode(r, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	sid, rowID, roomID := chi.URLParam(r, "sid"), chi.URLParam(r, "rowID"), chi.URLParam(r, "roomID")

	var patch orders.RoomPatch
	if req.RoomType != nil {
		rt := pricing.ParseRoomType(string(*req.RoomType))
		patch.RoomType = &rt
	}
	if req.Quantity.set {
		q := req.Quantity.Int()
		patch.Quantity = &q
	}
	patch.WithMeal = req.WithMeal

	var (
		p      *pricing.Product
		notice string
		err    error
	)
	if patch.RoomType != nil || patch.WithMeal != nil {
		if p, notice, err = h.rowProduct(r.Context(), sid, rowID); err != nil {
			writeErr(w, err)
			return
		}
	}

	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		c, err := c.UpdateRoom(rowID, roomID, patch, p)
		if err != nil || req.Price == nil {
			return c, err
		}
		return c.WritePrice(rowID, roomID, currency.ParseCode(req.Price.Currency), req.Price.Value.Decimal())
	}, notice)
}

func (h *ComposeHandler) removeRoom(w http.ResponseWriter, r *http.Request) {
	rowID, roomID := chi.URLParam(r, "rowID"), chi.URLParam(r, "roomID")
	h.mutate(w, r, func(c orders.Composition) (orders.Composition, error) {
		return c.RemoveRoom(rowID, roomID)
	}, "")
}

type submitResp struct {
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	Items     int    `json:"items"`
	TotalIDR  string `json:"total_idr"`
}

// submit hands the composition to the order service once. A failed hand-off
// releases the idempotency key so the user may press submit again; the
// service itself never retries.
func (h *ComposeHandler) submit(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id := identityOf(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		writeErr(w, err)
		return
	}
	sub, err := c.BuildSubmission(orders.SubmitRules{
		RequireBranch: true,
		RequireOwner:  id.Role != invoice.RoleOwner,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	eventID := uuid.NewString()
	idemKey := fmt.Sprintf(redisx.KeyIdemSubmit, sid)
	first, err := h.Redis.SetNX(ctx, idemKey, eventID, redisx.TTLIdempotency).Result()
	if err != nil {
		writeErr(w, fmt.Errorf("idempotency: %w", err))
		return
	}
	if !first {
		writeMsg(w, http.StatusConflict, "session already submitted")
		return
	}

	ev := orders.Envelope{
		EventID:       eventID,
		EventType:     orders.EventOrderSubmitted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: sid,
		Payload: kafkax.MustMarshal(orders.OrderSubmittedPayload{
			Submission:     sub,
			IdempotencyKey: sid,
			SubmittedBy:    id.UserID,
			Role:           string(id.Role),
		}),
	}
	err = h.Producer.Send(ctx, orders.PartitionKey(sid), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderSubmitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if err != nil {
		_ = h.Redis.Del(context.WithoutCancel(ctx), idemKey).Err()
		h.L.Errorf("session=%s submit: %v", sid, err)
		writeMsg(w, http.StatusBadGateway, "order service unavailable, please submit again")
		return
	}

	if err := h.Sessions.Delete(ctx, sid); err != nil {
		h.L.Errorf("session=%s delete after submit: %v", sid, err)
	}
	writeJSON(w, http.StatusAccepted, submitResp{
		EventID:   eventID,
		SessionID: sid,
		Items:     len(sub.Items),
		TotalIDR:  sub.TotalIDR.String(),
	})
}
