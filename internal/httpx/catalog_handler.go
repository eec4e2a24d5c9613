package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/travelhub/order-composer/internal/catalog"
	"github.com/travelhub/order-composer/internal/currency"
	"github.com/travelhub/order-composer/internal/invoice"
	"github.com/travelhub/order-composer/internal/logger"
	"github.com/travelhub/order-composer/internal/pricing"
	"github.com/travelhub/order-composer/internal/rates"
)

type CatalogHandler struct {
	Products productSource
	Rates    rateSource
	L        *logger.Logger
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/rates", h.getRates)
}

type productDTO struct {
	ID        string              `json:"id"`
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	Type      pricing.ProductType `json:"type"`
	IsPackage bool                `json:"is_package"`
	Currency  currency.Code       `json:"currency"`
	Price     currency.Triad      `json:"price"`
	Rooms     []roomPriceDTO      `json:"rooms,omitempty"`
}

type roomPriceDTO struct {
	RoomType  pricing.RoomType `json:"room_type"`
	Capacity  int              `json:"capacity"`
	Price     currency.Triad   `json:"price"`
	MealPrice currency.Triad   `json:"price_with_meal"`
}

func toProductDTO(p pricing.Product, rs currency.RateSet) productDTO {
	code := p.NativeCurrency()
	d := productDTO{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Type:      p.Type,
		IsPackage: p.IsPackage,
		Currency:  code,
		Price:     currency.Resolve(code, pricing.UnitPrice(&p), rs).Rounded(),
	}
	if p.Type != pricing.TypeHotel || len(p.RoomBreakdown) == 0 {
		return d
	}
	for _, rt := range pricing.RoomTypes {
		if _, ok := p.RoomBreakdown[rt]; !ok {
			continue
		}
		d.Rooms = append(d.Rooms, roomPriceDTO{
			RoomType:  rt,
			Capacity:  pricing.CapacityOf(rt),
			Price:     currency.Resolve(code, pricing.PriceFor(&p, rt, false), rs).Rounded(),
			MealPrice: currency.Resolve(code, pricing.PriceFor(&p, rt, true), rs).Rounded(),
		})
	}
	return d
}

type productsResp struct {
	Items       []productDTO `json:"items"`
	RatesOrigin rates.Origin `json:"rates_origin"`
	Notice      string       `json:"notice,omitempty"`
}

// GET /products?branch_id=&owner_id=&type=
// A failing catalog yields an empty list with a notice so the page still renders.
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		BranchID: q.Get("branch_id"),
		OwnerID:  q.Get("owner_id"),
		Type:     pricing.ProductType(q.Get("type")),
	}
	if f.Type != "" && !f.Type.Valid() {
		writeMsg(w, http.StatusBadRequest, "unknown product type")
		return
	}
	if id := identityOf(r); id.Role == invoice.RoleOwner {
		f.OwnerID = id.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := h.Rates.RateSet(ctx, f.BranchID)
	resp := productsResp{Items: []productDTO{}, RatesOrigin: res.Origin}

	ps, err := h.Products.ListProducts(ctx, f)
	if err != nil {
		h.L.Errorf("list products branch=%s: %v", f.BranchID, err)
		resp.Notice = "product catalog unavailable, try again later"
		writeJSON(w, http.StatusOK, resp)
		return
	}
	for _, p := range ps {
		resp.Items = append(resp.Items, toProductDTO(p, res.Rates))
	}
	writeJSON(w, http.StatusOK, resp)
}

type ratesResp struct {
	BranchID string           `json:"branch_id,omitempty"`
	Rates    currency.RateSet `json:"rates"`
	Origin   rates.Origin     `json:"origin"`
	Cached   bool             `json:"cached"`
}

// GET /rates?branch_id=
func (h *CatalogHandler) getRates(w http.ResponseWriter, r *http.Request) {
	branchID := r.URL.Query().Get("branch_id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	res := h.Rates.RateSet(ctx, branchID)
	writeJSON(w, http.StatusOK, ratesResp{BranchID: branchID, Rates: res.Rates, Origin: res.Origin, Cached: res.Cached})
}
