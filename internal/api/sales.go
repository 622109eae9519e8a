package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/auth"
	"zackiepharma/m/internal/sales"
)

const recentSalesLimit = 20

type salesPageResponse struct {
	Products    []domain.Product  `json:"products"`
	Customers   []domain.Customer `json:"customers"`
	RecentSales []domain.Sale     `json:"recent_sales"`
}

func (h *Handler) salesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	customers, err := h.store.ListCustomers(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	recent, err := h.store.ListSales(ctx, recentSalesLimit)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, salesPageResponse{Products: products, Customers: customers, RecentSales: recent})
}

type saleRequest struct {
	CustomerID    *int64          `json:"customer_id"`
	PaymentMethod string          `json:"payment_method"`
	Discount      float64         `json:"discount"`
	Tax           float64         `json:"tax"`
	Quantities    map[int64]int64 `json:"quantities"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var (
		req saleRequest
		err error
	)
	if isJSON(r) {
		err = decodeJSON(r, &req)
		if err != nil {
			err = &badRequest{msg: "invalid request body: " + err.Error()}
		}
	} else {
		req, err = parseSaleForm(r)
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	p, _ := auth.FromContext(r.Context())
	userID := p.UserID
	sale, err := h.sales.Record(r.Context(), sales.Request{
		CustomerID:    req.CustomerID,
		UserID:        &userID,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Quantities:    req.Quantities,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

// parseSaleForm reads the checkout form: customer_id, payment_method,
// discount, tax and one quantity_<product id> field per catalog row.
func parseSaleForm(r *http.Request) (saleRequest, error) {
	var req saleRequest
	if err := r.ParseForm(); err != nil {
		return req, &badRequest{msg: "invalid form submission"}
	}

	if v := strings.TrimSpace(r.PostForm.Get("customer_id")); v != "" {
		id, err := parseWhole(v)
		if err != nil {
			return req, &badRequest{msg: "customer_id must be a whole number"}
		}
		req.CustomerID = &id
	}
	req.PaymentMethod = r.PostForm.Get("payment_method")

	var err error
	if req.Discount, err = formFloat(r, "discount"); err != nil {
		return req, err
	}
	if req.Tax, err = formFloat(r, "tax"); err != nil {
		return req, err
	}

	req.Quantities = make(map[int64]int64)
	for key, values := range r.PostForm {
		if !strings.HasPrefix(key, "quantity_") || len(values) == 0 {
			continue
		}
		id, err := parseWhole(strings.TrimPrefix(key, "quantity_"))
		if err != nil || id <= 0 {
			return req, &badRequest{msg: "invalid product field " + key}
		}
		raw := strings.TrimSpace(values[0])
		if raw == "" {
			continue
		}
		qty, err := parseWhole(raw)
		if err != nil {
			return req, &badRequest{msg: key + " must be a whole number"}
		}
		req.Quantities[id] = qty
	}
	return req, nil
}

func formFloat(r *http.Request, field string) (float64, error) {
	v := strings.TrimSpace(r.PostForm.Get(field))
	if v == "" {
		return 0, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &badRequest{msg: field + " must be a number"}
	}
	return f, nil
}

// parseWhole reads a base 10 integer. Leading zeros are decimal, never octal.
func parseWhole(v string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
}
