package api

import (
	"net/http"
	"strings"

	"zackiepharma/m/domain"
)

type productRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	CategoryID   *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	Quantity     int64   `json:"quantity" validate:"gte=0"`
	ReorderLevel *int64  `json:"reorder_level" validate:"omitempty,gte=0"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	product := domain.Product{
		Name:         strings.TrimSpace(req.Name),
		CategoryID:   req.CategoryID,
		Price:        req.Price,
		Quantity:     req.Quantity,
		ReorderLevel: 5,
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}

	id, err := h.store.CreateProduct(r.Context(), product)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionInsert, "products", id)

	created, err := h.store.ProductByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type stockRequest struct {
	Change     int64  `json:"change" validate:"required"`
	Reason     string `json:"reason" validate:"max=200"`
	SupplierID *int64 `json:"supplier_id" validate:"omitempty,gt=0"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req stockRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	movement, err := h.store.AdjustStock(r.Context(), id, req.Change, strings.TrimSpace(req.Reason), req.SupplierID)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionUpdate, "products", id)
	respondJSON(w, http.StatusCreated, movement)
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	id, err := h.store.CreateCategory(r.Context(), name)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionInsert, "categories", id)
	respondJSON(w, http.StatusCreated, domain.Category{ID: id, Name: name})
}

type supplierRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.ListSuppliers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	supplier := domain.Supplier{
		Name:    strings.TrimSpace(req.Name),
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	id, err := h.store.CreateSupplier(r.Context(), supplier)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionInsert, "suppliers", id)
	supplier.ID = id
	respondJSON(w, http.StatusCreated, supplier)
}
