package api

import (
	"net/http"
	"strings"

	"zackiepharma/m/domain"
)

type customerRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Phone          string `json:"phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	MedicalHistory string `json:"medical_history"`
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	customer := domain.Customer{
		Name:           strings.TrimSpace(req.Name),
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		DateOfBirth:    req.DateOfBirth,
		MedicalHistory: req.MedicalHistory,
	}
	id, err := h.store.CreateCustomer(r.Context(), customer)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionInsert, "customers", id)
	customer.ID = id
	respondJSON(w, http.StatusCreated, customer)
}

type prescriptionRequest struct {
	CustomerID     int64  `json:"customer_id" validate:"required,gt=0"`
	DoctorName     string `json:"doctor_name" validate:"max=200"`
	ProductID      int64  `json:"product_id" validate:"required,gt=0"`
	Quantity       int64  `json:"quantity" validate:"gt=0"`
	DatePrescribed string `json:"date_prescribed" validate:"omitempty,datetime=2006-01-02"`
	Instructions   string `json:"instructions"`
}

func (h *Handler) listPrescriptions(w http.ResponseWriter, r *http.Request) {
	var customerID int64
	if v := strings.TrimSpace(r.URL.Query().Get("customer_id")); v != "" {
		id, err := parseWhole(v)
		if err != nil {
			fail(w, r, &badRequest{msg: "customer_id must be a whole number"})
			return
		}
		customerID = id
	}
	prescriptions, err := h.store.ListPrescriptions(r.Context(), customerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, prescriptions)
}

func (h *Handler) createPrescription(w http.ResponseWriter, r *http.Request) {
	var req prescriptionRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	prescription := domain.Prescription{
		CustomerID:     req.CustomerID,
		DoctorName:     strings.TrimSpace(req.DoctorName),
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		DatePrescribed: req.DatePrescribed,
		Instructions:   req.Instructions,
	}
	id, err := h.store.CreatePrescription(r.Context(), prescription)
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionInsert, "prescriptions", id)
	prescription.ID = id
	respondJSON(w, http.StatusCreated, prescription)
}
