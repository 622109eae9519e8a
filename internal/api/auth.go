package api

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/auth"
	"zackiepharma/m/internal/store"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token    string      `json:"token"`
	User     domain.User `json:"user"`
	Redirect string      `json:"redirect"`
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.principalFrom(r); ok {
		respondJSON(w, http.StatusOK, map[string]any{"user": p, "redirect": dashboardPath})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "submit username and password to log in"})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.store.UserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		fail(w, r, err)
		return
	}
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := h.tokens.Issue(auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		fail(w, r, errors.Wrap(err, "issue token"))
		return
	}
	if err := h.sessions.Save(w, r, token); err != nil {
		fail(w, r, errors.Wrap(err, "save session"))
		return
	}

	zap.L().Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user, Redirect: dashboardPath})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		fail(w, r, errors.Wrap(err, "clear session"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out", "redirect": loginPath})
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"omitempty,oneof=admin cashier staff"`
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "submit username, password and role to register",
		"roles":   []string{domain.RoleCashier, domain.RoleStaff},
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := bind(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleStaff
	}
	if req.Role == domain.RoleAdmin {
		p, ok := auth.FromContext(r.Context())
		if !ok || !p.Can(auth.RegisterAdmins) {
			respondNotice(w, http.StatusForbidden, "only an admin can create admin accounts", loginPath)
			return
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(w, r, errors.Wrap(err, "hash password"))
		return
	}
	username := strings.TrimSpace(req.Username)
	id, err := h.store.CreateUser(r.Context(), username, hashed, req.Role)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusConflict, "username already exists")
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionInsert, "users", id)

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":     domain.User{ID: id, Username: username, Role: req.Role},
		"redirect": loginPath,
	})
}

type dashboardResponse struct {
	User                auth.Principal `json:"user"`
	Products            int            `json:"products"`
	Customers           int            `json:"customers"`
	Sales               int64          `json:"sales"`
	UnreadNotifications int            `json:"unread_notifications"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
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
	salesCount, err := h.store.CountSales(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	unread, err := h.store.ListNotifications(ctx, true)
	if err != nil {
		fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboardResponse{
		User:                p,
		Products:            len(products),
		Customers:           len(customers),
		Sales:               salesCount,
		UnreadNotifications: len(unread),
	})
}
