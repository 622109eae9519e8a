package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cast"

	"zackiepharma/m/domain"
	"zackiepharma/m/internal/reports"
)

type reportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type reportResponse struct {
	domain.SalesSummary
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// reportBounds reads start_date and end_date from the query string, a JSON
// body or a submitted form.
func reportBounds(r *http.Request) (reportRequest, error) {
	var req reportRequest
	switch {
	case r.Method == http.MethodPost && isJSON(r):
		if err := decodeJSON(r, &req); err != nil {
			return req, &badRequest{msg: "invalid request body: " + err.Error()}
		}
	case r.Method == http.MethodPost:
		if err := r.ParseForm(); err != nil {
			return req, &badRequest{msg: "invalid form submission"}
		}
		req.StartDate = r.PostForm.Get("start_date")
		req.EndDate = r.PostForm.Get("end_date")
	default:
		req.StartDate = r.URL.Query().Get("start_date")
		req.EndDate = r.URL.Query().Get("end_date")
	}
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	return req, nil
}

func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	req, err := reportBounds(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	rng, err := reports.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		fail(w, r, err)
		return
	}
	summary, err := h.reports.Summary(r.Context(), rng)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reportResponse{SalesSummary: summary, StartDate: req.StartDate, EndDate: req.EndDate})
}

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	req, err := reportBounds(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	rng, err := reports.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if _, err := h.reports.Export(r.Context(), rng, &buf); err != nil {
		fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("sales_%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) auditLog(w http.ResponseWriter, r *http.Request) {
	limit, err := parseWhole(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := h.store.ListAuditEntries(r.Context(), strings.TrimSpace(r.URL.Query().Get("table")), int(limit))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	unread := cast.ToBool(r.URL.Query().Get("unread"))
	notifications, err := h.store.ListNotifications(r.Context(), unread)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.store.MarkNotificationRead(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	h.audit.Log(r.Context(), domain.ActionUpdate, "notifications", id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
