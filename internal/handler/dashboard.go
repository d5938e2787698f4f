package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
	r.Get("/dashboard/top-products", h.topProducts)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	s, err := h.Repo.Summary(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dealsByStage":       s.DealsByStage,
		"activeReservations": s.ActiveReservations,
		"occupiedRooms":      s.OccupiedRooms,
		"totalRooms":         s.TotalRooms,
		"monthPayments":      s.MonthPayments,
		"monthConsumption":   s.MonthConsumption,
	})
}

func (h DashboardHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	items, err := h.Repo.TopProducts(r.Context(), user.TenantID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, item := range items {
		resp = append(resp, map[string]any{
			"name":   item.Name,
			"amount": item.Amount,
			"qty":    item.Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
