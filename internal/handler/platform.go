package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

// PlatformHandler is the cross-tenant admin surface: registered lodges,
// subscription plans and platform-wide settings.
type PlatformHandler struct {
	Repo repository.PlatformRepository
}

func (h PlatformHandler) RegisterRoutes(r chi.Router) {
	r.Get("/platform/businesses", h.listBusinesses)
	r.Post("/platform/businesses", h.saveBusiness)
	r.Get("/platform/plans", h.listPlans)
	r.Post("/platform/plans", h.savePlan)
	r.Get("/platform/settings", h.getSettings)
	r.Put("/platform/settings", h.saveSettings)
}

func (h PlatformHandler) listBusinesses(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListBusinesses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, b := range items {
		entry := map[string]any{
			"id":          strconv.FormatInt(b.ID, 10),
			"name":        b.Name,
			"ownerUserId": strconv.FormatInt(b.OwnerUserID, 10),
			"status":      b.Status,
		}
		if b.PlanID != nil {
			entry["planId"] = strconv.FormatInt(*b.PlanID, 10)
		}
		resp = append(resp, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h PlatformHandler) saveBusiness(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		OwnerUserID int64  `json:"ownerUserId"`
		PlanID      *int64 `json:"planId"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	saved, err := h.Repo.SaveBusiness(r.Context(), domain.Business{
		ID:          req.ID,
		Name:        req.Name,
		OwnerUserID: req.OwnerUserID,
		PlanID:      req.PlanID,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": strconv.FormatInt(saved.ID, 10)})
}

func (h PlatformHandler) listPlans(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, map[string]any{
			"id":       strconv.FormatInt(p.ID, 10),
			"name":     p.Name,
			"price":    p.Price.Amount,
			"maxRooms": p.MaxRooms,
			"maxUsers": p.MaxUsers,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h PlatformHandler) savePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		MaxRooms int    `json:"maxRooms"`
		MaxUsers int    `json:"maxUsers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := h.Repo.SavePlan(r.Context(), domain.Plan{
		ID:       req.ID,
		Name:     req.Name,
		Price:    domain.Money{Amount: req.Price},
		MaxRooms: req.MaxRooms,
		MaxUsers: req.MaxUsers,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": strconv.FormatInt(saved.ID, 10)})
}

func (h PlatformHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toPlatformSettingsResponse(s))
}

func (h PlatformHandler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SupportEmail     string `json:"supportEmail"`
		SupportPhone     string `json:"supportPhone"`
		TrialDays        int    `json:"trialDays"`
		SignupsOpen      bool   `json:"signupsOpen"`
		MaintenanceBlurb string `json:"maintenanceBlurb"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	saved, err := h.Repo.SaveSettings(r.Context(), domain.PlatformSettings{
		SupportEmail:     req.SupportEmail,
		SupportPhone:     req.SupportPhone,
		TrialDays:        req.TrialDays,
		SignupsOpen:      req.SignupsOpen,
		MaintenanceBlurb: req.MaintenanceBlurb,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toPlatformSettingsResponse(saved))
}

func toPlatformSettingsResponse(s *domain.PlatformSettings) map[string]any {
	return map[string]any{
		"supportEmail":     s.SupportEmail,
		"supportPhone":     s.SupportPhone,
		"trialDays":        s.TrialDays,
		"signupsOpen":      s.SignupsOpen,
		"maintenanceBlurb": s.MaintenanceBlurb,
	}
}
