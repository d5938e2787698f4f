package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

type BudgetTemplateHandler struct {
	Repo repository.BudgetTemplateRepository
}

func (h BudgetTemplateHandler) RegisterRoutes(r chi.Router) {
	r.Get("/budget-templates", h.list)
	r.Post("/budget-templates", h.create)
	r.Put("/budget-templates/{id}", h.update)
	r.Delete("/budget-templates/{id}", h.delete)
	r.Post("/budget-templates/seed", h.seed)
}

func (h BudgetTemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.Repo.List(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, t := range items {
		resp = append(resp, toTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h BudgetTemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0, http.StatusCreated)
}

func (h BudgetTemplateHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.save(w, r, id, http.StatusOK)
}

func (h BudgetTemplateHandler) save(w http.ResponseWriter, r *http.Request, id int64, okStatus int) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		UnitPrice   int64  `json:"unitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	saved, err := h.Repo.Save(r.Context(), user.TenantID, domain.BudgetTemplate{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   domain.Money{Amount: req.UnitPrice},
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, okStatus, toTemplateResponse(*saved))
}

func (h BudgetTemplateHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), user.TenantID, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// seed installs the default fishing package templates for a new lodge.
func (h BudgetTemplateHandler) seed(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.Repo.SeedDefaults(r.Context(), user.TenantID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items, err := h.Repo.List(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, t := range items {
		resp = append(resp, toTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toTemplateResponse(t domain.BudgetTemplate) map[string]any {
	return map[string]any{
		"id":          strconv.FormatInt(t.ID, 10),
		"name":        t.Name,
		"description": t.Description,
		"category":    t.Category,
		"unitPrice":   t.UnitPrice.Amount,
	}
}
