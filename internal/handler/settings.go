package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

type SettingsHandler struct {
	Repo repository.SettingsRepository
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.save)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	s, err := h.Repo.Get(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}

func (h SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		LodgeName            string `json:"lodgeName"`
		LodgeAddress         string `json:"lodgeAddress"`
		LodgePhone           string `json:"lodgePhone"`
		City                 string `json:"city"`
		DefaultPaymentMethod string `json:"defaultPaymentMethod"`
		ReceiptFooter        string `json:"receiptFooter"`
		CheckinHour          string `json:"checkinHour"`
		CheckoutHour         string `json:"checkoutHour"`
		CurrencyCode         string `json:"currencyCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	current, err := h.Repo.Get(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	next := domain.Settings{
		LodgeName:            req.LodgeName,
		LodgeAddress:         req.LodgeAddress,
		LodgePhone:           req.LodgePhone,
		City:                 req.City,
		DefaultPaymentMethod: req.DefaultPaymentMethod,
		ReceiptFooter:        req.ReceiptFooter,
		CheckinHour:          req.CheckinHour,
		CheckoutHour:         req.CheckoutHour,
		CurrencyCode:         req.CurrencyCode,
	}
	if next.DefaultPaymentMethod == "" {
		next.DefaultPaymentMethod = current.DefaultPaymentMethod
	}
	if next.CheckinHour == "" {
		next.CheckinHour = current.CheckinHour
	}
	if next.CheckoutHour == "" {
		next.CheckoutHour = current.CheckoutHour
	}
	if next.CurrencyCode == "" {
		next.CurrencyCode = current.CurrencyCode
	}
	saved, err := h.Repo.Save(r.Context(), user.TenantID, next)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(saved))
}

func toSettingsResponse(s *domain.Settings) map[string]any {
	return map[string]any{
		"lodgeName":            s.LodgeName,
		"lodgeAddress":         s.LodgeAddress,
		"lodgePhone":           s.LodgePhone,
		"city":                 s.City,
		"defaultPaymentMethod": s.DefaultPaymentMethod,
		"receiptFooter":        s.ReceiptFooter,
		"checkinHour":          s.CheckinHour,
		"checkoutHour":         s.CheckoutHour,
		"currencyCode":         s.CurrencyCode,
	}
}
