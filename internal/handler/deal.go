package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
	"github.com/juniorcav/gestao-pesca-sub000/internal/service"
)

type DealHandler struct {
	Repo      repository.DealRepository
	Service   service.DealService
	Checkin   service.CheckinService
	Settings  repository.SettingsRepository
	Logs      repository.ActivityLogRepository
	Documents *DocumentRenderer
}

func (h DealHandler) RegisterRoutes(r chi.Router) {
	r.Get("/deals", h.list)
	r.Post("/deals", h.create)
	r.Get("/deals/{id}", h.get)
	r.Put("/deals/{id}", h.save)
	r.Post("/deals/{id}/move", h.move)
	r.Put("/deals/{id}/stage", h.setStage)
	r.Post("/deals/{id}/budget-items", h.addBudgetItem)
	r.Delete("/deals/{id}/budget-items/{itemID}", h.removeBudgetItem)
	r.Post("/deals/{id}/payments", h.addPayment)
	r.Delete("/deals/{id}/payments/{paymentID}", h.removePayment)
	r.Post("/deals/{id}/checkin", h.commitCheckin)
	r.Get("/deals/{id}/whatsapp", h.whatsappLink)
	r.Get("/deals/{id}/proposal", h.proposal)
}

func dealID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h DealHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	deals, err := h.Repo.List(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(deals))
	for i := range deals {
		resp = append(resp, toDealResponse(&deals[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h DealHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	deal, err := h.Repo.GetByID(r.Context(), user.TenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "deal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

type dealPayload struct {
	ContactName  string   `json:"contactName"`
	ContactPhone string   `json:"contactPhone"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
	Budget       *struct {
		City         string              `json:"city"`
		CheckInDate  string              `json:"checkInDate"`
		CheckOutDate string              `json:"checkOutDate"`
		FishingDays  int                 `json:"fishingDays"`
		People       int                 `json:"people"`
		Items        []budgetItemPayload `json:"items"`
	} `json:"budget"`
}

type budgetItemPayload struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Qty         int    `json:"qty"`
	UnitPrice   int64  `json:"unitPrice"`
}

func (p dealPayload) toInput() service.SaveDealInput {
	in := service.SaveDealInput{
		ContactName:  p.ContactName,
		ContactPhone: p.ContactPhone,
		Notes:        p.Notes,
		Tags:         p.Tags,
	}
	if p.Budget != nil {
		budget := &domain.Budget{
			City:         p.Budget.City,
			CheckInDate:  parseOptionalDate(p.Budget.CheckInDate),
			CheckOutDate: parseOptionalDate(p.Budget.CheckOutDate),
			FishingDays:  p.Budget.FishingDays,
			People:       p.Budget.People,
		}
		for _, item := range p.Budget.Items {
			budget.Items = append(budget.Items, domain.BudgetItem{
				ID:          item.ID,
				Origin:      domain.BudgetItemOrigin(item.Origin),
				Name:        item.Name,
				Description: item.Description,
				Qty:         item.Qty,
				UnitPrice:   domain.Money{Amount: item.UnitPrice},
			})
		}
		in.Budget = budget
	}
	return in
}

func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed
	}
	return nil
}

func (h DealHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dealPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ContactName == "" {
		writeError(w, http.StatusBadRequest, "contactName is required")
		return
	}
	deal, err := h.Service.Create(r.Context(), user.TenantID, req.toInput())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toDealResponse(deal))
}

func (h DealHandler) save(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req dealPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	deal, err := h.Service.Save(r.Context(), user.TenantID, id, req.toInput())
	if err != nil {
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

func (h DealHandler) move(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Direction int `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Direction != 1 && req.Direction != -1 {
		writeError(w, http.StatusBadRequest, "direction must be 1 or -1")
		return
	}
	change, err := h.Service.Move(r.Context(), user.TenantID, id, req.Direction)
	if err != nil {
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStageChangeResponse(change))
}

func (h DealHandler) setStage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	change, err := h.Service.SetStage(r.Context(), user.TenantID, id, domain.DealStage(req.Stage))
	if err != nil {
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStageChangeResponse(change))
}

func (h DealHandler) addBudgetItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		TemplateID  *int64 `json:"templateId"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Qty         int    `json:"qty"`
		UnitPrice   int64  `json:"unitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	deal, err := h.Service.AddBudgetItem(r.Context(), user.TenantID, id, service.AddBudgetItemInput{
		TemplateID:  req.TemplateID,
		Name:        req.Name,
		Description: req.Description,
		Qty:         req.Qty,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyItemName) {
			writeError(w, http.StatusBadRequest, "item name is required")
			return
		}
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

func (h DealHandler) removeBudgetItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	deal, err := h.Service.RemoveBudgetItem(r.Context(), user.TenantID, id, chi.URLParam(r, "itemID"))
	if err != nil {
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

type paymentPayload struct {
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
	Method string `json:"method"`
	Notes  string `json:"notes"`
}

func (p paymentPayload) toInput() service.AddPaymentInput {
	in := service.AddPaymentInput{
		Amount: p.Amount,
		Method: p.Method,
		Notes:  p.Notes,
	}
	if parsed := parseOptionalDate(p.Date); parsed != nil {
		in.Date = *parsed
	}
	return in
}

func (h DealHandler) addPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	deal, err := h.Service.AddPayment(r.Context(), user.TenantID, id, req.toInput())
	if err != nil {
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

func (h DealHandler) removePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	deal, err := h.Service.RemovePayment(r.Context(), user.TenantID, id, chi.URLParam(r, "paymentID"))
	if err != nil {
		writeDealError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealResponse(deal))
}

// commitCheckin runs the capture wizard's final confirmation for a deal.
func (h DealHandler) commitCheckin(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req checkinPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input := req.toInput()
	input.DealID = &id
	res, err := h.Checkin.Commit(r.Context(), user.TenantID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNoResourcesSelected) {
			writeError(w, http.StatusBadRequest, "select at least one room or boat")
			return
		}
		writeDealError(w, err)
		return
	}
	h.logCheckin(r, user.Email, res)
	writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

func (h DealHandler) logCheckin(r *http.Request, actor string, res *domain.Reservation) {
	_, err := h.Logs.Create(r.Context(), res.TenantID, repository.CreateActivityLogInput{
		Title:   "Check-in realizado",
		Message: "Reserva " + res.ReferenceCode + " para " + res.ContactName,
		Actor:   actor,
		Type:    domain.LogInfo,
	})
	if err != nil {
		// Best effort, the reservation itself already committed.
		return
	}
}

func (h DealHandler) whatsappLink(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	deal, err := h.Repo.GetByID(r.Context(), user.TenantID, id)
	if err != nil {
		writeDealError(w, err)
		return
	}
	if deal.ContactPhone == "" {
		writeError(w, http.StatusBadRequest, "deal has no contact phone")
		return
	}
	settings, err := h.Settings.Get(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	link := BuildWhatsAppLink(deal.ContactPhone, proposalMessage(settings, deal))
	writeJSON(w, http.StatusOK, map[string]string{"link": link})
}

func (h DealHandler) proposal(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := dealID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	deal, err := h.Repo.GetByID(r.Context(), user.TenantID, id)
	if err != nil {
		writeDealError(w, err)
		return
	}
	settings, err := h.Settings.Get(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	doc, err := h.Documents.Proposal(settings, deal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(doc)
}

func writeDealError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDealNotFound), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "deal not found")
	case errors.Is(err, service.ErrBadStage):
		writeError(w, http.StatusBadRequest, "unknown stage")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		writeError(w, http.StatusConflict, "deal already checked in")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func toStageChangeResponse(change service.StageChange) map[string]any {
	return map[string]any{
		"stage":           string(change.Stage),
		"checkinRequired": change.CheckinRequired,
	}
}

func toDealResponse(d *domain.Deal) map[string]any {
	resp := map[string]any{
		"id":              strconv.FormatInt(d.ID, 10),
		"contactName":     d.ContactName,
		"contactPhone":    d.ContactPhone,
		"value":           d.Value.Amount,
		"stage":           string(d.Stage),
		"tags":            emptyIfNil(d.Tags),
		"lastInteraction": d.LastInteraction.Format(time.RFC3339),
		"notes":           d.Notes,
		"payments":        toPaymentResponses(d.Payments),
		"totalPaid":       d.TotalPaid(),
		"remaining":       d.RemainingBalance(),
		"isPaid":          d.IsPaid(),
	}
	if d.Budget != nil {
		items := make([]map[string]any, 0, len(d.Budget.Items))
		for _, item := range d.Budget.Items {
			items = append(items, map[string]any{
				"id":          item.ID,
				"origin":      string(item.Origin),
				"name":        item.Name,
				"description": item.Description,
				"qty":         item.Qty,
				"unitPrice":   item.UnitPrice.Amount,
				"total":       item.Total.Amount,
			})
		}
		resp["budget"] = map[string]any{
			"city":         d.Budget.City,
			"checkInDate":  formatOptionalDate(d.Budget.CheckInDate),
			"checkOutDate": formatOptionalDate(d.Budget.CheckOutDate),
			"fishingDays":  d.Budget.FishingDays,
			"people":       d.Budget.People,
			"items":        items,
		}
	}
	return resp
}

func toPaymentResponses(payments []domain.Payment) []map[string]any {
	out := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		out = append(out, map[string]any{
			"id":     p.ID,
			"amount": p.Amount.Amount,
			"date":   p.Date.Format(dateLayout),
			"method": p.Method,
			"notes":  p.Notes,
		})
	}
	return out
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
