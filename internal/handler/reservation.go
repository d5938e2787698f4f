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

type ReservationHandler struct {
	Repo      repository.ReservationRepository
	Service   service.ReservationService
	Checkin   service.CheckinService
	Settings  repository.SettingsRepository
	Logs      repository.ActivityLogRepository
	Documents *DocumentRenderer
}

func (h ReservationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reservations", h.list)
	r.Get("/reservations/export", h.export)
	r.Post("/reservations", h.createManual)
	r.Get("/reservations/{id}", h.get)
	r.Put("/reservations/{id}/status", h.setStatus)
	r.Post("/reservations/{id}/rooms/{roomID}/consumption", h.adjustConsumption)
	r.Post("/reservations/{id}/payments", h.addPayment)
	r.Delete("/reservations/{id}/payments/{paymentID}", h.removePayment)
	r.Get("/reservations/{id}/summary", h.summary)
	r.Get("/reservations/{id}/confirmation", h.confirmation)
	r.Get("/reservations/{id}/extract", h.extract)
}

type checkinPayload struct {
	RoomIDs  []int64 `json:"roomIds"`
	BoatIDs  []int64 `json:"boatIds"`
	GuideIDs []int64 `json:"guideIds"`
	Guests   map[string][]struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"guests"`

	ContactName  string           `json:"contactName"`
	CheckInDate  string           `json:"checkInDate"`
	CheckOutDate string           `json:"checkOutDate"`
	PackageValue int64            `json:"packageValue"`
	Payments     []paymentPayload `json:"payments"`
	Notes        string           `json:"notes"`
}

func (p checkinPayload) toInput() service.CheckinInput {
	in := service.CheckinInput{
		RoomIDs:      p.RoomIDs,
		BoatIDs:      p.BoatIDs,
		GuideIDs:     p.GuideIDs,
		ContactName:  p.ContactName,
		CheckInDate:  parseOptionalDate(p.CheckInDate),
		CheckOutDate: parseOptionalDate(p.CheckOutDate),
		PackageValue: p.PackageValue,
		Notes:        p.Notes,
	}
	if len(p.Guests) > 0 {
		in.Guests = make(map[int64][]domain.Guest, len(p.Guests))
		for key, guests := range p.Guests {
			roomID, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				continue
			}
			for _, g := range guests {
				in.Guests[roomID] = append(in.Guests[roomID], domain.Guest{Name: g.Name, Phone: g.Phone})
			}
		}
	}
	for _, payment := range p.Payments {
		in.Payments = append(in.Payments, payment.toInput())
	}
	return in
}

func reservationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h ReservationHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.listFiltered(w, r, user.TenantID)
	if err != nil {
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, toReservationResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// listFiltered loads reservations applying optional startDate/endDate query
// filters against the check-in date. Errors are already written.
func (h ReservationHandler) listFiltered(w http.ResponseWriter, r *http.Request, tenantID int64) ([]domain.Reservation, error) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return nil, err
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return nil, err
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return nil, errors.New("bad range")
	}

	items, err := h.Repo.List(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, err
	}
	return filterByCheckIn(items, startDate, endDate), nil
}

// filterByCheckIn keeps reservations whose check-in date falls inside the
// optional [startDate, endDate] range. Both bounds are inclusive whole days;
// reservations without a check-in date are dropped when any bound is set.
func filterByCheckIn(items []domain.Reservation, startDate, endDate *time.Time) []domain.Reservation {
	if startDate == nil && endDate == nil {
		return items
	}
	filtered := items[:0]
	for _, res := range items {
		if res.CheckInDate == nil {
			continue
		}
		if startDate != nil && res.CheckInDate.Before(*startDate) {
			continue
		}
		if endDate != nil && !res.CheckInDate.Before(endDate.AddDate(0, 0, 1)) {
			continue
		}
		filtered = append(filtered, res)
	}
	return filtered
}

func (h ReservationHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	res, ok := h.load(w, r, user.TenantID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h ReservationHandler) load(w http.ResponseWriter, r *http.Request, tenantID int64) (*domain.Reservation, bool) {
	id, err := reservationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	res, err := h.Repo.GetByID(r.Context(), tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return res, true
}

// createManual books a walk-in guest without a deal behind it.
func (h ReservationHandler) createManual(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req checkinPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ContactName == "" {
		writeError(w, http.StatusBadRequest, "contactName is required")
		return
	}
	res, err := h.Checkin.Commit(r.Context(), user.TenantID, req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrNoResourcesSelected) {
			writeError(w, http.StatusBadRequest, "select at least one room or boat")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_, _ = h.Logs.Create(r.Context(), user.TenantID, repository.CreateActivityLogInput{
		Title:   "Check-in manual",
		Message: "Reserva " + res.ReferenceCode + " para " + res.ContactName,
		Actor:   user.Email,
		Type:    domain.LogInfo,
	})
	writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

func (h ReservationHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := reservationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.ChangeStatus(r.Context(), user.TenantID, id, domain.ReservationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			writeError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	_, _ = h.Logs.Create(r.Context(), user.TenantID, repository.CreateActivityLogInput{
		Title:   "Status da reserva alterado",
		Message: "Reserva " + res.ReferenceCode + " agora " + string(res.Status),
		Actor:   user.Email,
		Type:    domain.LogInfo,
	})
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h ReservationHandler) adjustConsumption(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := reservationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	var req struct {
		ProductID int64 `json:"productId"`
		Delta     int   `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}
	res, err := h.Service.AdjustConsumption(r.Context(), user.TenantID, id, roomID, req.ProductID, req.Delta)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res == nil {
		// The record is gone; the front desk treats this as already closed.
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h ReservationHandler) addPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := reservationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.AddPayment(r.Context(), user.TenantID, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			writeError(w, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrInvalidPayment):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (h ReservationHandler) removePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, err := reservationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	res, err := h.Service.RemovePayment(r.Context(), user.TenantID, id, chi.URLParam(r, "paymentID"))
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

// summary is the financial roll-up shown on the reservation detail screen.
func (h ReservationHandler) summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	res, ok := h.load(w, r, user.TenantID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(res))
}

func (h ReservationHandler) confirmation(w http.ResponseWriter, r *http.Request) {
	h.renderDocument(w, r, h.Documents.Confirmation)
}

func (h ReservationHandler) extract(w http.ResponseWriter, r *http.Request) {
	h.renderDocument(w, r, h.Documents.Extract)
}

func (h ReservationHandler) renderDocument(w http.ResponseWriter, r *http.Request, render func(*domain.Settings, *domain.Reservation) ([]byte, error)) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	res, ok := h.load(w, r, user.TenantID)
	if !ok {
		return
	}
	settings, err := h.Settings.Get(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	doc, err := render(settings, res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(doc)
}

func toSummaryResponse(res *domain.Reservation) map[string]any {
	rooms := make([]map[string]any, 0, len(res.Rooms))
	for i := range res.Rooms {
		room := &res.Rooms[i]
		rooms = append(rooms, map[string]any{
			"roomId":      strconv.FormatInt(room.RoomID, 10),
			"roomNumber":  room.RoomNumber,
			"consumption": room.ConsumptionTotal(),
		})
	}
	return map[string]any{
		"referenceCode":    res.ReferenceCode,
		"packageValue":     res.PackageValue.Amount,
		"consumptionTotal": res.ConsumptionTotal(),
		"grandTotal":       res.GrandTotal(),
		"paidAmount":       res.PaidAmount.Amount,
		"balanceDue":       res.BalanceDue(),
		"totalPayments":    res.TotalPayments(),
		"guestCount":       res.GuestCount(),
		"rooms":            rooms,
	}
}

func toReservationResponse(res *domain.Reservation) map[string]any {
	rooms := make([]map[string]any, 0, len(res.Rooms))
	for i := range res.Rooms {
		room := &res.Rooms[i]
		guests := make([]map[string]any, 0, len(room.Guests))
		for _, g := range room.Guests {
			guests = append(guests, map[string]any{"name": g.Name, "phone": g.Phone})
		}
		consumption := make([]map[string]any, 0, len(room.Consumption))
		for _, item := range room.Consumption {
			consumption = append(consumption, map[string]any{
				"id":          item.ID,
				"productId":   strconv.FormatInt(item.ProductID, 10),
				"productName": item.ProductName,
				"qty":         item.Qty,
				"unitPrice":   item.UnitPrice.Amount,
				"total":       item.Total.Amount,
				"touchedAt":   item.TouchedAt.Format(time.RFC3339),
			})
		}
		rooms = append(rooms, map[string]any{
			"roomId":      strconv.FormatInt(room.RoomID, 10),
			"roomNumber":  room.RoomNumber,
			"guests":      guests,
			"consumption": consumption,
		})
	}

	resp := map[string]any{
		"id":            strconv.FormatInt(res.ID, 10),
		"referenceCode": res.ReferenceCode,
		"contactName":   res.ContactName,
		"checkInDate":   formatOptionalDate(res.CheckInDate),
		"checkOutDate":  formatOptionalDate(res.CheckOutDate),
		"status":        string(res.Status),
		"rooms":         rooms,
		"boatIds":       formatIDs(res.BoatIDs),
		"guideIds":      formatIDs(res.GuideIDs),
		"packageValue":  res.PackageValue.Amount,
		"paidAmount":    res.PaidAmount.Amount,
		"payments":      toPaymentResponses(res.Payments),
		"notes":         res.Notes,
	}
	if res.DealID != nil {
		resp["dealId"] = strconv.FormatInt(*res.DealID, 10)
	}
	return resp
}

func formatIDs(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}
