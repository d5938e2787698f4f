package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

// resourceKind binds one lodge resource collection (rooms, boats, guides,
// products) to its typed repository. Each kind decodes its own payload, so a
// boat field can never land in a room row.
type resourceKind struct {
	list          func(ctx context.Context, tenantID int64) ([]map[string]any, error)
	listAvailable func(ctx context.Context, tenantID int64) ([]map[string]any, error)
	save          func(ctx context.Context, tenantID, id int64, body []byte) (map[string]any, error)
	delete        func(ctx context.Context, tenantID, id int64) error
}

type ResourceHandler struct {
	Rooms    repository.RoomRepository
	Boats    repository.BoatRepository
	Guides   repository.GuideRepository
	Products repository.ProductRepository

	kinds map[string]resourceKind
}

func NewResourceHandler(rooms repository.RoomRepository, boats repository.BoatRepository, guides repository.GuideRepository, products repository.ProductRepository) *ResourceHandler {
	h := &ResourceHandler{Rooms: rooms, Boats: boats, Guides: guides, Products: products}
	h.kinds = map[string]resourceKind{
		"rooms": {
			list:          mapList(rooms.List, toRoomResponse),
			listAvailable: mapList(rooms.ListAvailable, toRoomResponse),
			save: func(ctx context.Context, tenantID, id int64, body []byte) (map[string]any, error) {
				var req struct {
					Number string `json:"number"`
					Type   string `json:"type"`
					Beds   int    `json:"beds"`
					Price  int64  `json:"price"`
					Status string `json:"status"`
				}
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, err
				}
				saved, err := rooms.Save(ctx, tenantID, domain.Room{
					ID:     id,
					Number: req.Number,
					Type:   req.Type,
					Beds:   req.Beds,
					Price:  domain.Money{Amount: req.Price},
					Status: resourceStatusOrDefault(req.Status, domain.ResourceAvailable, domain.ResourceOccupied, domain.ResourceMaintenance),
				})
				if err != nil {
					return nil, err
				}
				return toRoomResponse(*saved), nil
			},
			delete: rooms.Delete,
		},
		"boats": {
			list:          mapList(boats.List, toBoatResponse),
			listAvailable: mapList(boats.ListAvailable, toBoatResponse),
			save: func(ctx context.Context, tenantID, id int64, body []byte) (map[string]any, error) {
				var req struct {
					Name     string `json:"name"`
					Capacity int    `json:"capacity"`
					Price    int64  `json:"price"`
					Status   string `json:"status"`
				}
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, err
				}
				saved, err := boats.Save(ctx, tenantID, domain.Boat{
					ID:       id,
					Name:     req.Name,
					Capacity: req.Capacity,
					Price:    domain.Money{Amount: req.Price},
					Status:   resourceStatusOrDefault(req.Status, domain.ResourceAvailable, domain.ResourceOccupied, domain.ResourceMaintenance),
				})
				if err != nil {
					return nil, err
				}
				return toBoatResponse(*saved), nil
			},
			delete: boats.Delete,
		},
		"guides": {
			list:          mapList(guides.List, toGuideResponse),
			listAvailable: mapList(guides.ListAvailable, toGuideResponse),
			save: func(ctx context.Context, tenantID, id int64, body []byte) (map[string]any, error) {
				var req struct {
					Name      string `json:"name"`
					Phone     string `json:"phone"`
					Specialty string `json:"specialty"`
					DailyRate int64  `json:"dailyRate"`
					Status    string `json:"status"`
				}
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, err
				}
				saved, err := guides.Save(ctx, tenantID, domain.Guide{
					ID:        id,
					Name:      req.Name,
					Phone:     req.Phone,
					Specialty: req.Specialty,
					DailyRate: domain.Money{Amount: req.DailyRate},
					Status:    resourceStatusOrDefault(req.Status, domain.ResourceAvailable, domain.ResourceBusy),
				})
				if err != nil {
					return nil, err
				}
				return toGuideResponse(*saved), nil
			},
			delete: guides.Delete,
		},
		"products": {
			list: mapList(products.List, toProductResponse),
			save: func(ctx context.Context, tenantID, id int64, body []byte) (map[string]any, error) {
				var req struct {
					Name     string `json:"name"`
					Category string `json:"category"`
					Price    int64  `json:"price"`
					Stock    int    `json:"stock"`
				}
				if err := json.Unmarshal(body, &req); err != nil {
					return nil, err
				}
				saved, err := products.Save(ctx, tenantID, domain.Product{
					ID:       id,
					Name:     req.Name,
					Category: req.Category,
					Price:    domain.Money{Amount: req.Price},
					Stock:    req.Stock,
				})
				if err != nil {
					return nil, err
				}
				return toProductResponse(*saved), nil
			},
			delete: products.Delete,
		},
	}
	return h
}

func (h *ResourceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/resources/{kind}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/available", h.listAvailable)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ResourceHandler) kind(w http.ResponseWriter, r *http.Request) (resourceKind, bool) {
	k, ok := h.kinds[chi.URLParam(r, "kind")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown resource kind")
	}
	return k, ok
}

func (h *ResourceHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	items, err := k.list(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ResourceHandler) listAvailable(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k.listAvailable == nil {
		writeError(w, http.StatusNotFound, "kind has no availability")
		return
	}
	items, err := k.listAvailable(r.Context(), user.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ResourceHandler) create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, 0, http.StatusCreated)
}

func (h *ResourceHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.save(w, r, id, http.StatusOK)
}

func (h *ResourceHandler) save(w http.ResponseWriter, r *http.Request, id int64, okStatus int) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	saved, err := k.save(r.Context(), user.TenantID, id, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, okStatus, saved)
}

func (h *ResourceHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := k.delete(r.Context(), user.TenantID, id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// mapList adapts a typed repository listing to the wire shape.
func mapList[T any](list func(context.Context, int64) ([]T, error), convert func(T) map[string]any) func(context.Context, int64) ([]map[string]any, error) {
	return func(ctx context.Context, tenantID int64) ([]map[string]any, error) {
		items, err := list(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			out = append(out, convert(item))
		}
		return out, nil
	}
}

// resourceStatusOrDefault validates the status against the set the kind
// supports. Rooms and boats cycle available/occupied/maintenance, guides only
// available/busy; anything else falls back to available.
func resourceStatusOrDefault(s string, allowed ...domain.ResourceStatus) domain.ResourceStatus {
	for _, a := range allowed {
		if domain.ResourceStatus(s) == a {
			return a
		}
	}
	return domain.ResourceAvailable
}

func toRoomResponse(rm domain.Room) map[string]any {
	return map[string]any{
		"id":     strconv.FormatInt(rm.ID, 10),
		"number": rm.Number,
		"type":   rm.Type,
		"beds":   rm.Beds,
		"price":  rm.Price.Amount,
		"status": string(rm.Status),
	}
}

func toBoatResponse(b domain.Boat) map[string]any {
	return map[string]any{
		"id":       strconv.FormatInt(b.ID, 10),
		"name":     b.Name,
		"capacity": b.Capacity,
		"price":    b.Price.Amount,
		"status":   string(b.Status),
	}
}

func toGuideResponse(g domain.Guide) map[string]any {
	return map[string]any{
		"id":        strconv.FormatInt(g.ID, 10),
		"name":      g.Name,
		"phone":     g.Phone,
		"specialty": g.Specialty,
		"dailyRate": g.DailyRate.Amount,
		"status":    string(g.Status),
	}
}

func toProductResponse(p domain.Product) map[string]any {
	return map[string]any{
		"id":       strconv.FormatInt(p.ID, 10),
		"name":     p.Name,
		"category": p.Category,
		"price":    p.Price.Amount,
		"stock":    p.Stock,
	}
}
