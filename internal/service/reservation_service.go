package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("invalid reservation status change")
	ErrInvalidPayment      = errors.New("payment amount must be positive")
)

// ProductCatalog resolves the frozen unit price for new consumption lines.
type ProductCatalog interface {
	GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Product, error)
}

// ReservationService owns the front-desk mutations: status advance,
// consumption ledger and the reservation's own payment ledger.
type ReservationService struct {
	Reservations ReservationStore
	Products     ProductCatalog
	Rooms        ResourceStatusStore
	Boats        ResourceStatusStore
	Guides       ResourceStatusStore
	Logger       *slog.Logger
}

// AdjustConsumption applies a quantity delta to one room's tab. Missing
// reservation, room or (on decrement) line are silent no-ops: the front desk
// may be driving buttons against a record someone else already closed.
func (s ReservationService) AdjustConsumption(ctx context.Context, tenantID int64, reservationID, roomID, productID int64, delta int) (*domain.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	room := res.FindRoom(roomID)
	if room == nil {
		return res, nil
	}

	// The catalog is only consulted when a brand-new line is created;
	// existing lines keep their frozen unit price.
	var catalogPrice int64
	productName := ""
	if existing := findLine(room.Consumption, productID); existing == nil {
		if delta <= 0 {
			return res, nil
		}
		product, err := s.Products.GetByID(ctx, tenantID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return res, nil
			}
			return nil, err
		}
		catalogPrice = product.Price.Amount
		productName = product.Name
	}

	items, changed := domain.ApplyConsumptionDelta(room.Consumption, uuid.NewString(), productID, productName, catalogPrice, delta, time.Now())
	if !changed {
		return res, nil
	}
	room.Consumption = items

	if err := s.Reservations.ReplaceRoomConsumption(ctx, tenantID, reservationID, roomID, items); err != nil {
		return nil, err
	}
	return res, nil
}

func findLine(items []domain.ConsumptionItem, productID int64) *domain.ConsumptionItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

// ChangeStatus advances the reservation. Checking out or cancelling releases
// the allocated rooms, boats and guides in the same transaction.
func (s ReservationService) ChangeStatus(ctx context.Context, tenantID int64, reservationID int64, to domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !domain.CanTransition(res.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, to)
	}

	var after func(context.Context, pgx.Tx) error
	switch to {
	case domain.ReservationCheckedOut, domain.ReservationCancelled:
		roomIDs := make([]int64, 0, len(res.Rooms))
		for _, rm := range res.Rooms {
			roomIDs = append(roomIDs, rm.RoomID)
		}
		after = func(ctx context.Context, tx pgx.Tx) error {
			if err := s.Rooms.SetStatusTx(ctx, tx, tenantID, roomIDs, domain.ResourceAvailable); err != nil {
				return err
			}
			if err := s.Boats.SetStatusTx(ctx, tx, tenantID, res.BoatIDs, domain.ResourceAvailable); err != nil {
				return err
			}
			return s.Guides.SetStatusTx(ctx, tx, tenantID, res.GuideIDs, domain.ResourceAvailable)
		}
	case domain.ReservationCheckedIn:
		roomIDs := make([]int64, 0, len(res.Rooms))
		for _, rm := range res.Rooms {
			roomIDs = append(roomIDs, rm.RoomID)
		}
		after = func(ctx context.Context, tx pgx.Tx) error {
			if err := s.Rooms.SetStatusTx(ctx, tx, tenantID, roomIDs, domain.ResourceOccupied); err != nil {
				return err
			}
			if err := s.Boats.SetStatusTx(ctx, tx, tenantID, res.BoatIDs, domain.ResourceOccupied); err != nil {
				return err
			}
			return s.Guides.SetStatusTx(ctx, tx, tenantID, res.GuideIDs, domain.ResourceBusy)
		}
	}

	if err := s.Reservations.SetStatus(ctx, tenantID, reservationID, to, after); err != nil {
		return nil, err
	}
	s.Logger.Info("reservation status changed", "reservation", reservationID, "from", res.Status, "to", to)
	res.Status = to
	return res, nil
}

// AddPayment records a payment on the reservation's own ledger. The deal's
// historical ledger is not touched: the two are independent after check-in.
func (s ReservationService) AddPayment(ctx context.Context, tenantID int64, reservationID int64, in AddPaymentInput) (*domain.Reservation, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidPayment
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.Method == "" {
		in.Method = "Pix"
	}
	p := domain.Payment{ID: uuid.NewString(), Amount: domain.Money{Amount: in.Amount}, Date: in.Date, Method: in.Method, Notes: in.Notes}
	if err := s.Reservations.AddPayment(ctx, tenantID, reservationID, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return s.Reservations.GetByID(ctx, tenantID, reservationID)
}

func (s ReservationService) RemovePayment(ctx context.Context, tenantID int64, reservationID int64, paymentID string) (*domain.Reservation, error) {
	if err := s.Reservations.RemovePayment(ctx, tenantID, reservationID, paymentID); err != nil {
		return nil, err
	}
	res, err := s.Reservations.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}
