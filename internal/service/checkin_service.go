package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

// ErrAlreadyCheckedIn rejects a second capture commit for a deal that has
// already produced its reservation.
var ErrAlreadyCheckedIn = errors.New("deal already checked in")

// CheckinDealStore is the slice of the deal repository the capture flow needs.
type CheckinDealStore interface {
	GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Deal, error)
	SetStageTx(ctx context.Context, tx pgx.Tx, tenantID int64, id int64, stage domain.DealStage) error
}

// ReservationStore is the slice of the reservation repository shared by the
// capture commit and the front-desk mutations.
type ReservationStore interface {
	Create(ctx context.Context, tenantID int64, res domain.Reservation, after func(context.Context, pgx.Tx) error) (*domain.Reservation, error)
	GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Reservation, error)
	SetStatus(ctx context.Context, tenantID int64, id int64, status domain.ReservationStatus, after func(context.Context, pgx.Tx) error) error
	ReplaceRoomConsumption(ctx context.Context, tenantID int64, reservationID, roomID int64, items []domain.ConsumptionItem) error
	AddPayment(ctx context.Context, tenantID int64, reservationID int64, p domain.Payment) error
	RemovePayment(ctx context.Context, tenantID int64, reservationID int64, paymentID string) error
}

// RoomStore adds the number-snapshot lookup on top of the status flip.
type RoomStore interface {
	ListByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.Room, error)
	SetStatusTx(ctx context.Context, tx pgx.Tx, tenantID int64, ids []int64, status domain.ResourceStatus) error
}

// ResourceStatusStore flips the registry status of boats and guides.
type ResourceStatusStore interface {
	SetStatusTx(ctx context.Context, tx pgx.Tx, tenantID int64, ids []int64, status domain.ResourceStatus) error
}

// CheckinService commits the capture wizard: it turns a deal (or a manual
// front-desk booking) plus a resource selection into a persisted reservation.
// Everything before Commit is wizard-local state owned by the client;
// cancelling a wizard therefore needs no server call.
type CheckinService struct {
	Deals        CheckinDealStore
	Reservations ReservationStore
	Rooms        RoomStore
	Boats        ResourceStatusStore
	Guides       ResourceStatusStore
	Logger       *slog.Logger
}

type CheckinInput struct {
	DealID   *int64
	RoomIDs  []int64
	BoatIDs  []int64
	GuideIDs []int64
	Guests   map[int64][]domain.Guest

	// Manual front-desk variant only; ignored when DealID is set.
	ContactName  string
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	PackageValue int64
	Payments     []AddPaymentInput
	Notes        string
}

// Commit runs the wizard's terminal confirmation step in one transaction:
// reservation insert, deal stage commit (CRM path) and resource status flip.
func (s CheckinService) Commit(ctx context.Context, tenantID int64, in CheckinInput) (*domain.Reservation, error) {
	var deal *domain.Deal
	if in.DealID != nil {
		var err error
		deal, err = s.Deals.GetByID(ctx, tenantID, *in.DealID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrDealNotFound
			}
			return nil, err
		}
		// A deal reaches this stage only through a committed capture, so a
		// second commit would duplicate its reservation.
		if deal.Stage == domain.StageCheckin {
			return nil, ErrAlreadyCheckedIn
		}
	}

	rooms, err := s.Rooms.ListByIDs(ctx, tenantID, in.RoomIDs)
	if err != nil {
		return nil, err
	}

	var payments []domain.Payment
	for _, p := range in.Payments {
		if p.Amount <= 0 {
			continue
		}
		date := p.Date
		if date.IsZero() {
			date = time.Now()
		}
		payments = append(payments, domain.Payment{
			ID:     uuid.NewString(),
			Amount: domain.Money{Amount: p.Amount},
			Date:   date,
			Method: p.Method,
			Notes:  p.Notes,
		})
	}

	sel := domain.CheckinSelection{
		Rooms:    rooms,
		BoatIDs:  in.BoatIDs,
		GuideIDs: in.GuideIDs,
		Guests:   in.Guests,
	}
	res, err := domain.BuildReservation(deal, sel, in.ContactName, in.CheckInDate, in.CheckOutDate,
		in.PackageValue, payments, in.Notes, uuid.NewString(), time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.Reservations.Create(ctx, tenantID, res, func(ctx context.Context, tx pgx.Tx) error {
		if deal != nil {
			if err := s.Deals.SetStageTx(ctx, tx, tenantID, deal.ID, domain.StageCheckin); err != nil {
				return err
			}
		}
		if err := s.Rooms.SetStatusTx(ctx, tx, tenantID, in.RoomIDs, domain.ResourceOccupied); err != nil {
			return err
		}
		if err := s.Boats.SetStatusTx(ctx, tx, tenantID, in.BoatIDs, domain.ResourceOccupied); err != nil {
			return err
		}
		return s.Guides.SetStatusTx(ctx, tx, tenantID, in.GuideIDs, domain.ResourceBusy)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("check-in committed",
		"reservation", created.ID,
		"deal", in.DealID,
		"rooms", len(created.Rooms),
		"guests", created.GuestCount(),
	)
	return created, nil
}
