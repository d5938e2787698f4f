package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

type fakeCheckinDeals struct {
	deals  map[int64]*domain.Deal
	stages []domain.DealStage
}

func (s *fakeCheckinDeals) GetByID(_ context.Context, _ int64, id int64) (*domain.Deal, error) {
	d, ok := s.deals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *fakeCheckinDeals) SetStageTx(_ context.Context, _ pgx.Tx, _ int64, id int64, stage domain.DealStage) error {
	s.deals[id].Stage = stage
	s.stages = append(s.stages, stage)
	return nil
}

type fakeReservationStore struct {
	created      []domain.Reservation
	reservations map[int64]*domain.Reservation
	statusSet    []domain.ReservationStatus
	consumption  map[int64][]domain.ConsumptionItem
	payments     []domain.Payment
	nextID       int64
}

func newFakeReservationStore(seed ...domain.Reservation) *fakeReservationStore {
	s := &fakeReservationStore{reservations: map[int64]*domain.Reservation{}, consumption: map[int64][]domain.ConsumptionItem{}, nextID: 1}
	for _, res := range seed {
		res := res
		if res.ID == 0 {
			res.ID = s.nextID
		}
		s.reservations[res.ID] = &res
		if res.ID >= s.nextID {
			s.nextID = res.ID + 1
		}
	}
	return s
}

func (s *fakeReservationStore) Create(ctx context.Context, _ int64, res domain.Reservation, after func(context.Context, pgx.Tx) error) (*domain.Reservation, error) {
	res.ID = s.nextID
	s.nextID++
	if after != nil {
		if err := after(ctx, nil); err != nil {
			return nil, err
		}
	}
	s.created = append(s.created, res)
	s.reservations[res.ID] = &res
	return &res, nil
}

func (s *fakeReservationStore) GetByID(_ context.Context, _ int64, id int64) (*domain.Reservation, error) {
	res, ok := s.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *res
	return &copied, nil
}

func (s *fakeReservationStore) SetStatus(ctx context.Context, _ int64, id int64, status domain.ReservationStatus, after func(context.Context, pgx.Tx) error) error {
	res, ok := s.reservations[id]
	if !ok {
		return repository.ErrNotFound
	}
	if after != nil {
		if err := after(ctx, nil); err != nil {
			return err
		}
	}
	res.Status = status
	s.statusSet = append(s.statusSet, status)
	return nil
}

func (s *fakeReservationStore) ReplaceRoomConsumption(_ context.Context, _ int64, _ int64, roomID int64, items []domain.ConsumptionItem) error {
	s.consumption[roomID] = items
	return nil
}

func (s *fakeReservationStore) AddPayment(_ context.Context, _ int64, id int64, p domain.Payment) error {
	if _, ok := s.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	s.payments = append(s.payments, p)
	return nil
}

func (s *fakeReservationStore) RemovePayment(_ context.Context, _ int64, id int64, paymentID string) error {
	if _, ok := s.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	res := s.reservations[id]
	kept := res.Payments[:0]
	for _, p := range res.Payments {
		if p.ID != paymentID {
			kept = append(kept, p)
		}
	}
	res.Payments = kept
	return nil
}

type fakeRoomStore struct {
	rooms map[int64]domain.Room
	fakeStatusStore
}

func (s *fakeRoomStore) ListByIDs(_ context.Context, _ int64, ids []int64) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(ids))
	for _, id := range ids {
		if rm, ok := s.rooms[id]; ok {
			out = append(out, rm)
		}
	}
	return out, nil
}

type statusCall struct {
	ids    []int64
	status domain.ResourceStatus
}

type fakeStatusStore struct {
	calls []statusCall
}

func (s *fakeStatusStore) SetStatusTx(_ context.Context, _ pgx.Tx, _ int64, ids []int64, status domain.ResourceStatus) error {
	if len(ids) > 0 {
		s.calls = append(s.calls, statusCall{ids: ids, status: status})
	}
	return nil
}

func (s *fakeStatusStore) lastStatus(t *testing.T) domain.ResourceStatus {
	t.Helper()
	if len(s.calls) == 0 {
		t.Fatal("expected a status flip")
	}
	return s.calls[len(s.calls)-1].status
}

func checkinDeal(stage domain.DealStage) *domain.Deal {
	checkIn := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 7, 13, 0, 0, 0, 0, time.UTC)
	return &domain.Deal{
		ID:          7,
		TenantID:    1,
		ContactName: "João Pescador",
		Value:       domain.Money{Amount: 150000, Currency: "BRL"},
		Stage:       stage,
		Budget:      &domain.Budget{CheckInDate: &checkIn, CheckOutDate: &checkOut, FishingDays: 3, People: 2},
		Payments:    []domain.Payment{{ID: "p1", Amount: domain.Money{Amount: 50000}, Method: "Pix"}},
	}
}

func newCheckinFixture(stage domain.DealStage) (CheckinService, *fakeCheckinDeals, *fakeReservationStore, *fakeRoomStore, *fakeStatusStore, *fakeStatusStore) {
	deals := &fakeCheckinDeals{deals: map[int64]*domain.Deal{7: checkinDeal(stage)}}
	reservations := newFakeReservationStore()
	rooms := &fakeRoomStore{rooms: map[int64]domain.Room{
		3: {ID: 3, Number: "101", Status: domain.ResourceAvailable},
	}}
	boats := &fakeStatusStore{}
	guides := &fakeStatusStore{}
	svc := CheckinService{Deals: deals, Reservations: reservations, Rooms: rooms, Boats: boats, Guides: guides, Logger: testLogger()}
	return svc, deals, reservations, rooms, boats, guides
}

func TestCheckinCommit(t *testing.T) {
	ctx := context.Background()
	dealID := int64(7)

	t.Run("commit from the pipeline snapshots the deal and flips resources", func(t *testing.T) {
		svc, deals, reservations, rooms, _, guides := newCheckinFixture(domain.StageReservation)

		res, err := svc.Commit(ctx, 1, CheckinInput{
			DealID:   &dealID,
			RoomIDs:  []int64{3},
			GuideIDs: []int64{9},
			Guests:   map[int64][]domain.Guest{3: {{Name: "João Pescador"}}},
		})
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if len(reservations.created) != 1 {
			t.Fatalf("created = %d, want 1", len(reservations.created))
		}
		if res.PackageValue.Amount != 150000 {
			t.Errorf("PackageValue = %d, want 150000", res.PackageValue.Amount)
		}
		if res.PaidAmount.Amount != 50000 {
			t.Errorf("PaidAmount = %d, want 50000", res.PaidAmount.Amount)
		}
		if got := deals.deals[dealID].Stage; got != domain.StageCheckin {
			t.Errorf("deal stage = %s, want checkin", got)
		}
		if got := rooms.lastStatus(t); got != domain.ResourceOccupied {
			t.Errorf("room status = %s, want occupied", got)
		}
		if got := guides.lastStatus(t); got != domain.ResourceBusy {
			t.Errorf("guide status = %s, want busy", got)
		}
	})

	t.Run("a second commit for the same deal is rejected", func(t *testing.T) {
		svc, _, reservations, _, _, _ := newCheckinFixture(domain.StageCheckin)

		_, err := svc.Commit(ctx, 1, CheckinInput{DealID: &dealID, RoomIDs: []int64{3}})
		if !errors.Is(err, ErrAlreadyCheckedIn) {
			t.Fatalf("err = %v, want ErrAlreadyCheckedIn", err)
		}
		if len(reservations.created) != 0 {
			t.Errorf("created = %d, want 0", len(reservations.created))
		}
	})

	t.Run("empty selection commits nothing", func(t *testing.T) {
		svc, deals, reservations, _, _, _ := newCheckinFixture(domain.StageReservation)

		_, err := svc.Commit(ctx, 1, CheckinInput{DealID: &dealID})
		if !errors.Is(err, domain.ErrNoResourcesSelected) {
			t.Fatalf("err = %v, want ErrNoResourcesSelected", err)
		}
		if len(reservations.created) != 0 || len(deals.stages) != 0 {
			t.Error("nothing should persist when the selection is empty")
		}
	})

	t.Run("manual booking needs no deal", func(t *testing.T) {
		svc, deals, reservations, _, _, _ := newCheckinFixture(domain.StageReservation)

		res, err := svc.Commit(ctx, 1, CheckinInput{
			RoomIDs:      []int64{3},
			ContactName:  "Maria Hóspede",
			PackageValue: 80000,
			Payments:     []AddPaymentInput{{Amount: 20000, Method: "Pix"}, {Amount: -5}},
		})
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if res.DealID != nil {
			t.Error("manual reservation should not reference a deal")
		}
		if len(deals.stages) != 0 {
			t.Error("manual commit must not touch the pipeline")
		}
		if res.PaidAmount.Amount != 20000 {
			t.Errorf("PaidAmount = %d, want 20000 (non-positive ignored)", res.PaidAmount.Amount)
		}
		if len(reservations.created) != 1 {
			t.Fatalf("created = %d, want 1", len(reservations.created))
		}
	})

	t.Run("unknown deal", func(t *testing.T) {
		svc, _, _, _, _, _ := newCheckinFixture(domain.StageReservation)
		missing := int64(404)

		_, err := svc.Commit(ctx, 1, CheckinInput{DealID: &missing, RoomIDs: []int64{3}})
		if !errors.Is(err, ErrDealNotFound) {
			t.Fatalf("err = %v, want ErrDealNotFound", err)
		}
	})
}
