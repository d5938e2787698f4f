package service

import (
	"context"
	"errors"
	"testing"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

type fakeProductCatalog struct {
	products map[int64]domain.Product
	lookups  int
}

func (s *fakeProductCatalog) GetByID(_ context.Context, _ int64, id int64) (*domain.Product, error) {
	s.lookups++
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func seedReservation(status domain.ReservationStatus) domain.Reservation {
	return domain.Reservation{
		ID:          1,
		TenantID:    1,
		ContactName: "João Pescador",
		Status:      status,
		Rooms: []domain.AllocatedRoom{{
			RoomID:     3,
			RoomNumber: "101",
			Consumption: []domain.ConsumptionItem{
				{ID: "c1", ProductID: 20, ProductName: "Cerveja", Qty: 2, UnitPrice: domain.Money{Amount: 1200}},
			},
		}},
		BoatIDs:  []int64{5},
		GuideIDs: []int64{9},
	}
}

func newReservationFixture(status domain.ReservationStatus) (ReservationService, *fakeReservationStore, *fakeProductCatalog, *fakeStatusStore, *fakeStatusStore, *fakeStatusStore) {
	reservations := newFakeReservationStore(seedReservation(status))
	products := &fakeProductCatalog{products: map[int64]domain.Product{
		20: {ID: 20, Name: "Cerveja", Price: domain.Money{Amount: 1500}},
		21: {ID: 21, Name: "Isca viva", Price: domain.Money{Amount: 800}},
	}}
	rooms := &fakeStatusStore{}
	boats := &fakeStatusStore{}
	guides := &fakeStatusStore{}
	svc := ReservationService{Reservations: reservations, Products: products, Rooms: rooms, Boats: boats, Guides: guides, Logger: testLogger()}
	return svc, reservations, products, rooms, boats, guides
}

func TestReservationChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("checkout releases rooms, boats and guides", func(t *testing.T) {
		svc, reservations, _, rooms, boats, guides := newReservationFixture(domain.ReservationCheckedIn)

		res, err := svc.ChangeStatus(ctx, 1, 1, domain.ReservationCheckedOut)
		if err != nil {
			t.Fatalf("ChangeStatus: %v", err)
		}
		if res.Status != domain.ReservationCheckedOut {
			t.Errorf("status = %s, want checked-out", res.Status)
		}
		for name, store := range map[string]*fakeStatusStore{"rooms": rooms, "boats": boats, "guides": guides} {
			if got := store.lastStatus(t); got != domain.ResourceAvailable {
				t.Errorf("%s status = %s, want available", name, got)
			}
		}
		if len(reservations.statusSet) != 1 {
			t.Fatalf("statusSet = %v, want one write", reservations.statusSet)
		}
	})

	t.Run("cancel releases as well", func(t *testing.T) {
		svc, _, _, rooms, _, guides := newReservationFixture(domain.ReservationConfirmed)

		if _, err := svc.ChangeStatus(ctx, 1, 1, domain.ReservationCancelled); err != nil {
			t.Fatalf("ChangeStatus: %v", err)
		}
		if got := rooms.lastStatus(t); got != domain.ResourceAvailable {
			t.Errorf("room status = %s, want available", got)
		}
		if got := guides.lastStatus(t); got != domain.ResourceAvailable {
			t.Errorf("guide status = %s, want available", got)
		}
	})

	t.Run("confirmed to checked-in occupies the allocation", func(t *testing.T) {
		svc, _, _, rooms, boats, guides := newReservationFixture(domain.ReservationConfirmed)

		if _, err := svc.ChangeStatus(ctx, 1, 1, domain.ReservationCheckedIn); err != nil {
			t.Fatalf("ChangeStatus: %v", err)
		}
		if got := rooms.lastStatus(t); got != domain.ResourceOccupied {
			t.Errorf("room status = %s, want occupied", got)
		}
		if got := boats.lastStatus(t); got != domain.ResourceOccupied {
			t.Errorf("boat status = %s, want occupied", got)
		}
		if got := guides.lastStatus(t); got != domain.ResourceBusy {
			t.Errorf("guide status = %s, want busy", got)
		}
	})

	t.Run("reopening a closed stay is rejected", func(t *testing.T) {
		svc, reservations, _, rooms, _, _ := newReservationFixture(domain.ReservationCheckedOut)

		_, err := svc.ChangeStatus(ctx, 1, 1, domain.ReservationCheckedIn)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
		if len(reservations.statusSet) != 0 || len(rooms.calls) != 0 {
			t.Error("rejected transition must not persist anything")
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc, _, _, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		_, err := svc.ChangeStatus(ctx, 1, 404, domain.ReservationCheckedOut)
		if !errors.Is(err, ErrReservationNotFound) {
			t.Fatalf("err = %v, want ErrReservationNotFound", err)
		}
	})
}

func TestReservationAdjustConsumption(t *testing.T) {
	ctx := context.Background()

	t.Run("new line freezes the catalog price", func(t *testing.T) {
		svc, reservations, _, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		res, err := svc.AdjustConsumption(ctx, 1, 1, 3, 21, 2)
		if err != nil {
			t.Fatalf("AdjustConsumption: %v", err)
		}
		line := findLine(res.Rooms[0].Consumption, 21)
		if line == nil {
			t.Fatal("expected a new line for product 21")
		}
		if line.UnitPrice.Amount != 800 || line.Qty != 2 {
			t.Errorf("line = %d x %d, want 2 x 800", line.Qty, line.UnitPrice.Amount)
		}
		if len(reservations.consumption[3]) != 2 {
			t.Errorf("persisted %d lines, want 2", len(reservations.consumption[3]))
		}
	})

	t.Run("existing line keeps its frozen price", func(t *testing.T) {
		svc, _, products, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		res, err := svc.AdjustConsumption(ctx, 1, 1, 3, 20, 1)
		if err != nil {
			t.Fatalf("AdjustConsumption: %v", err)
		}
		line := findLine(res.Rooms[0].Consumption, 20)
		if line.Qty != 3 {
			t.Errorf("qty = %d, want 3", line.Qty)
		}
		if line.UnitPrice.Amount != 1200 {
			t.Errorf("unit price = %d, want frozen 1200 despite catalog 1500", line.UnitPrice.Amount)
		}
		if products.lookups != 0 {
			t.Errorf("catalog consulted %d times for an existing line, want 0", products.lookups)
		}
	})

	t.Run("decrement without a line is a silent no-op", func(t *testing.T) {
		svc, reservations, products, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		if _, err := svc.AdjustConsumption(ctx, 1, 1, 3, 21, -1); err != nil {
			t.Fatalf("AdjustConsumption: %v", err)
		}
		if len(reservations.consumption) != 0 || products.lookups != 0 {
			t.Error("nothing should be written or looked up")
		}
	})

	t.Run("unknown reservation or room is a silent no-op", func(t *testing.T) {
		svc, reservations, _, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		if _, err := svc.AdjustConsumption(ctx, 1, 404, 3, 20, 1); err != nil {
			t.Fatalf("AdjustConsumption: %v", err)
		}
		if _, err := svc.AdjustConsumption(ctx, 1, 1, 999, 20, 1); err != nil {
			t.Fatalf("AdjustConsumption: %v", err)
		}
		if len(reservations.consumption) != 0 {
			t.Error("nothing should be written")
		}
	})
}

func TestReservationPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		svc, reservations, _, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		_, err := svc.AddPayment(ctx, 1, 1, AddPaymentInput{Amount: 0})
		if !errors.Is(err, ErrInvalidPayment) {
			t.Fatalf("err = %v, want ErrInvalidPayment", err)
		}
		if len(reservations.payments) != 0 {
			t.Error("rejected payment must not persist")
		}
	})

	t.Run("defaults fill the method and date", func(t *testing.T) {
		svc, reservations, _, _, _, _ := newReservationFixture(domain.ReservationCheckedIn)

		if _, err := svc.AddPayment(ctx, 1, 1, AddPaymentInput{Amount: 5000}); err != nil {
			t.Fatalf("AddPayment: %v", err)
		}
		if len(reservations.payments) != 1 {
			t.Fatalf("payments = %d, want 1", len(reservations.payments))
		}
		p := reservations.payments[0]
		if p.Method != "Pix" || p.Date.IsZero() || p.ID == "" {
			t.Errorf("payment defaults not applied: %+v", p)
		}
	})
}
