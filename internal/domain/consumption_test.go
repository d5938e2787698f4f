package domain

import (
	"testing"
	"time"
)

func TestApplyConsumptionDelta(t *testing.T) {
	now := time.Now()

	t.Run("creates a line at catalog price", func(t *testing.T) {
		items, changed := ApplyConsumptionDelta(nil, "c1", 7, "Cerveja", 1200, 2, now)
		if !changed {
			t.Fatal("expected change")
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 line, got %d", len(items))
		}
		if items[0].Qty != 2 || items[0].UnitPrice.Amount != 1200 || items[0].Total.Amount != 2400 {
			t.Fatalf("unexpected line: %+v", items[0])
		}
	})

	t.Run("unit price stays frozen after catalog change", func(t *testing.T) {
		items, _ := ApplyConsumptionDelta(nil, "c1", 7, "Cerveja", 1000, 1, now)
		// Catalog price moves to 9999; further deltas must keep the original.
		items, _ = ApplyConsumptionDelta(items, "c2", 7, "Cerveja", 9999, 2, now)
		if items[0].UnitPrice.Amount != 1000 {
			t.Fatalf("unit price re-read from catalog: %d", items[0].UnitPrice.Amount)
		}
		if items[0].Qty != 3 || items[0].Total.Amount != 3000 {
			t.Fatalf("unexpected line: %+v", items[0])
		}
	})

	t.Run("delta then reverse is idempotent", func(t *testing.T) {
		base := []ConsumptionItem{{ID: "c1", ProductID: 7, Qty: 3, UnitPrice: Money{Amount: 500}, Total: Money{Amount: 1500}}}
		items, _ := ApplyConsumptionDelta(base, "c2", 7, "Água", 500, 2, now)
		items, _ = ApplyConsumptionDelta(items, "c3", 7, "Água", 500, -2, now)
		if len(items) != 1 || items[0].Qty != 3 || items[0].Total.Amount != 1500 {
			t.Fatalf("not restored: %+v", items)
		}
	})

	t.Run("fully reversed new line disappears", func(t *testing.T) {
		items, _ := ApplyConsumptionDelta(nil, "c1", 7, "Água", 500, 2, now)
		items, _ = ApplyConsumptionDelta(items, "c2", 7, "Água", 500, -2, now)
		if len(items) != 0 {
			t.Fatalf("expected empty, got %+v", items)
		}
	})

	t.Run("decrement to zero removes the line", func(t *testing.T) {
		base := []ConsumptionItem{{ID: "c1", ProductID: 9, Qty: 1, UnitPrice: Money{Amount: 1000}, Total: Money{Amount: 1000}}}
		items, changed := ApplyConsumptionDelta(base, "c2", 9, "Refrigerante", 1000, -1, now)
		if !changed || len(items) != 0 {
			t.Fatalf("expected line removed, got %+v", items)
		}
	})

	t.Run("decrement below zero also removes", func(t *testing.T) {
		base := []ConsumptionItem{{ID: "c1", ProductID: 9, Qty: 2, UnitPrice: Money{Amount: 1000}, Total: Money{Amount: 2000}}}
		items, _ := ApplyConsumptionDelta(base, "c2", 9, "Refrigerante", 1000, -5, now)
		if len(items) != 0 {
			t.Fatalf("expected line removed, got %+v", items)
		}
	})

	t.Run("decrementing a missing line is a no-op", func(t *testing.T) {
		items, changed := ApplyConsumptionDelta(nil, "c1", 9, "Refrigerante", 1000, -1, now)
		if changed || len(items) != 0 {
			t.Fatalf("expected no-op, got %+v", items)
		}
	})

	t.Run("other products untouched", func(t *testing.T) {
		base := []ConsumptionItem{
			{ID: "c1", ProductID: 1, Qty: 1, UnitPrice: Money{Amount: 100}, Total: Money{Amount: 100}},
			{ID: "c2", ProductID: 2, Qty: 1, UnitPrice: Money{Amount: 200}, Total: Money{Amount: 200}},
		}
		items, _ := ApplyConsumptionDelta(base, "c3", 1, "A", 100, -1, now)
		if len(items) != 1 || items[0].ProductID != 2 {
			t.Fatalf("wrong line removed: %+v", items)
		}
	})
}

func TestReservationRollup(t *testing.T) {
	res := &Reservation{
		PackageValue: Money{Amount: 100000},
		PaidAmount:   Money{Amount: 30000},
		Rooms: []AllocatedRoom{
			{RoomID: 1, Consumption: []ConsumptionItem{
				{Total: Money{Amount: 1200}},
				{Total: Money{Amount: 800}},
			}},
			{RoomID: 2, Consumption: []ConsumptionItem{
				{Total: Money{Amount: 500}},
			}},
		},
	}

	if got := res.ConsumptionTotal(); got != 2500 {
		t.Fatalf("expected consumption 2500, got %d", got)
	}
	if got := res.GrandTotal(); got != 102500 {
		t.Fatalf("expected grand total 102500, got %d", got)
	}
	if got := res.BalanceDue(); got != 72500 {
		t.Fatalf("expected balance 72500, got %d", got)
	}
	if res.FindRoom(2) == nil || res.FindRoom(99) != nil {
		t.Fatal("FindRoom lookup broken")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ReservationStatus
		ok       bool
	}{
		{ReservationConfirmed, ReservationCheckedIn, true},
		{ReservationConfirmed, ReservationCancelled, true},
		{ReservationCheckedIn, ReservationCheckedOut, true},
		{ReservationCheckedIn, ReservationCancelled, true},
		{ReservationConfirmed, ReservationCheckedOut, false},
		{ReservationCheckedOut, ReservationCheckedIn, false},
		{ReservationCancelled, ReservationConfirmed, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}
