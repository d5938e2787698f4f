package domain

import (
	"errors"
	"testing"
	"time"
)

func TestMoveStage(t *testing.T) {
	t.Run("forward and back", func(t *testing.T) {
		if got := MoveStage(StageNew, +1); got != StageWaiting {
			t.Fatalf("expected waiting, got %s", got)
		}
		if got := MoveStage(StageWaiting, -1); got != StageNew {
			t.Fatalf("expected new, got %s", got)
		}
	})

	t.Run("clamps at both ends", func(t *testing.T) {
		if got := MoveStage(StageFinished, +1); got != StageFinished {
			t.Fatalf("expected finished, got %s", got)
		}
		if got := MoveStage(StageNew, -1); got != StageNew {
			t.Fatalf("expected new, got %s", got)
		}
	})

	t.Run("lost is not part of the stepper", func(t *testing.T) {
		if got := MoveStage(StageLost, +1); got != StageLost {
			t.Fatalf("expected lost, got %s", got)
		}
	})
}

func TestRequiresCheckinCapture(t *testing.T) {
	if !RequiresCheckinCapture(StageReservation, StageCheckin) {
		t.Fatal("entering checkin must defer to the capture flow")
	}
	if RequiresCheckinCapture(StageCheckin, StageCheckin) {
		t.Fatal("already checked-in deals must not retrigger the flow")
	}
	if RequiresCheckinCapture(StageReservation, StageWaiting) {
		t.Fatal("other destinations commit immediately")
	}
}

func TestResolveBudgetItem(t *testing.T) {
	t.Run("from template", func(t *testing.T) {
		tpl := &BudgetTemplate{Name: "Diária", Description: "Pacote diário", UnitPrice: Money{Amount: 10000}}
		item, err := ResolveBudgetItem("id-1", tpl, "ignored", "ignored", 2, 999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Origin != ItemFromTemplate || item.Name != "Diária" {
			t.Fatalf("template fields not applied: %+v", item)
		}
		if item.Total.Amount != 20000 {
			t.Fatalf("expected total 20000, got %d", item.Total.Amount)
		}
	})

	t.Run("custom", func(t *testing.T) {
		item, err := ResolveBudgetItem("id-2", nil, "Isca viva", "", 3, 1500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Origin != ItemCustom || item.Total.Amount != 4500 {
			t.Fatalf("unexpected item: %+v", item)
		}
	})

	t.Run("empty resolved name fails", func(t *testing.T) {
		if _, err := ResolveBudgetItem("id-3", nil, "   ", "", 1, 100); !errors.Is(err, ErrEmptyItemName) {
			t.Fatalf("expected ErrEmptyItemName, got %v", err)
		}
	})

	t.Run("zero qty defaults to one", func(t *testing.T) {
		item, err := ResolveBudgetItem("id-4", nil, "Gelo", "", 0, 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Qty != 1 || item.Total.Amount != 500 {
			t.Fatalf("unexpected item: %+v", item)
		}
	})
}

func TestDealBudgetAndValue(t *testing.T) {
	t.Run("add item then remove", func(t *testing.T) {
		d := &Deal{}
		item, err := ResolveBudgetItem("it-1", nil, "Diária", "", 2, 10000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		d.AddBudgetItem(item)
		if item.Total.Amount != 20000 {
			t.Fatalf("expected line total 20000, got %d", item.Total.Amount)
		}
		if d.Budget.Total() != 20000 {
			t.Fatalf("expected budget total 20000, got %d", d.Budget.Total())
		}

		d.RemoveBudgetItem("it-1")
		if d.Budget.Total() != 0 {
			t.Fatalf("expected budget total 0 after remove, got %d", d.Budget.Total())
		}
	})

	t.Run("save restores value invariant", func(t *testing.T) {
		d := &Deal{Budget: &Budget{Items: []BudgetItem{
			{ID: "a", Name: "Diária", Qty: 2, UnitPrice: Money{Amount: 10000}},
			{ID: "b", Name: "Barco", Qty: 1, UnitPrice: Money{Amount: 5000}, Total: Money{Amount: 999}},
		}}}
		d.PrepareForSave(time.Now())
		if d.Value.Amount != 25000 {
			t.Fatalf("expected value 25000, got %d", d.Value.Amount)
		}
		for _, it := range d.Budget.Items {
			if it.Total.Amount != int64(it.Qty)*it.UnitPrice.Amount {
				t.Fatalf("line total out of sync: %+v", it)
			}
		}
	})

	t.Run("default note and tags when notes empty", func(t *testing.T) {
		d := &Deal{Budget: &Budget{FishingDays: 3, People: 4}}
		d.PrepareForSave(time.Now())
		if d.Notes == "" {
			t.Fatal("expected generated default note")
		}
		if len(d.Tags) != 2 {
			t.Fatalf("expected 2 default tags, got %v", d.Tags)
		}
	})

	t.Run("repeated saves do not duplicate default tags", func(t *testing.T) {
		d := &Deal{Budget: &Budget{FishingDays: 3, People: 4}}
		d.PrepareForSave(time.Now())
		d.Notes = ""
		d.PrepareForSave(time.Now())
		d.Notes = ""
		d.PrepareForSave(time.Now())
		if len(d.Tags) != 2 {
			t.Fatalf("expected 2 tags after repeated saves, got %v", d.Tags)
		}
	})

	t.Run("custom notes preserved", func(t *testing.T) {
		d := &Deal{Notes: "cliente VIP", Budget: &Budget{FishingDays: 3, People: 4}}
		d.PrepareForSave(time.Now())
		if d.Notes != "cliente VIP" {
			t.Fatalf("notes overwritten: %q", d.Notes)
		}
		if len(d.Tags) != 0 {
			t.Fatalf("tags generated despite custom notes: %v", d.Tags)
		}
	})
}

func TestDealPayments(t *testing.T) {
	t.Run("rejects non-positive amounts", func(t *testing.T) {
		d := &Deal{}
		if err := d.AddPayment(Payment{ID: "p0", Amount: Money{Amount: 0}}); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
		if err := d.AddPayment(Payment{ID: "p1", Amount: Money{Amount: -100}}); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("payment sufficiency", func(t *testing.T) {
		d := &Deal{Value: Money{Amount: 50000}}
		if err := d.AddPayment(Payment{ID: "p1", Amount: Money{Amount: 20000}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := d.AddPayment(Payment{ID: "p2", Amount: Money{Amount: 30000}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.TotalPaid() != 50000 {
			t.Fatalf("expected total paid 50000, got %d", d.TotalPaid())
		}
		if !d.IsPaid() {
			t.Fatal("expected deal to be paid")
		}
		if d.RemainingBalance() != 0 {
			t.Fatalf("expected zero balance, got %d", d.RemainingBalance())
		}
	})

	t.Run("zero-value deal is never paid", func(t *testing.T) {
		d := &Deal{}
		if d.IsPaid() {
			t.Fatal("empty deal must not count as paid")
		}
	})

	t.Run("remove payment", func(t *testing.T) {
		d := &Deal{Value: Money{Amount: 1000}}
		_ = d.AddPayment(Payment{ID: "p1", Amount: Money{Amount: 1000}})
		d.RemovePayment("p1")
		if d.TotalPaid() != 0 {
			t.Fatalf("expected 0 after remove, got %d", d.TotalPaid())
		}
	})
}
