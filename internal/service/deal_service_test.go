package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

type fakeDealStore struct {
	deals      map[int64]*domain.Deal
	nextID     int64
	stageCalls int
	updates    int
}

func newFakeDealStore(seed ...domain.Deal) *fakeDealStore {
	s := &fakeDealStore{deals: map[int64]*domain.Deal{}, nextID: 1}
	for _, d := range seed {
		d := d
		if d.ID == 0 {
			d.ID = s.nextID
		}
		s.deals[d.ID] = &d
		if d.ID >= s.nextID {
			s.nextID = d.ID + 1
		}
	}
	return s
}

func (s *fakeDealStore) GetByID(_ context.Context, _ int64, id int64) (*domain.Deal, error) {
	d, ok := s.deals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *fakeDealStore) Create(_ context.Context, _ int64, d domain.Deal) (*domain.Deal, error) {
	d.ID = s.nextID
	s.nextID++
	s.deals[d.ID] = &d
	return &d, nil
}

func (s *fakeDealStore) Update(_ context.Context, _ int64, d domain.Deal) (*domain.Deal, error) {
	if _, ok := s.deals[d.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	s.updates++
	s.deals[d.ID] = &d
	return &d, nil
}

func (s *fakeDealStore) SetStage(_ context.Context, _ int64, id int64, stage domain.DealStage) error {
	d, ok := s.deals[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.stageCalls++
	d.Stage = stage
	return nil
}

type fakeTemplateStore struct {
	templates map[int64]domain.BudgetTemplate
}

func (s fakeTemplateStore) GetByID(_ context.Context, _ int64, id int64) (*domain.BudgetTemplate, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &tpl, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDealServiceMove(t *testing.T) {
	t.Run("advances one stage and persists", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		change, err := svc.Move(context.Background(), 1, 1, +1)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if change.Stage != domain.StageWaiting || change.CheckinRequired {
			t.Fatalf("got %+v", change)
		}
		if store.deals[1].Stage != domain.StageWaiting {
			t.Fatalf("stage not persisted: %s", store.deals[1].Stage)
		}
	})

	t.Run("move past the first stage is a no-op", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		change, err := svc.Move(context.Background(), 1, 1, -1)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if change.Stage != domain.StageNew || store.stageCalls != 0 {
			t.Fatalf("expected no-op, got %+v with %d stage writes", change, store.stageCalls)
		}
	})

	t.Run("move into checkin is intercepted, nothing persisted", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageReservation})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		change, err := svc.Move(context.Background(), 1, 1, +1)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if !change.CheckinRequired {
			t.Fatal("expected CheckinRequired")
		}
		if change.Stage != domain.StageReservation {
			t.Fatalf("stage changed to %s before capture", change.Stage)
		}
		if store.stageCalls != 0 {
			t.Fatalf("stage was persisted %d times", store.stageCalls)
		}
	})

	t.Run("unknown deal", func(t *testing.T) {
		svc := DealService{Deals: newFakeDealStore(), Templates: fakeTemplateStore{}, Logger: testLogger()}
		if _, err := svc.Move(context.Background(), 1, 99, +1); !errors.Is(err, ErrDealNotFound) {
			t.Fatalf("got %v, want ErrDealNotFound", err)
		}
	})
}

func TestDealServiceSetStage(t *testing.T) {
	t.Run("direct jump skipping stages", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		change, err := svc.SetStage(context.Background(), 1, 1, domain.StageFinished)
		if err != nil {
			t.Fatalf("SetStage: %v", err)
		}
		if change.Stage != domain.StageFinished {
			t.Fatalf("got %s", change.Stage)
		}
	})

	t.Run("jump into checkin is intercepted too", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		change, err := svc.SetStage(context.Background(), 1, 1, domain.StageCheckin)
		if err != nil {
			t.Fatalf("SetStage: %v", err)
		}
		if !change.CheckinRequired || store.stageCalls != 0 {
			t.Fatalf("got %+v with %d stage writes", change, store.stageCalls)
		}
	})

	t.Run("lost is a valid direct stage", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageWaiting})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		change, err := svc.SetStage(context.Background(), 1, 1, domain.StageLost)
		if err != nil {
			t.Fatalf("SetStage: %v", err)
		}
		if change.Stage != domain.StageLost {
			t.Fatalf("got %s", change.Stage)
		}
	})

	t.Run("garbage stage rejected", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}
		if _, err := svc.SetStage(context.Background(), 1, 1, "frozen"); !errors.Is(err, ErrBadStage) {
			t.Fatalf("got %v, want ErrBadStage", err)
		}
	})
}

func TestDealServiceBudgetItems(t *testing.T) {
	templates := fakeTemplateStore{templates: map[int64]domain.BudgetTemplate{
		7: {ID: 7, Name: "Diária de pesca", Description: "Pacote completo", UnitPrice: domain.Money{Amount: 45000}},
	}}

	t.Run("template line takes catalog name and price", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: templates, Logger: testLogger()}

		tplID := int64(7)
		deal, err := svc.AddBudgetItem(context.Background(), 1, 1, AddBudgetItemInput{TemplateID: &tplID, Qty: 3})
		if err != nil {
			t.Fatalf("AddBudgetItem: %v", err)
		}
		if len(deal.Budget.Items) != 1 {
			t.Fatalf("got %d items", len(deal.Budget.Items))
		}
		item := deal.Budget.Items[0]
		if item.Name != "Diária de pesca" || item.UnitPrice.Amount != 45000 || item.Total.Amount != 135000 {
			t.Fatalf("got %+v", item)
		}
		if deal.Value.Amount != 135000 {
			t.Fatalf("deal value %d, want 135000", deal.Value.Amount)
		}
	})

	t.Run("custom line without a name is rejected", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: templates, Logger: testLogger()}

		_, err := svc.AddBudgetItem(context.Background(), 1, 1, AddBudgetItemInput{Name: "   ", Qty: 1, UnitPrice: 100})
		if !errors.Is(err, domain.ErrEmptyItemName) {
			t.Fatalf("got %v, want ErrEmptyItemName", err)
		}
		if store.updates != 0 {
			t.Fatal("deal was persisted despite invalid item")
		}
	})

	t.Run("removing a line recomputes the value", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageNew})
		svc := DealService{Deals: store, Templates: templates, Logger: testLogger()}

		tplID := int64(7)
		deal, err := svc.AddBudgetItem(context.Background(), 1, 1, AddBudgetItemInput{TemplateID: &tplID, Qty: 2})
		if err != nil {
			t.Fatalf("AddBudgetItem: %v", err)
		}
		deal, err = svc.RemoveBudgetItem(context.Background(), 1, 1, deal.Budget.Items[0].ID)
		if err != nil {
			t.Fatalf("RemoveBudgetItem: %v", err)
		}
		if len(deal.Budget.Items) != 0 || deal.Value.Amount != 0 {
			t.Fatalf("got %d items, value %d", len(deal.Budget.Items), deal.Value.Amount)
		}
	})
}

func TestDealServicePayments(t *testing.T) {
	t.Run("non-positive amount ignored without persisting", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageWaiting})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		deal, err := svc.AddPayment(context.Background(), 1, 1, AddPaymentInput{Amount: 0})
		if err != nil {
			t.Fatalf("AddPayment: %v", err)
		}
		if len(deal.Payments) != 0 || store.updates != 0 {
			t.Fatalf("got %d payments, %d updates", len(deal.Payments), store.updates)
		}
	})

	t.Run("defaults method to Pix and date to now", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageWaiting})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		deal, err := svc.AddPayment(context.Background(), 1, 1, AddPaymentInput{Amount: 30000})
		if err != nil {
			t.Fatalf("AddPayment: %v", err)
		}
		if len(deal.Payments) != 1 {
			t.Fatalf("got %d payments", len(deal.Payments))
		}
		p := deal.Payments[0]
		if p.Method != "Pix" || p.Date.IsZero() || p.ID == "" {
			t.Fatalf("got %+v", p)
		}
	})
}

func TestDealServiceSave(t *testing.T) {
	t.Run("value follows the budget and defaults are filled", func(t *testing.T) {
		store := newFakeDealStore()
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		deal, err := svc.Create(context.Background(), 1, SaveDealInput{
			ContactName: "João Pescador",
			Budget: &domain.Budget{
				FishingDays: 3,
				People:      2,
				Items: []domain.BudgetItem{
					{ID: "a", Name: "Diária", Qty: 3, UnitPrice: domain.Money{Amount: 45000}},
				},
			},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if deal.Stage != domain.StageNew {
			t.Fatalf("stage %s", deal.Stage)
		}
		if deal.Value.Amount != 135000 {
			t.Fatalf("value %d, want 135000", deal.Value.Amount)
		}
		if deal.Notes == "" || len(deal.Tags) == 0 {
			t.Fatalf("expected generated note and tags, got %q %v", deal.Notes, deal.Tags)
		}
	})

	t.Run("save keeps custom notes", func(t *testing.T) {
		store := newFakeDealStore(domain.Deal{ID: 1, Stage: domain.StageWaiting})
		svc := DealService{Deals: store, Templates: fakeTemplateStore{}, Logger: testLogger()}

		deal, err := svc.Save(context.Background(), 1, 1, SaveDealInput{
			ContactName: "Maria",
			Notes:       "Cliente prefere barco rápido",
		})
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if deal.Notes != "Cliente prefere barco rápido" {
			t.Fatalf("notes overwritten: %q", deal.Notes)
		}
	})
}
