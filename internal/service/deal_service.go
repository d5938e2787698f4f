package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
)

var (
	ErrDealNotFound = errors.New("deal not found")
	ErrBadStage     = errors.New("unknown stage")
)

// DealStore is the slice of the deal repository the pipeline needs.
type DealStore interface {
	GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Deal, error)
	Create(ctx context.Context, tenantID int64, d domain.Deal) (*domain.Deal, error)
	Update(ctx context.Context, tenantID int64, d domain.Deal) (*domain.Deal, error)
	SetStage(ctx context.Context, tenantID int64, id int64, stage domain.DealStage) error
}

// TemplateStore resolves catalog templates for budget line items.
type TemplateStore interface {
	GetByID(ctx context.Context, tenantID int64, id int64) (*domain.BudgetTemplate, error)
}

// DealService drives the sales pipeline: stage moves, budget edits, payment
// ledger and the save/value invariant.
type DealService struct {
	Deals     DealStore
	Templates TemplateStore
	Logger    *slog.Logger
}

// StageChange is the outcome of a stage move or direct stage set. When
// CheckinRequired is set, nothing was persisted: the caller must run the
// check-in capture flow, whose commit is what writes the stage.
type StageChange struct {
	Stage           domain.DealStage
	CheckinRequired bool
}

// Move advances or retreats the deal one stage. Moves past either end are
// no-ops; a move landing on checkin defers to the capture flow.
func (s DealService) Move(ctx context.Context, tenantID int64, dealID int64, direction int) (StageChange, error) {
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return StageChange{}, ErrDealNotFound
		}
		return StageChange{}, err
	}

	next := domain.MoveStage(deal.Stage, direction)
	if next == deal.Stage {
		return StageChange{Stage: deal.Stage}, nil
	}
	return s.commitStage(ctx, tenantID, deal, next)
}

// SetStage applies a direct stage selection from the edit form. The same
// checkin-interception rule applies.
func (s DealService) SetStage(ctx context.Context, tenantID int64, dealID int64, stage domain.DealStage) (StageChange, error) {
	if domain.StageIndex(stage) < 0 && stage != domain.StageLost {
		return StageChange{}, ErrBadStage
	}
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return StageChange{}, ErrDealNotFound
		}
		return StageChange{}, err
	}
	if stage == deal.Stage {
		return StageChange{Stage: deal.Stage}, nil
	}
	return s.commitStage(ctx, tenantID, deal, stage)
}

func (s DealService) commitStage(ctx context.Context, tenantID int64, deal *domain.Deal, next domain.DealStage) (StageChange, error) {
	if domain.RequiresCheckinCapture(deal.Stage, next) {
		return StageChange{Stage: deal.Stage, CheckinRequired: true}, nil
	}
	if err := s.Deals.SetStage(ctx, tenantID, deal.ID, next); err != nil {
		return StageChange{}, err
	}
	s.Logger.Info("deal stage changed", "deal", deal.ID, "from", deal.Stage, "to", next)
	return StageChange{Stage: next}, nil
}

type AddBudgetItemInput struct {
	TemplateID  *int64
	Name        string
	Description string
	Qty         int
	UnitPrice   int64
}

// AddBudgetItem resolves a line from a catalog template or from the custom
// fields and appends it to the deal's budget.
func (s DealService) AddBudgetItem(ctx context.Context, tenantID int64, dealID int64, in AddBudgetItemInput) (*domain.Deal, error) {
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	var tpl *domain.BudgetTemplate
	if in.TemplateID != nil {
		tpl, err = s.Templates.GetByID(ctx, tenantID, *in.TemplateID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	item, err := domain.ResolveBudgetItem(uuid.NewString(), tpl, in.Name, in.Description, in.Qty, in.UnitPrice)
	if err != nil {
		return nil, err
	}
	deal.AddBudgetItem(item)
	deal.Value = domain.Money{Amount: deal.Budget.Total(), Currency: deal.Value.Currency}
	return s.Deals.Update(ctx, tenantID, *deal)
}

// RemoveBudgetItem drops a line by id. No confirmation, unknown ids no-op.
func (s DealService) RemoveBudgetItem(ctx context.Context, tenantID int64, dealID int64, itemID string) (*domain.Deal, error) {
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	deal.RemoveBudgetItem(itemID)
	deal.Value = domain.Money{Amount: deal.Budget.Total(), Currency: deal.Value.Currency}
	return s.Deals.Update(ctx, tenantID, *deal)
}

type AddPaymentInput struct {
	Amount int64
	Date   time.Time
	Method string
	Notes  string
}

// AddPayment appends to the deal's ledger. Non-positive amounts are silently
// ignored, matching the entry form behavior.
func (s DealService) AddPayment(ctx context.Context, tenantID int64, dealID int64, in AddPaymentInput) (*domain.Deal, error) {
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.Method == "" {
		in.Method = "Pix"
	}
	p := domain.Payment{ID: uuid.NewString(), Amount: domain.Money{Amount: in.Amount}, Date: in.Date, Method: in.Method, Notes: in.Notes}
	if err := deal.AddPayment(p); err != nil {
		s.Logger.Warn("payment ignored", "deal", dealID, "amount", in.Amount)
		return deal, nil
	}
	return s.Deals.Update(ctx, tenantID, *deal)
}

func (s DealService) RemovePayment(ctx context.Context, tenantID int64, dealID int64, paymentID string) (*domain.Deal, error) {
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	deal.RemovePayment(paymentID)
	return s.Deals.Update(ctx, tenantID, *deal)
}

type SaveDealInput struct {
	ContactName  string
	ContactPhone string
	Notes        string
	Tags         []string
	Budget       *domain.Budget
}

// Create records a new sales contact at the start of the pipeline.
func (s DealService) Create(ctx context.Context, tenantID int64, in SaveDealInput) (*domain.Deal, error) {
	deal := domain.Deal{
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		Notes:        in.Notes,
		Tags:         in.Tags,
		Stage:        domain.StageNew,
		Budget:       in.Budget,
	}
	deal.PrepareForSave(time.Now())
	return s.Deals.Create(ctx, tenantID, deal)
}

// Save overwrites the deal's editable fields, recomputes its value from the
// budget and persists. Stage is not touched here (see Move/SetStage).
func (s DealService) Save(ctx context.Context, tenantID int64, dealID int64, in SaveDealInput) (*domain.Deal, error) {
	deal, err := s.Deals.GetByID(ctx, tenantID, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	deal.ContactName = in.ContactName
	deal.ContactPhone = in.ContactPhone
	deal.Notes = in.Notes
	deal.Tags = in.Tags
	if in.Budget != nil {
		deal.Budget = in.Budget
	}
	deal.PrepareForSave(time.Now())
	return s.Deals.Update(ctx, tenantID, *deal)
}
