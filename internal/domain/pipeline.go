package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StageOrder is the fixed forward sequence of the sales pipeline. StageLost
// sits outside the sequence: it is a parallel terminal reachable only by a
// direct stage set, never by the stepper.
var StageOrder = []DealStage{StageNew, StageWaiting, StageReservation, StageCheckin, StageFinished}

var (
	ErrUnknownStage  = errors.New("unknown deal stage")
	ErrEmptyItemName = errors.New("budget item needs a name")
	ErrInvalidAmount = errors.New("payment amount must be positive")
)

// StageIndex returns the position of s in StageOrder, or -1 for StageLost and
// unknown values.
func StageIndex(s DealStage) int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// MoveStage advances or retreats one stage. Moves past either end of the
// sequence are no-ops, as is any move on a lost deal.
func MoveStage(current DealStage, direction int) DealStage {
	idx := StageIndex(current)
	if idx < 0 {
		return current
	}
	next := idx + direction
	if next < 0 || next >= len(StageOrder) {
		return current
	}
	return StageOrder[next]
}

// RequiresCheckinCapture reports whether a stage change must be deferred to
// the check-in capture flow instead of committing directly.
func RequiresCheckinCapture(from, to DealStage) bool {
	return to == StageCheckin && from != StageCheckin
}

// Recalculate restores the qty*unit invariant on the line total.
func (i *BudgetItem) Recalculate() {
	i.Total = Money{Amount: int64(i.Qty) * i.UnitPrice.Amount, Currency: i.UnitPrice.Currency}
}

// Total sums the line totals of the budget.
func (b *Budget) Total() int64 {
	if b == nil {
		return 0
	}
	var sum int64
	for _, it := range b.Items {
		sum += it.Total.Amount
	}
	return sum
}

// ResolveBudgetItem builds a line item either from a catalog template or from
// custom free-text fields. The resolved name must be non-empty.
func ResolveBudgetItem(id string, tpl *BudgetTemplate, name, description string, qty int, unitPrice int64) (BudgetItem, error) {
	item := BudgetItem{
		ID:          id,
		Origin:      ItemCustom,
		Name:        strings.TrimSpace(name),
		Description: description,
		Qty:         qty,
		UnitPrice:   Money{Amount: unitPrice},
	}
	if tpl != nil {
		item.Origin = ItemFromTemplate
		item.Name = tpl.Name
		item.Description = tpl.Description
		item.UnitPrice = tpl.UnitPrice
	}
	if item.Name == "" {
		return BudgetItem{}, ErrEmptyItemName
	}
	if item.Qty <= 0 {
		item.Qty = 1
	}
	item.Recalculate()
	return item, nil
}

// AddBudgetItem appends the item, creating the budget on first use.
func (d *Deal) AddBudgetItem(item BudgetItem) {
	if d.Budget == nil {
		d.Budget = &Budget{}
	}
	d.Budget.Items = append(d.Budget.Items, item)
}

// RemoveBudgetItem removes the line with the given id. Unknown ids are a
// no-op.
func (d *Deal) RemoveBudgetItem(id string) {
	if d.Budget == nil {
		return
	}
	items := d.Budget.Items[:0]
	for _, it := range d.Budget.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	d.Budget.Items = items
}

// AddPayment appends a payment. Non-positive amounts are rejected.
func (d *Deal) AddPayment(p Payment) error {
	if p.Amount.Amount <= 0 {
		return ErrInvalidAmount
	}
	d.Payments = append(d.Payments, p)
	return nil
}

// RemovePayment removes the payment with the given id. Unknown ids are a
// no-op.
func (d *Deal) RemovePayment(id string) {
	payments := d.Payments[:0]
	for _, p := range d.Payments {
		if p.ID != id {
			payments = append(payments, p)
		}
	}
	d.Payments = payments
}

// PrepareForSave restores the value invariant (value == budget total) and,
// when the operator supplied no notes, generates the default note and the two
// default tags (fishing days, people).
func (d *Deal) PrepareForSave(now time.Time) {
	for i := range d.budgetItems() {
		d.Budget.Items[i].Recalculate()
	}
	d.Value = Money{Amount: d.Budget.Total(), Currency: d.Value.Currency}
	d.LastInteraction = now

	if strings.TrimSpace(d.Notes) == "" && d.Budget != nil {
		d.Notes = fmt.Sprintf("Pacote de pesca: %d diária(s), %d pessoa(s)", d.Budget.FishingDays, d.Budget.People)
		d.addTag(fmt.Sprintf("%d diárias", d.Budget.FishingDays))
		d.addTag(fmt.Sprintf("%d pessoas", d.Budget.People))
	}
}

// addTag appends the tag unless present. Repeated saves with unchanged notes
// must not grow the tag list.
func (d *Deal) addTag(tag string) {
	for _, t := range d.Tags {
		if t == tag {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

func (d *Deal) budgetItems() []BudgetItem {
	if d.Budget == nil {
		return nil
	}
	return d.Budget.Items
}

// TotalPaid sums the deal's payment ledger.
func (d *Deal) TotalPaid() int64 {
	var sum int64
	for _, p := range d.Payments {
		sum += p.Amount.Amount
	}
	return sum
}

// RemainingBalance is budget total minus total paid.
func (d *Deal) RemainingBalance() int64 {
	return d.Value.Amount - d.TotalPaid()
}

// IsPaid reports whether the deal is fully paid. A zero-value deal is never
// considered paid.
func (d *Deal) IsPaid() bool {
	return d.Value.Amount > 0 && d.TotalPaid() >= d.Value.Amount
}
