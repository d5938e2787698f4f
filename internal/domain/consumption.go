package domain

import "time"

// ApplyConsumptionDelta applies a quantity delta to the room's running tab
// for a product and returns the updated line set.
//
// Existing lines keep the unit price frozen at first add: catalog price
// changes must never alter an in-progress tab, so catalogPrice is only read
// when a new line is created. A delta that would drop a line to zero or below
// removes it entirely; decrementing a line that does not exist is a no-op.
// The changed result is false when nothing was touched.
func ApplyConsumptionDelta(items []ConsumptionItem, newID string, productID int64, productName string, catalogPrice int64, delta int, now time.Time) (out []ConsumptionItem, changed bool) {
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		qty := items[i].Qty + delta
		if qty <= 0 {
			return append(items[:i:i], items[i+1:]...), true
		}
		items[i].Qty = qty
		items[i].Total = Money{Amount: int64(qty) * items[i].UnitPrice.Amount, Currency: items[i].UnitPrice.Currency}
		items[i].TouchedAt = now
		return items, true
	}

	if delta <= 0 {
		return items, false
	}
	return append(items, ConsumptionItem{
		ID:          newID,
		ProductID:   productID,
		ProductName: productName,
		Qty:         delta,
		UnitPrice:   Money{Amount: catalogPrice},
		Total:       Money{Amount: catalogPrice * int64(delta)},
		TouchedAt:   now,
	}), true
}

// ConsumptionTotal sums the room's tab.
func (a *AllocatedRoom) ConsumptionTotal() int64 {
	var sum int64
	for _, it := range a.Consumption {
		sum += it.Total.Amount
	}
	return sum
}

// FindRoom returns the allocated room with the given room id, or nil.
func (r *Reservation) FindRoom(roomID int64) *AllocatedRoom {
	for i := range r.Rooms {
		if r.Rooms[i].RoomID == roomID {
			return &r.Rooms[i]
		}
	}
	return nil
}

// ConsumptionTotal sums the tabs of every allocated room.
func (r *Reservation) ConsumptionTotal() int64 {
	var sum int64
	for i := range r.Rooms {
		sum += r.Rooms[i].ConsumptionTotal()
	}
	return sum
}

// GrandTotal is package value plus all consumption.
func (r *Reservation) GrandTotal() int64 {
	return r.PackageValue.Amount + r.ConsumptionTotal()
}

// BalanceDue is grand total minus the paid-amount snapshot.
func (r *Reservation) BalanceDue() int64 {
	return r.GrandTotal() - r.PaidAmount.Amount
}

// TotalPayments sums the reservation's own payment ledger. It is reported
// next to the PaidAmount snapshot; the two can drift and that is intentional.
func (r *Reservation) TotalPayments() int64 {
	var sum int64
	for _, p := range r.Payments {
		sum += p.Amount.Amount
	}
	return sum
}

// GuestCount is the aggregate guest count across allocated rooms.
func (r *Reservation) GuestCount() int {
	n := 0
	for i := range r.Rooms {
		n += len(r.Rooms[i].Guests)
	}
	return n
}

// CanTransition reports whether a reservation status change is allowed:
// confirmed -> checked-in -> checked-out, with cancelled reachable from
// confirmed and checked-in.
func CanTransition(from, to ReservationStatus) bool {
	switch from {
	case ReservationConfirmed:
		return to == ReservationCheckedIn || to == ReservationCancelled
	case ReservationCheckedIn:
		return to == ReservationCheckedOut || to == ReservationCancelled
	default:
		return false
	}
}
