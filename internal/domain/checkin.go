package domain

import (
	"errors"
	"time"
)

// ErrNoResourcesSelected blocks the capture wizard when neither a room nor a
// boat was picked. Guides alone are not enough to host a stay.
var ErrNoResourcesSelected = errors.New("select at least one room or boat")

// CheckinSelection is the wizard-local state of the capture flow. Nothing is
// persisted until BuildReservation's result is committed.
type CheckinSelection struct {
	Rooms    []Room
	BoatIDs  []int64
	GuideIDs []int64
	Guests   map[int64][]Guest // keyed by room id
}

// Validate enforces the step-1 gate: at least one room or one boat.
func (s CheckinSelection) Validate() error {
	if len(s.Rooms) == 0 && len(s.BoatIDs) == 0 {
		return ErrNoResourcesSelected
	}
	return nil
}

// BuildReservation materializes a reservation from a committed capture flow.
//
// Room numbers are snapshotted from the registry records passed in, each room
// starts with an empty consumption list, and the payment list is copied by
// value; the reservation's ledger is independent from the deal's from this
// point on. PaidAmount snapshots the sum of the copied payments. Status is
// checked-in: the capture flow is the act of receiving the guests.
func BuildReservation(deal *Deal, sel CheckinSelection, contactName string, checkIn, checkOut *time.Time, packageValue int64, payments []Payment, notes string, refCode string, now time.Time) (Reservation, error) {
	if err := sel.Validate(); err != nil {
		return Reservation{}, err
	}

	rooms := make([]AllocatedRoom, 0, len(sel.Rooms))
	for _, rm := range sel.Rooms {
		rooms = append(rooms, AllocatedRoom{
			RoomID:      rm.ID,
			RoomNumber:  rm.Number,
			Guests:      sel.Guests[rm.ID],
			Consumption: []ConsumptionItem{},
		})
	}

	res := Reservation{
		ReferenceCode: refCode,
		ContactName:   contactName,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Status:        ReservationCheckedIn,
		Rooms:         rooms,
		BoatIDs:       sel.BoatIDs,
		GuideIDs:      sel.GuideIDs,
		PackageValue:  Money{Amount: packageValue},
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if deal != nil {
		id := deal.ID
		res.DealID = &id
		res.TenantID = deal.TenantID
		res.ContactName = deal.ContactName
		if deal.Budget != nil {
			res.CheckInDate = deal.Budget.CheckInDate
			res.CheckOutDate = deal.Budget.CheckOutDate
		}
		res.PackageValue = Money{Amount: deal.Value.Amount, Currency: deal.Value.Currency}
		payments = deal.Payments
	}

	res.Payments = append([]Payment(nil), payments...)
	var paid int64
	for _, p := range res.Payments {
		paid += p.Amount.Amount
	}
	res.PaidAmount = Money{Amount: paid}

	return res, nil
}
