package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type ReservationRepository struct {
	DB *db.Postgres
}

// Create inserts the reservation and its whole graph (rooms, guests, boats,
// guides, payments, consumption) in one transaction. The optional after
// callback runs inside the same transaction; the check-in capture flow uses
// it to commit the deal stage and flip resource statuses atomically with the
// reservation insert.
func (r ReservationRepository) Create(ctx context.Context, tenantID int64, res domain.Reservation, after func(context.Context, pgx.Tx) error) (*domain.Reservation, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO reservations (tenant_id, deal_id, reference_code, contact_name, checkin_date, checkout_date,
		                          status, package_value, paid_amount, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, now(), now())
		RETURNING id, created_at, updated_at
	`, tenantID, res.DealID, res.ReferenceCode, res.ContactName, res.CheckInDate, res.CheckOutDate,
		res.Status, res.PackageValue.Amount, res.PaidAmount.Amount, res.Notes).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for pos, room := range res.Rooms {
		_, err := tx.Exec(ctx, `
			INSERT INTO reservation_rooms (reservation_id, room_id, room_number, position)
			VALUES ($1,$2,$3,$4)
		`, res.ID, room.RoomID, room.RoomNumber, pos)
		if err != nil {
			return nil, err
		}
		for gpos, g := range room.Guests {
			_, err := tx.Exec(ctx, `
				INSERT INTO reservation_guests (reservation_id, room_id, name, phone, position)
				VALUES ($1,$2,$3,$4,$5)
			`, res.ID, room.RoomID, g.Name, g.Phone, gpos)
			if err != nil {
				return nil, err
			}
		}
		for _, it := range room.Consumption {
			if err := insertConsumptionItem(ctx, tx, res.ID, room.RoomID, it); err != nil {
				return nil, err
			}
		}
	}
	for _, boatID := range res.BoatIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO reservation_boats (reservation_id, boat_id) VALUES ($1,$2)`, res.ID, boatID); err != nil {
			return nil, err
		}
	}
	for _, guideID := range res.GuideIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO reservation_guides (reservation_id, guide_id) VALUES ($1,$2)`, res.ID, guideID); err != nil {
			return nil, err
		}
	}
	for pos, p := range res.Payments {
		if err := insertReservationPayment(ctx, tx, res.ID, p, pos); err != nil {
			return nil, err
		}
	}

	if after != nil {
		if err := after(ctx, tx); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	res.TenantID = tenantID
	return &res, nil
}

func (r ReservationRepository) List(ctx context.Context, tenantID int64) ([]domain.Reservation, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, deal_id, reference_code, contact_name, checkin_date, checkout_date,
		       status, package_value, paid_amount, notes, created_at, updated_at
		FROM reservations
		WHERE tenant_id=$1
		ORDER BY checkin_date DESC NULLS LAST, id DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	var ids []int64
	for rows.Next() {
		res, err := scanReservation(rows, tenantID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, res.ID)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.loadChildren(ctx, ids, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r ReservationRepository) GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Reservation, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, deal_id, reference_code, contact_name, checkin_date, checkout_date,
		       status, package_value, paid_amount, notes, created_at, updated_at
		FROM reservations
		WHERE id=$1 AND tenant_id=$2
	`, id, tenantID)
	res, err := scanReservation(row, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := []domain.Reservation{res}
	if err := r.loadChildren(ctx, []int64{res.ID}, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

// SetStatus commits a status change; the optional after callback runs in the
// same transaction (check-out uses it to release allocated resources).
func (r ReservationRepository) SetStatus(ctx context.Context, tenantID int64, id int64, status domain.ReservationStatus, after func(context.Context, pgx.Tx) error) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE reservations SET status=$1, updated_at=now()
		WHERE id=$2 AND tenant_id=$3
	`, status, id, tenantID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	if after != nil {
		if err := after(ctx, tx); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ReplaceRoomConsumption rewrites the whole tab of one allocated room. The
// ledger is persisted as a full overwrite, matching the pipeline's
// whole-record write semantics.
func (r ReservationRepository) ReplaceRoomConsumption(ctx context.Context, tenantID int64, reservationID, roomID int64, items []domain.ConsumptionItem) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE reservations SET updated_at=now() WHERE id=$1 AND tenant_id=$2
	`, reservationID, tenantID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM consumption_items WHERE reservation_id=$1 AND room_id=$2
	`, reservationID, roomID); err != nil {
		return err
	}
	for _, it := range items {
		if err := insertConsumptionItem(ctx, tx, reservationID, roomID, it); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r ReservationRepository) AddPayment(ctx context.Context, tenantID int64, reservationID int64, p domain.Payment) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE reservations SET updated_at=now() WHERE id=$1 AND tenant_id=$2
	`, reservationID, tenantID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	var pos int
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(position)+1, 0) FROM reservation_payments WHERE reservation_id=$1
	`, reservationID).Scan(&pos); err != nil {
		return err
	}
	if err := insertReservationPayment(ctx, tx, reservationID, p, pos); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r ReservationRepository) RemovePayment(ctx context.Context, tenantID int64, reservationID int64, paymentID string) error {
	_, err := r.DB.Pool.Exec(ctx, `
		DELETE FROM reservation_payments
		WHERE id=$1 AND reservation_id IN (SELECT id FROM reservations WHERE id=$2 AND tenant_id=$3)
	`, paymentID, reservationID, tenantID)
	return err
}

func insertConsumptionItem(ctx context.Context, tx pgx.Tx, reservationID, roomID int64, it domain.ConsumptionItem) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO consumption_items (id, reservation_id, room_id, product_id, product_name, qty, unit_price, total, touched_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, it.ID, reservationID, roomID, it.ProductID, it.ProductName, it.Qty, it.UnitPrice.Amount, it.Total.Amount, it.TouchedAt)
	return err
}

func insertReservationPayment(ctx context.Context, tx pgx.Tx, reservationID int64, p domain.Payment, pos int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO reservation_payments (id, reservation_id, amount, paid_on, method, notes, position)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, reservationID, p.Amount.Amount, p.Date, p.Method, p.Notes, pos)
	return err
}

func scanReservation(row interface{ Scan(dest ...any) error }, tenantID int64) (domain.Reservation, error) {
	var res domain.Reservation
	var status string
	if err := row.Scan(
		&res.ID, &res.DealID, &res.ReferenceCode, &res.ContactName, &res.CheckInDate, &res.CheckOutDate,
		&status, &res.PackageValue.Amount, &res.PaidAmount.Amount, &res.Notes, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return domain.Reservation{}, err
	}
	res.TenantID = tenantID
	res.Status = domain.ReservationStatus(status)
	return res, nil
}

func (r ReservationRepository) loadChildren(ctx context.Context, ids []int64, out []domain.Reservation) error {
	byID := make(map[int64]*domain.Reservation, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}

	roomRows, err := r.DB.Pool.Query(ctx, `
		SELECT reservation_id, room_id, room_number
		FROM reservation_rooms
		WHERE reservation_id = ANY($1)
		ORDER BY reservation_id, position
	`, ids)
	if err != nil {
		return err
	}
	defer roomRows.Close()
	for roomRows.Next() {
		var resID int64
		var room domain.AllocatedRoom
		if err := roomRows.Scan(&resID, &room.RoomID, &room.RoomNumber); err != nil {
			return err
		}
		room.Consumption = []domain.ConsumptionItem{}
		if res := byID[resID]; res != nil {
			res.Rooms = append(res.Rooms, room)
		}
	}
	if err := roomRows.Err(); err != nil {
		return err
	}

	guestRows, err := r.DB.Pool.Query(ctx, `
		SELECT reservation_id, room_id, name, phone
		FROM reservation_guests
		WHERE reservation_id = ANY($1)
		ORDER BY reservation_id, room_id, position
	`, ids)
	if err != nil {
		return err
	}
	defer guestRows.Close()
	for guestRows.Next() {
		var resID, roomID int64
		var g domain.Guest
		if err := guestRows.Scan(&resID, &roomID, &g.Name, &g.Phone); err != nil {
			return err
		}
		if res := byID[resID]; res != nil {
			if room := res.FindRoom(roomID); room != nil {
				room.Guests = append(room.Guests, g)
			}
		}
	}
	if err := guestRows.Err(); err != nil {
		return err
	}

	consRows, err := r.DB.Pool.Query(ctx, `
		SELECT reservation_id, room_id, id, product_id, product_name, qty, unit_price, total, touched_at
		FROM consumption_items
		WHERE reservation_id = ANY($1)
		ORDER BY reservation_id, room_id, touched_at, id
	`, ids)
	if err != nil {
		return err
	}
	defer consRows.Close()
	for consRows.Next() {
		var resID, roomID int64
		var it domain.ConsumptionItem
		if err := consRows.Scan(&resID, &roomID, &it.ID, &it.ProductID, &it.ProductName, &it.Qty, &it.UnitPrice.Amount, &it.Total.Amount, &it.TouchedAt); err != nil {
			return err
		}
		if res := byID[resID]; res != nil {
			if room := res.FindRoom(roomID); room != nil {
				room.Consumption = append(room.Consumption, it)
			}
		}
	}
	if err := consRows.Err(); err != nil {
		return err
	}

	boatRows, err := r.DB.Pool.Query(ctx, `
		SELECT reservation_id, boat_id FROM reservation_boats WHERE reservation_id = ANY($1) ORDER BY boat_id
	`, ids)
	if err != nil {
		return err
	}
	defer boatRows.Close()
	for boatRows.Next() {
		var resID, boatID int64
		if err := boatRows.Scan(&resID, &boatID); err != nil {
			return err
		}
		if res := byID[resID]; res != nil {
			res.BoatIDs = append(res.BoatIDs, boatID)
		}
	}
	if err := boatRows.Err(); err != nil {
		return err
	}

	guideRows, err := r.DB.Pool.Query(ctx, `
		SELECT reservation_id, guide_id FROM reservation_guides WHERE reservation_id = ANY($1) ORDER BY guide_id
	`, ids)
	if err != nil {
		return err
	}
	defer guideRows.Close()
	for guideRows.Next() {
		var resID, guideID int64
		if err := guideRows.Scan(&resID, &guideID); err != nil {
			return err
		}
		if res := byID[resID]; res != nil {
			res.GuideIDs = append(res.GuideIDs, guideID)
		}
	}
	if err := guideRows.Err(); err != nil {
		return err
	}

	payRows, err := r.DB.Pool.Query(ctx, `
		SELECT reservation_id, id, amount, paid_on, method, notes
		FROM reservation_payments
		WHERE reservation_id = ANY($1)
		ORDER BY reservation_id, position
	`, ids)
	if err != nil {
		return err
	}
	defer payRows.Close()
	for payRows.Next() {
		var resID int64
		var p domain.Payment
		if err := payRows.Scan(&resID, &p.ID, &p.Amount.Amount, &p.Date, &p.Method, &p.Notes); err != nil {
			return err
		}
		if res := byID[resID]; res != nil {
			res.Payments = append(res.Payments, p)
		}
	}
	return payRows.Err()
}
