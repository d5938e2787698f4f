package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type RoomRepository struct {
	DB *db.Postgres
}

func (r RoomRepository) List(ctx context.Context, tenantID int64) ([]domain.Room, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, number, type, beds, price, status
		FROM rooms
		WHERE deleted_at IS NULL AND tenant_id=$1
		ORDER BY number ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Room
	for rows.Next() {
		var rm domain.Room
		var status string
		if err := rows.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.Beds, &rm.Price.Amount, &status); err != nil {
			return nil, err
		}
		rm.TenantID = tenantID
		rm.Status = domain.ResourceStatus(status)
		items = append(items, rm)
	}
	return items, rows.Err()
}

// ListAvailable feeds the check-in wizard's pre-filtered room picker.
func (r RoomRepository) ListAvailable(ctx context.Context, tenantID int64) ([]domain.Room, error) {
	rooms, err := r.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := rooms[:0]
	for _, rm := range rooms {
		if rm.Status == domain.ResourceAvailable {
			out = append(out, rm)
		}
	}
	return out, nil
}

// ListByIDs loads the selected rooms for the capture commit. Missing ids are
// simply absent from the result.
func (r RoomRepository) ListByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, number, type, beds, price, status
		FROM rooms
		WHERE deleted_at IS NULL AND tenant_id=$1 AND id = ANY($2)
		ORDER BY number ASC
	`, tenantID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Room
	for rows.Next() {
		var rm domain.Room
		var status string
		if err := rows.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.Beds, &rm.Price.Amount, &status); err != nil {
			return nil, err
		}
		rm.TenantID = tenantID
		rm.Status = domain.ResourceStatus(status)
		items = append(items, rm)
	}
	return items, rows.Err()
}

func (r RoomRepository) Save(ctx context.Context, tenantID int64, rm domain.Room) (*domain.Room, error) {
	if rm.Status == "" {
		rm.Status = domain.ResourceAvailable
	}
	var err error
	if rm.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO rooms (tenant_id, number, type, beds, price, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6, now(), now())
			RETURNING id, created_at, updated_at
		`, tenantID, rm.Number, rm.Type, rm.Beds, rm.Price.Amount, rm.Status).
			Scan(&rm.ID, &rm.CreatedAt, &rm.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE rooms
			SET number=$1, type=$2, beds=$3, price=$4, status=$5, updated_at=now()
			WHERE id=$6 AND tenant_id=$7 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, rm.Number, rm.Type, rm.Beds, rm.Price.Amount, rm.Status, rm.ID, tenantID).
			Scan(&rm.ID, &rm.CreatedAt, &rm.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rm.TenantID = tenantID
	return &rm, nil
}

func (r RoomRepository) Delete(ctx context.Context, tenantID int64, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE rooms SET deleted_at=now() WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	return err
}

// SetStatusTx flips the status of a set of rooms inside an existing
// transaction (check-in allocation, check-out release).
func (r RoomRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, tenantID int64, ids []int64, status domain.ResourceStatus) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE rooms SET status=$1, updated_at=now()
		WHERE tenant_id=$2 AND id = ANY($3) AND deleted_at IS NULL
	`, status, tenantID, ids)
	return err
}
