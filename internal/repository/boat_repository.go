package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type BoatRepository struct {
	DB *db.Postgres
}

func (r BoatRepository) List(ctx context.Context, tenantID int64) ([]domain.Boat, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, capacity, price, status
		FROM boats
		WHERE deleted_at IS NULL AND tenant_id=$1
		ORDER BY name ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Boat
	for rows.Next() {
		var b domain.Boat
		var status string
		if err := rows.Scan(&b.ID, &b.Name, &b.Capacity, &b.Price.Amount, &status); err != nil {
			return nil, err
		}
		b.TenantID = tenantID
		b.Status = domain.ResourceStatus(status)
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r BoatRepository) ListAvailable(ctx context.Context, tenantID int64) ([]domain.Boat, error) {
	boats, err := r.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := boats[:0]
	for _, b := range boats {
		if b.Status == domain.ResourceAvailable {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r BoatRepository) Save(ctx context.Context, tenantID int64, b domain.Boat) (*domain.Boat, error) {
	if b.Status == "" {
		b.Status = domain.ResourceAvailable
	}
	var err error
	if b.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO boats (tenant_id, name, capacity, price, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, created_at, updated_at
		`, tenantID, b.Name, b.Capacity, b.Price.Amount, b.Status).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE boats
			SET name=$1, capacity=$2, price=$3, status=$4, updated_at=now()
			WHERE id=$5 AND tenant_id=$6 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, b.Name, b.Capacity, b.Price.Amount, b.Status, b.ID, tenantID).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.TenantID = tenantID
	return &b, nil
}

func (r BoatRepository) Delete(ctx context.Context, tenantID int64, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE boats SET deleted_at=now() WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	return err
}

func (r BoatRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, tenantID int64, ids []int64, status domain.ResourceStatus) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE boats SET status=$1, updated_at=now()
		WHERE tenant_id=$2 AND id = ANY($3) AND deleted_at IS NULL
	`, status, tenantID, ids)
	return err
}
