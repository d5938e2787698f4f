package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type GuideRepository struct {
	DB *db.Postgres
}

func (r GuideRepository) List(ctx context.Context, tenantID int64) ([]domain.Guide, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, specialty, daily_rate, status
		FROM guides
		WHERE deleted_at IS NULL AND tenant_id=$1
		ORDER BY name ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Guide
	for rows.Next() {
		var g domain.Guide
		var status string
		if err := rows.Scan(&g.ID, &g.Name, &g.Phone, &g.Specialty, &g.DailyRate.Amount, &status); err != nil {
			return nil, err
		}
		g.TenantID = tenantID
		g.Status = domain.ResourceStatus(status)
		items = append(items, g)
	}
	return items, rows.Err()
}

func (r GuideRepository) ListAvailable(ctx context.Context, tenantID int64) ([]domain.Guide, error) {
	guides, err := r.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := guides[:0]
	for _, g := range guides {
		if g.Status == domain.ResourceAvailable {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r GuideRepository) Save(ctx context.Context, tenantID int64, g domain.Guide) (*domain.Guide, error) {
	if g.Status == "" {
		g.Status = domain.ResourceAvailable
	}
	var err error
	if g.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO guides (tenant_id, name, phone, specialty, daily_rate, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6, now(), now())
			RETURNING id, created_at, updated_at
		`, tenantID, g.Name, g.Phone, g.Specialty, g.DailyRate.Amount, g.Status).
			Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE guides
			SET name=$1, phone=$2, specialty=$3, daily_rate=$4, status=$5, updated_at=now()
			WHERE id=$6 AND tenant_id=$7 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, g.Name, g.Phone, g.Specialty, g.DailyRate.Amount, g.Status, g.ID, tenantID).
			Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	g.TenantID = tenantID
	return &g, nil
}

func (r GuideRepository) Delete(ctx context.Context, tenantID int64, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE guides SET deleted_at=now() WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	return err
}

func (r GuideRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, tenantID int64, ids []int64, status domain.ResourceStatus) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE guides SET status=$1, updated_at=now()
		WHERE tenant_id=$2 AND id = ANY($3) AND deleted_at IS NULL
	`, status, tenantID, ids)
	return err
}
