package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type BudgetTemplateRepository struct {
	DB *db.Postgres
}

func (r BudgetTemplateRepository) List(ctx context.Context, tenantID int64) ([]domain.BudgetTemplate, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, description, category, unit_price
		FROM budget_templates
		WHERE deleted_at IS NULL AND tenant_id=$1
		ORDER BY name ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.BudgetTemplate
	for rows.Next() {
		var t domain.BudgetTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.UnitPrice.Amount); err != nil {
			return nil, err
		}
		t.TenantID = tenantID
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r BudgetTemplateRepository) GetByID(ctx context.Context, tenantID int64, id int64) (*domain.BudgetTemplate, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, description, category, unit_price
		FROM budget_templates
		WHERE id=$1 AND tenant_id=$2 AND deleted_at IS NULL
	`, id, tenantID)

	var t domain.BudgetTemplate
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &t.UnitPrice.Amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.TenantID = tenantID
	return &t, nil
}

func (r BudgetTemplateRepository) Save(ctx context.Context, tenantID int64, t domain.BudgetTemplate) (*domain.BudgetTemplate, error) {
	var err error
	if t.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO budget_templates (tenant_id, name, description, category, unit_price, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, created_at, updated_at
		`, tenantID, t.Name, t.Description, t.Category, t.UnitPrice.Amount).
			Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE budget_templates
			SET name=$1, description=$2, category=$3, unit_price=$4, updated_at=now()
			WHERE id=$5 AND tenant_id=$6 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, t.Name, t.Description, t.Category, t.UnitPrice.Amount, t.ID, tenantID).
			Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.TenantID = tenantID
	return &t, nil
}

func (r BudgetTemplateRepository) Delete(ctx context.Context, tenantID int64, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE budget_templates SET deleted_at=now() WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	return err
}
