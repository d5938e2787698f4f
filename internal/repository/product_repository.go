package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type ProductRepository struct {
	DB *db.Postgres
}

func (r ProductRepository) List(ctx context.Context, tenantID int64) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, category, price, stock
		FROM products
		WHERE deleted_at IS NULL AND tenant_id=$1
		ORDER BY name ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price.Amount, &p.Stock); err != nil {
			return nil, err
		}
		p.TenantID = tenantID
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r ProductRepository) GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, category, price, stock
		FROM products
		WHERE id=$1 AND tenant_id=$2 AND deleted_at IS NULL
	`, id, tenantID)

	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price.Amount, &p.Stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.TenantID = tenantID
	return &p, nil
}

func (r ProductRepository) Save(ctx context.Context, tenantID int64, p domain.Product) (*domain.Product, error) {
	var err error
	if p.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO products (tenant_id, name, category, price, stock, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, created_at, updated_at
		`, tenantID, p.Name, p.Category, p.Price.Amount, p.Stock).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE products
			SET name=$1, category=$2, price=$3, stock=$4, updated_at=now()
			WHERE id=$5 AND tenant_id=$6 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, p.Name, p.Category, p.Price.Amount, p.Stock, p.ID, tenantID).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.TenantID = tenantID
	return &p, nil
}

func (r ProductRepository) Delete(ctx context.Context, tenantID int64, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE products SET deleted_at=now() WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	return err
}
