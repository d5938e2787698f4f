package repository

import (
	"context"

	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

// SeedDefaults gives a fresh tenant a starting catalog of priced line items.
func (r BudgetTemplateRepository) SeedDefaults(ctx context.Context, tenantID int64) error {
	defaults := []domain.BudgetTemplate{
		{Name: "Diária", Description: "Diária de pesca com pensão completa", Category: "Pacote", UnitPrice: domain.Money{Amount: 45000}},
		{Name: "Barco com piloteiro", Description: "Barco de alumínio com piloteiro", Category: "Pacote", UnitPrice: domain.Money{Amount: 60000}},
		{Name: "Guia de pesca", Description: "Diária do guia", Category: "Serviço", UnitPrice: domain.Money{Amount: 35000}},
		{Name: "Transfer", Description: "Traslado aeroporto/pousada", Category: "Serviço", UnitPrice: domain.Money{Amount: 25000}},
		{Name: "Isca viva", Description: "Porção de iscas vivas", Category: "Consumo", UnitPrice: domain.Money{Amount: 5000}},
	}

	for _, t := range defaults {
		// Idempotent: (tenant_id, name) is unique.
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO budget_templates (tenant_id, name, description, category, unit_price, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			ON CONFLICT (tenant_id, name) DO NOTHING
		`, tenantID, t.Name, t.Description, t.Category, t.UnitPrice.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}
