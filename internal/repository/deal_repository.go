package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type DealRepository struct {
	DB *db.Postgres
}

func (r DealRepository) List(ctx context.Context, tenantID int64) ([]domain.Deal, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, contact_name, contact_phone, value, stage, tags, last_interaction, notes, has_budget,
		       budget_city, budget_checkin_date, budget_checkout_date, budget_fishing_days, budget_people,
		       created_at, updated_at
		FROM deals
		WHERE tenant_id=$1
		ORDER BY last_interaction DESC, id DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []domain.Deal
	var ids []int64
	for rows.Next() {
		d, err := scanDeal(rows, tenantID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, d.ID)
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return deals, nil
	}

	itemsByDeal, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	paymentsByDeal, err := r.loadPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].Budget != nil {
			deals[i].Budget.Items = itemsByDeal[deals[i].ID]
		}
		deals[i].Payments = paymentsByDeal[deals[i].ID]
	}
	return deals, nil
}

func (r DealRepository) GetByID(ctx context.Context, tenantID int64, id int64) (*domain.Deal, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, contact_name, contact_phone, value, stage, tags, last_interaction, notes, has_budget,
		       budget_city, budget_checkin_date, budget_checkout_date, budget_fishing_days, budget_people,
		       created_at, updated_at
		FROM deals
		WHERE id=$1 AND tenant_id=$2
	`, id, tenantID)

	d, err := scanDeal(row, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	itemsByDeal, err := r.loadItems(ctx, []int64{d.ID})
	if err != nil {
		return nil, err
	}
	paymentsByDeal, err := r.loadPayments(ctx, []int64{d.ID})
	if err != nil {
		return nil, err
	}
	if d.Budget != nil {
		d.Budget.Items = itemsByDeal[d.ID]
	}
	d.Payments = paymentsByDeal[d.ID]
	return &d, nil
}

func (r DealRepository) Create(ctx context.Context, tenantID int64, d domain.Deal) (*domain.Deal, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var city *string
	var fishingDays, people *int
	var checkIn, checkOut any
	if d.Budget != nil {
		city = &d.Budget.City
		fishingDays = &d.Budget.FishingDays
		people = &d.Budget.People
		checkIn = d.Budget.CheckInDate
		checkOut = d.Budget.CheckOutDate
	}
	if d.Stage == "" {
		d.Stage = domain.StageNew
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO deals (tenant_id, contact_name, contact_phone, value, stage, tags, last_interaction, notes,
		                   has_budget, budget_city, budget_checkin_date, budget_checkout_date, budget_fishing_days, budget_people,
		                   created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, now(), now())
		RETURNING id, created_at, updated_at
	`, tenantID, d.ContactName, d.ContactPhone, d.Value.Amount, d.Stage, d.Tags, d.LastInteraction, d.Notes,
		d.Budget != nil, city, checkIn, checkOut, fishingDays, people).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := insertDealChildren(ctx, tx, tenantID, &d); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	d.TenantID = tenantID
	return &d, nil
}

// Update persists the whole deal record: the row plus a full rewrite of its
// budget items and payments, mirroring the entire-record overwrite semantics
// of the rest of the pipeline.
func (r DealRepository) Update(ctx context.Context, tenantID int64, d domain.Deal) (*domain.Deal, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var city *string
	var fishingDays, people *int
	var checkIn, checkOut any
	if d.Budget != nil {
		city = &d.Budget.City
		fishingDays = &d.Budget.FishingDays
		people = &d.Budget.People
		checkIn = d.Budget.CheckInDate
		checkOut = d.Budget.CheckOutDate
	}
	err = tx.QueryRow(ctx, `
		UPDATE deals
		SET contact_name=$1, contact_phone=$2, value=$3, stage=$4, tags=$5, last_interaction=$6, notes=$7,
		    has_budget=$8, budget_city=$9, budget_checkin_date=$10, budget_checkout_date=$11,
		    budget_fishing_days=$12, budget_people=$13, updated_at=now()
		WHERE id=$14 AND tenant_id=$15
		RETURNING id, created_at, updated_at
	`, d.ContactName, d.ContactPhone, d.Value.Amount, d.Stage, d.Tags, d.LastInteraction, d.Notes,
		d.Budget != nil, city, checkIn, checkOut, fishingDays, people, d.ID, tenantID).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM deal_budget_items WHERE deal_id=$1`, d.ID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM deal_payments WHERE deal_id=$1`, d.ID); err != nil {
		return nil, err
	}
	if err := insertDealChildren(ctx, tx, tenantID, &d); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	d.TenantID = tenantID
	return &d, nil
}

// SetStageTx commits a stage change inside an existing transaction (used by
// the check-in capture commit).
func (r DealRepository) SetStageTx(ctx context.Context, tx pgx.Tx, tenantID int64, id int64, stage domain.DealStage) error {
	ct, err := tx.Exec(ctx, `
		UPDATE deals SET stage=$1, last_interaction=now(), updated_at=now()
		WHERE id=$2 AND tenant_id=$3
	`, stage, id, tenantID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r DealRepository) SetStage(ctx context.Context, tenantID int64, id int64, stage domain.DealStage) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := r.SetStageTx(ctx, tx, tenantID, id, stage); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertDealChildren(ctx context.Context, tx pgx.Tx, tenantID int64, d *domain.Deal) error {
	if d.Budget != nil {
		for pos, it := range d.Budget.Items {
			_, err := tx.Exec(ctx, `
				INSERT INTO deal_budget_items (id, deal_id, tenant_id, origin, name, description, qty, unit_price, total, position)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			`, it.ID, d.ID, tenantID, it.Origin, it.Name, it.Description, it.Qty, it.UnitPrice.Amount, it.Total.Amount, pos)
			if err != nil {
				return err
			}
		}
	}
	for pos, p := range d.Payments {
		_, err := tx.Exec(ctx, `
			INSERT INTO deal_payments (id, deal_id, tenant_id, amount, paid_on, method, notes, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, p.ID, d.ID, tenantID, p.Amount.Amount, p.Date, p.Method, p.Notes, pos)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r DealRepository) loadItems(ctx context.Context, dealIDs []int64) (map[int64][]domain.BudgetItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT deal_id, id, origin, name, description, qty, unit_price, total
		FROM deal_budget_items
		WHERE deal_id = ANY($1)
		ORDER BY deal_id, position
	`, dealIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.BudgetItem)
	for rows.Next() {
		var dealID int64
		var it domain.BudgetItem
		var origin string
		if err := rows.Scan(&dealID, &it.ID, &origin, &it.Name, &it.Description, &it.Qty, &it.UnitPrice.Amount, &it.Total.Amount); err != nil {
			return nil, err
		}
		it.Origin = domain.BudgetItemOrigin(origin)
		out[dealID] = append(out[dealID], it)
	}
	return out, rows.Err()
}

func (r DealRepository) loadPayments(ctx context.Context, dealIDs []int64) (map[int64][]domain.Payment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT deal_id, id, amount, paid_on, method, notes
		FROM deal_payments
		WHERE deal_id = ANY($1)
		ORDER BY deal_id, position
	`, dealIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.Payment)
	for rows.Next() {
		var dealID int64
		var p domain.Payment
		if err := rows.Scan(&dealID, &p.ID, &p.Amount.Amount, &p.Date, &p.Method, &p.Notes); err != nil {
			return nil, err
		}
		out[dealID] = append(out[dealID], p)
	}
	return out, rows.Err()
}

func scanDeal(row interface{ Scan(dest ...any) error }, tenantID int64) (domain.Deal, error) {
	var d domain.Deal
	var stage string
	var hasBudget bool
	var city *string
	var fishingDays, people *int
	b := &domain.Budget{}
	if err := row.Scan(
		&d.ID, &d.ContactName, &d.ContactPhone, &d.Value.Amount, &stage, &d.Tags, &d.LastInteraction, &d.Notes, &hasBudget,
		&city, &b.CheckInDate, &b.CheckOutDate, &fishingDays, &people,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return domain.Deal{}, err
	}
	d.TenantID = tenantID
	d.Stage = domain.DealStage(stage)
	if hasBudget {
		if city != nil {
			b.City = *city
		}
		if fishingDays != nil {
			b.FishingDays = *fishingDays
		}
		if people != nil {
			b.People = *people
		}
		d.Budget = b
	}
	return d, nil
}
