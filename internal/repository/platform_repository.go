package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

// PlatformRepository accesses the un-scoped cross-tenant collections
// (businesses, plans, platform settings). Only the admin role reaches it.
type PlatformRepository struct {
	DB *db.Postgres
}

func (r PlatformRepository) ListBusinesses(ctx context.Context) ([]domain.Business, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, owner_user_id, plan_id, status, created_at, updated_at
		FROM businesses
		WHERE deleted_at IS NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		var b domain.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerUserID, &b.PlanID, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r PlatformRepository) SaveBusiness(ctx context.Context, b domain.Business) (*domain.Business, error) {
	var err error
	if b.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO businesses (name, owner_user_id, plan_id, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4, now(), now())
			RETURNING id, created_at, updated_at
		`, b.Name, b.OwnerUserID, b.PlanID, b.Status).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE businesses
			SET name=$1, owner_user_id=$2, plan_id=$3, status=$4, updated_at=now()
			WHERE id=$5 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, b.Name, b.OwnerUserID, b.PlanID, b.Status, b.ID).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r PlatformRepository) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, price, max_rooms, max_users, created_at, updated_at
		FROM plans
		WHERE deleted_at IS NULL
		ORDER BY price ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price.Amount, &p.MaxRooms, &p.MaxUsers, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PlatformRepository) SavePlan(ctx context.Context, p domain.Plan) (*domain.Plan, error) {
	var err error
	if p.ID == 0 {
		err = r.DB.Pool.QueryRow(ctx, `
			INSERT INTO plans (name, price, max_rooms, max_users, created_at, updated_at)
			VALUES ($1,$2,$3,$4, now(), now())
			RETURNING id, created_at, updated_at
		`, p.Name, p.Price.Amount, p.MaxRooms, p.MaxUsers).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	} else {
		err = r.DB.Pool.QueryRow(ctx, `
			UPDATE plans
			SET name=$1, price=$2, max_rooms=$3, max_users=$4, updated_at=now()
			WHERE id=$5 AND deleted_at IS NULL
			RETURNING id, created_at, updated_at
		`, p.Name, p.Price.Amount, p.MaxRooms, p.MaxUsers, p.ID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r PlatformRepository) GetSettings(ctx context.Context) (*domain.PlatformSettings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT support_email, support_phone, trial_days, signups_open, maintenance_blurb, updated_at
		FROM platform_settings
		WHERE id=1
	`)
	var s domain.PlatformSettings
	if err := row.Scan(&s.SupportEmail, &s.SupportPhone, &s.TrialDays, &s.SignupsOpen, &s.MaintenanceBlurb, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.PlatformSettings{TrialDays: 14, SignupsOpen: true}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r PlatformRepository) SaveSettings(ctx context.Context, s domain.PlatformSettings) (*domain.PlatformSettings, error) {
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO platform_settings (id, support_email, support_phone, trial_days, signups_open, maintenance_blurb, updated_at)
		VALUES (1,$1,$2,$3,$4,$5, now())
		ON CONFLICT (id) DO UPDATE SET
			support_email=EXCLUDED.support_email,
			support_phone=EXCLUDED.support_phone,
			trial_days=EXCLUDED.trial_days,
			signups_open=EXCLUDED.signups_open,
			maintenance_blurb=EXCLUDED.maintenance_blurb,
			updated_at=now()
		RETURNING support_email, support_phone, trial_days, signups_open, maintenance_blurb, updated_at
	`, s.SupportEmail, s.SupportPhone, s.TrialDays, s.SignupsOpen, s.MaintenanceBlurb).Scan(
		&s.SupportEmail, &s.SupportPhone, &s.TrialDays, &s.SignupsOpen, &s.MaintenanceBlurb, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
