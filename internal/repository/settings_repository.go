package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type SettingsRepository struct {
	DB *db.Postgres
}

// Get returns the tenant's configuration record, or sensible defaults when
// the tenant has never saved one.
func (r SettingsRepository) Get(ctx context.Context, tenantID int64) (*domain.Settings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT tenant_id, lodge_name, lodge_address, lodge_phone, city, default_payment_method,
		       receipt_footer, checkin_hour, checkout_hour, currency_code, updated_at
		FROM settings
		WHERE tenant_id=$1
	`, tenantID)
	var s domain.Settings
	if err := row.Scan(
		&s.TenantID, &s.LodgeName, &s.LodgeAddress, &s.LodgePhone, &s.City, &s.DefaultPaymentMethod,
		&s.ReceiptFooter, &s.CheckinHour, &s.CheckoutHour, &s.CurrencyCode, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Settings{
				TenantID:             tenantID,
				DefaultPaymentMethod: "Pix",
				CheckinHour:          "12:00",
				CheckoutHour:         "10:00",
				CurrencyCode:         "BRL",
			}, nil
		}
		return nil, err
	}
	return &s, nil
}

// Save upserts the single configuration row by tenant id.
func (r SettingsRepository) Save(ctx context.Context, tenantID int64, s domain.Settings) (*domain.Settings, error) {
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO settings (tenant_id, lodge_name, lodge_address, lodge_phone, city, default_payment_method,
		                      receipt_footer, checkin_hour, checkout_hour, currency_code, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, now())
		ON CONFLICT (tenant_id) DO UPDATE SET
			lodge_name=EXCLUDED.lodge_name,
			lodge_address=EXCLUDED.lodge_address,
			lodge_phone=EXCLUDED.lodge_phone,
			city=EXCLUDED.city,
			default_payment_method=EXCLUDED.default_payment_method,
			receipt_footer=EXCLUDED.receipt_footer,
			checkin_hour=EXCLUDED.checkin_hour,
			checkout_hour=EXCLUDED.checkout_hour,
			currency_code=EXCLUDED.currency_code,
			updated_at=now()
		RETURNING tenant_id, lodge_name, lodge_address, lodge_phone, city, default_payment_method,
		          receipt_footer, checkin_hour, checkout_hour, currency_code, updated_at
	`, tenantID, s.LodgeName, s.LodgeAddress, s.LodgePhone, s.City, s.DefaultPaymentMethod,
		s.ReceiptFooter, s.CheckinHour, s.CheckoutHour, s.CurrencyCode).Scan(
		&s.TenantID, &s.LodgeName, &s.LodgeAddress, &s.LodgePhone, &s.City, &s.DefaultPaymentMethod,
		&s.ReceiptFooter, &s.CheckinHour, &s.CheckoutHour, &s.CurrencyCode, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
