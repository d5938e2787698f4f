package repository

import (
	"context"

	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	DealsByStage       map[string]int64
	ActiveReservations int64
	OccupiedRooms      int64
	TotalRooms         int64
	MonthPayments      int64
	MonthConsumption   int64
}

type DashboardItem struct {
	Name   string
	Amount int64
	Count  int64
}

func (r DashboardRepository) Summary(ctx context.Context, tenantID int64) (DashboardSummary, error) {
	s := DashboardSummary{DealsByStage: map[string]int64{}}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT stage, COUNT(*) FROM deals WHERE tenant_id=$1 GROUP BY stage
	`, tenantID)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var stage string
		var n int64
		if err := rows.Scan(&stage, &n); err != nil {
			return s, err
		}
		s.DealsByStage[stage] = n
	}
	if err := rows.Err(); err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM reservations WHERE tenant_id=$1 AND status='checked-in'),
			(SELECT COUNT(*) FROM rooms WHERE tenant_id=$1 AND deleted_at IS NULL AND status='occupied'),
			(SELECT COUNT(*) FROM rooms WHERE tenant_id=$1 AND deleted_at IS NULL),
			(SELECT COALESCE(SUM(rp.amount),0)
			   FROM reservation_payments rp
			   JOIN reservations res ON res.id = rp.reservation_id
			  WHERE res.tenant_id=$1 AND date_trunc('month', rp.paid_on) = date_trunc('month', CURRENT_DATE)),
			(SELECT COALESCE(SUM(ci.total),0)
			   FROM consumption_items ci
			   JOIN reservations res ON res.id = ci.reservation_id
			  WHERE res.tenant_id=$1 AND date_trunc('month', ci.touched_at) = date_trunc('month', CURRENT_DATE))
	`, tenantID).Scan(&s.ActiveReservations, &s.OccupiedRooms, &s.TotalRooms, &s.MonthPayments, &s.MonthConsumption)
	return s, err
}

// TopProducts ranks bar/store items by consumption value.
func (r DashboardRepository) TopProducts(ctx context.Context, tenantID int64, limit int) ([]DashboardItem, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT ci.product_name, COALESCE(SUM(ci.total),0) AS amount, COALESCE(SUM(ci.qty),0) AS qty
		FROM consumption_items ci
		JOIN reservations res ON res.id = ci.reservation_id
		WHERE res.tenant_id=$1
		GROUP BY ci.product_name
		ORDER BY amount DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DashboardItem
	for rows.Next() {
		var it DashboardItem
		if err := rows.Scan(&it.Name, &it.Amount, &it.Count); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
