package repository

import (
	"context"
	"time"

	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/domain"
)

type ActivityLogRepository struct {
	DB *db.Postgres
}

type CreateActivityLogInput struct {
	Title     string
	Message   string
	Actor     string
	Type      domain.ActivityLogType
	Timestamp time.Time
}

func (r ActivityLogRepository) Create(ctx context.Context, tenantID int64, in CreateActivityLogInput) (int64, error) {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	if in.Type == "" {
		in.Type = domain.LogInfo
	}
	var id int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO activity_logs (tenant_id, title, message, actor, type, logged_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id
	`, tenantID, in.Title, in.Message, in.Actor, string(in.Type), in.Timestamp).Scan(&id)
	return id, err
}

func (r ActivityLogRepository) List(ctx context.Context, tenantID int64, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, title, message, actor, type, logged_at
		FROM activity_logs
		WHERE tenant_id=$1
		ORDER BY logged_at DESC, id DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityLog
	for rows.Next() {
		var l domain.ActivityLog
		var typ string
		if err := rows.Scan(&l.ID, &l.Title, &l.Message, &l.Actor, &typ, &l.LoggedAt); err != nil {
			return nil, err
		}
		l.TenantID = tenantID
		l.Type = domain.ActivityLogType(typ)
		out = append(out, l)
	}
	return out, rows.Err()
}
