package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/usecase"
)

// AuditLog is append-only: rows are created when events are emitted and
// never updated or deleted.
type AuditLog struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	EventType string    `gorm:"column:event_type;type:varchar(40);not null;index"`
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;not null;index"`
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null;index"`
	Detail    string    `gorm:"column:detail;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a AuditLog) ConvertToUsecase() usecase.AuditLog {
	return usecase.AuditLog{
		ID:        a.ID,
		EventType: usecase.EventType(a.EventType),
		AssetID:   a.AssetID,
		ActorID:   a.ActorID,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	}
}

func (s *service) CreateAuditLog(ctx context.Context, ua usecase.AuditLog) error {
	a := AuditLog{
		EventType: string(ua.EventType),
		AssetID:   ua.AssetID,
		ActorID:   ua.ActorID,
		Detail:    ua.Detail,
		CreatedAt: ua.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&a).Error
}

func (s *service) ListAuditLogs(ctx context.Context, opt usecase.ListAuditLogsOption) ([]usecase.AuditLog, int, error) {
	var (
		logs  []AuditLog
		ulogs []usecase.AuditLog
		count int64
	)

	db := s.db.Model([]AuditLog{}).WithContext(ctx)

	if len(opt.AssetIDs) > 0 {
		db = db.Where("asset_id IN ?", opt.AssetIDs)
	}
	if len(opt.ActorIDs) > 0 {
		db = db.Where("actor_id IN ?", opt.ActorIDs)
	}
	if len(opt.EventTypes) > 0 {
		db = db.Where("event_type IN ?", opt.EventTypes)
	}

	err := db.
		Count(&count).
		Order("created_at desc").
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&logs).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, l := range logs {
		ulogs = append(ulogs, l.ConvertToUsecase())
	}

	return ulogs, int(count), nil
}
