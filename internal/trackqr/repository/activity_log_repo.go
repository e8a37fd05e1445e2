package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityLogRepository 审计日志仓库
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create 写入一条审计日志
func (r *ActivityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	return translate("create activity log", r.db.WithContext(ctx).Omit(clause.Associations).Create(log).Error)
}

// FindAll 查询审计日志，最新在前，附带二维码和操作人
func (r *ActivityLogRepository) FindAll(ctx context.Context, limit int, filters map[string]string) ([]entity.ActivityLog, error) {
	var items []entity.ActivityLog

	query := r.db.WithContext(ctx).Model(&entity.ActivityLog{})

	if action := filters["action"]; action != "" {
		query = query.Where("audit_logs.action = ?", action)
	}
	if qrCodeID := filters["qr_code_id"]; qrCodeID != "" {
		query = query.Where("audit_logs.qr_code_id = ?", qrCodeID)
	}
	if userID := filters["user_id"]; userID != "" {
		query = query.Where("audit_logs.user_id = ?", userID)
	}

	err := query.
		Preload("QRCode").
		Preload("QRCode.Fitting").
		Preload("User").
		Order("audit_logs.created_at DESC").
		Limit(clampLimit(limit)).
		Find(&items).Error

	return items, translate("list activity", err)
}
