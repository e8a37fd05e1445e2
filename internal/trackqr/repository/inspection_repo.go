package repository

import (
	"context"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InspectionRepository 检验仓库
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// DateRange 日期过滤，零值表示不限
type DateRange struct {
	From time.Time
	To   time.Time
}

// FindAll 查询检验列表，按检验日期倒序
func (r *InspectionRepository) FindAll(ctx context.Context, limit int, filters map[string]string, dates DateRange) ([]entity.Inspection, error) {
	var items []entity.Inspection

	query := r.db.WithContext(ctx).Model(&entity.Inspection{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if t := filters["inspection_type"]; t != "" {
		query = query.Where("inspection_type = ?", t)
	}
	if inspectorID := filters["inspector_id"]; inspectorID != "" {
		query = query.Where("inspector_id = ?", inspectorID)
	}
	if qrCodeID := filters["qr_code_id"]; qrCodeID != "" {
		query = query.Where("qr_code_id = ?", qrCodeID)
	}
	if !dates.From.IsZero() {
		query = query.Where("inspection_date >= ?", dates.From)
	}
	if !dates.To.IsZero() {
		query = query.Where("inspection_date <= ?", dates.To)
	}

	err := query.
		Preload("QRCode").
		Preload("QRCode.Fitting").
		Preload("Inspector").
		Order("inspection_date DESC").
		Limit(clampLimit(limit)).
		Find(&items).Error

	return items, translate("list inspections", err)
}

// Create 创建检验
func (r *InspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	return translate("create inspection", r.db.WithContext(ctx).Omit(clause.Associations).Create(inspection).Error)
}
