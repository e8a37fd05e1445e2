package repository

import (
	"context"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaintenanceRepository 维修记录仓库
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// FindAll 查询维修列表，按维修日期倒序
func (r *MaintenanceRepository) FindAll(ctx context.Context, limit int, filters map[string]string, dates DateRange) ([]entity.MaintenanceRecord, error) {
	var items []entity.MaintenanceRecord

	query := r.db.WithContext(ctx).Model(&entity.MaintenanceRecord{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if t := filters["maintenance_type"]; t != "" {
		query = query.Where("maintenance_type = ?", t)
	}
	if technicianID := filters["technician_id"]; technicianID != "" {
		query = query.Where("technician_id = ?", technicianID)
	}
	if qrCodeID := filters["qr_code_id"]; qrCodeID != "" {
		query = query.Where("qr_code_id = ?", qrCodeID)
	}
	if !dates.From.IsZero() {
		query = query.Where("maintenance_date >= ?", dates.From)
	}
	if !dates.To.IsZero() {
		query = query.Where("maintenance_date <= ?", dates.To)
	}

	err := query.
		Preload("QRCode").
		Preload("QRCode.Fitting").
		Preload("Technician").
		Order("maintenance_date DESC").
		Limit(clampLimit(limit)).
		Find(&items).Error

	return items, translate("list maintenance", err)
}

// Create 创建维修记录
func (r *MaintenanceRepository) Create(ctx context.Context, record *entity.MaintenanceRecord) error {
	return translate("create maintenance", r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error)
}
