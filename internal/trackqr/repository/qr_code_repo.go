package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QRCodeRepository 二维码记录仓库
type QRCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) *QRCodeRepository {
	return &QRCodeRepository{db: db}
}

func applyQRFilters(query *gorm.DB, filters map[string]string) *gorm.DB {
	if status := filters["status"]; status != "" {
		query = query.Where("qr_codes.status = ?", status)
	}
	if zone := filters["zone"]; zone != "" {
		query = query.Where("qr_codes.zone = ?", zone)
	}
	if division := filters["division"]; division != "" {
		query = query.Where("qr_codes.division = ?", division)
	}
	if section := filters["section"]; section != "" {
		query = query.Where("qr_codes.section = ?", section)
	}
	return query
}

// FindAll 查询二维码列表，按创建时间倒序，附带扣件和创建人
func (r *QRCodeRepository) FindAll(ctx context.Context, limit, offset int, filters map[string]string) ([]entity.QRCode, error) {
	var items []entity.QRCode

	query := applyQRFilters(r.db.WithContext(ctx).Model(&entity.QRCode{}), filters)
	if offset < 0 {
		offset = 0
	}

	err := query.
		Joins("Fitting").
		Joins("Creator").
		Order("qr_codes.created_at DESC").
		Offset(offset).
		Limit(clampLimit(limit)).
		Find(&items).Error

	return items, translate("list qr codes", err)
}

// FindByID 详情，包含全部检验和维修历史
func (r *QRCodeRepository) FindByID(ctx context.Context, id string) (*entity.QRCode, error) {
	var qr entity.QRCode
	err := r.db.WithContext(ctx).
		Joins("Fitting").
		Joins("Creator").
		Preload("Inspections", func(db *gorm.DB) *gorm.DB {
			return db.Order("inspection_date DESC")
		}).
		Preload("Maintenance", func(db *gorm.DB) *gorm.DB {
			return db.Order("maintenance_date DESC")
		}).
		Where("qr_codes.id = ?", id).
		First(&qr).Error
	if err != nil {
		return nil, translate("find qr code", err)
	}
	return &qr, nil
}

// FindByCode 根据码值查找，附带扣件
func (r *QRCodeRepository) FindByCode(ctx context.Context, code string) (*entity.QRCode, error) {
	var qr entity.QRCode
	err := r.db.WithContext(ctx).
		Joins("Fitting").
		Where("qr_codes.qr_code = ?", code).
		First(&qr).Error
	if err != nil {
		return nil, translate("find qr code", err)
	}
	return &qr, nil
}

// FindForScan 扫码解析：扣件 + 最近 n 条检验和维修，在同一只读事务中完成
func (r *QRCodeRepository) FindForScan(ctx context.Context, code string, n int) (*entity.QRCode, error) {
	var qr entity.QRCode
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Joins("Fitting").Where("qr_codes.qr_code = ?", code).First(&qr).Error; err != nil {
			return err
		}
		if err := tx.Where("qr_code_id = ?", qr.ID).
			Order("inspection_date DESC").
			Limit(n).
			Find(&qr.Inspections).Error; err != nil {
			return err
		}
		return tx.Where("qr_code_id = ?", qr.ID).
			Order("maintenance_date DESC").
			Limit(n).
			Find(&qr.Maintenance).Error
	})
	if err != nil {
		return nil, translate("scan qr code", err)
	}
	return &qr, nil
}

// Exists 二维码是否存在
func (r *QRCodeRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.QRCode{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate("check qr code", err)
	}
	return count > 0, nil
}

// Create 创建二维码记录，码值冲突返回 ErrDuplicate
func (r *QRCodeRepository) Create(ctx context.Context, qr *entity.QRCode) error {
	return translate("create qr code", r.db.WithContext(ctx).Omit(clause.Associations).Create(qr).Error)
}

// UpdateFields 只写入给定列，并发修改不同字段互不覆盖。
// 按列更新不触发 BeforeSave，km_post 变化时在此同步 km_value
func (r *QRCodeRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	columns := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		columns[k] = v
	}
	if kmPost, ok := columns["km_post"].(string); ok {
		columns["km_value"] = entity.ParseKmPost(kmPost)
	}
	columns["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&entity.QRCode{}).
		Where("id = ?", id).
		UpdateColumns(columns)
	if result.Error != nil {
		return translate("update qr code", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TrackStatusItem 外部系统查询的线路状态
type TrackStatusItem struct {
	QRCode         entity.QRCode
	LastInspection *entity.Inspection
}

// FindTrackStatus 按位置和公里区间查询，附带扣件和最近一次检验
func (r *QRCodeRepository) FindTrackStatus(ctx context.Context, filters map[string]string) ([]TrackStatusItem, error) {
	var qrs []entity.QRCode

	query := applyQRFilters(r.db.WithContext(ctx).Model(&entity.QRCode{}), filters)
	if v, err := strconv.ParseFloat(filters["km_from"], 64); err == nil {
		query = query.Where("qr_codes.km_value >= ?", v)
	}
	if v, err := strconv.ParseFloat(filters["km_to"], 64); err == nil {
		query = query.Where("qr_codes.km_value <= ?", v)
	}

	if err := query.Joins("Fitting").Order("qr_codes.km_value ASC").Find(&qrs).Error; err != nil {
		return nil, translate("track status", err)
	}
	if len(qrs) == 0 {
		return []TrackStatusItem{}, nil
	}

	ids := make([]string, 0, len(qrs))
	for _, qr := range qrs {
		ids = append(ids, qr.ID)
	}

	var inspections []entity.Inspection
	if err := r.db.WithContext(ctx).
		Where("qr_code_id IN ?", ids).
		Order("inspection_date DESC").
		Find(&inspections).Error; err != nil {
		return nil, translate("track status inspections", err)
	}

	latest := make(map[string]*entity.Inspection, len(qrs))
	for i := range inspections {
		if _, ok := latest[inspections[i].QRCodeID]; !ok {
			latest[inspections[i].QRCodeID] = &inspections[i]
		}
	}

	items := make([]TrackStatusItem, 0, len(qrs))
	for _, qr := range qrs {
		items = append(items, TrackStatusItem{QRCode: qr, LastInspection: latest[qr.ID]})
	}
	return items, nil
}
