package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FittingRepository 扣件目录仓库
type FittingRepository struct {
	db *gorm.DB
}

func NewFittingRepository(db *gorm.DB) *FittingRepository {
	return &FittingRepository{db: db}
}

// FindAll 查询扣件目录
func (r *FittingRepository) FindAll(ctx context.Context, limit int, filters map[string]string) ([]entity.Fitting, error) {
	var items []entity.Fitting

	query := r.db.WithContext(ctx).Model(&entity.Fitting{})

	if q := strings.TrimSpace(filters["q"]); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(part_number) LIKE ?", like, like)
	}
	if manufacturer := filters["manufacturer"]; manufacturer != "" {
		query = query.Where("manufacturer = ?", manufacturer)
	}

	err := query.Order("part_number ASC").Limit(clampLimit(limit)).Find(&items).Error
	return items, translate("list fittings", err)
}

// FindByID 根据ID查找
func (r *FittingRepository) FindByID(ctx context.Context, id string) (*entity.Fitting, error) {
	var fitting entity.Fitting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fitting).Error; err != nil {
		return nil, translate("find fitting", err)
	}
	return &fitting, nil
}

// FindByPartNumber 根据零件号查找
func (r *FittingRepository) FindByPartNumber(ctx context.Context, partNumber string) (*entity.Fitting, error) {
	var fitting entity.Fitting
	if err := r.db.WithContext(ctx).Where("part_number = ?", partNumber).First(&fitting).Error; err != nil {
		return nil, translate("find fitting", err)
	}
	return &fitting, nil
}

// Upsert 按零件号插入或更新，返回库中的最新记录
func (r *FittingRepository) Upsert(ctx context.Context, fitting *entity.Fitting) (*entity.Fitting, error) {
	if fitting.ID == "" {
		fitting.ID = uuid.New().String()
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "part_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "manufacturer", "material", "weight_kg",
			"dimensions", "specifications", "safety_standards", "updated_at",
		}),
	}).Create(fitting).Error
	if err != nil {
		return nil, translate("upsert fitting", err)
	}

	// 冲突更新时 fitting.ID 仍是新生成的值，重新读取
	return r.FindByPartNumber(ctx, fitting.PartNumber)
}
