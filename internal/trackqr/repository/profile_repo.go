package repository

import (
	"context"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
)

// ProfileRepository 用户档案仓库
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID 根据用户标识查找
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translate("find profile", err)
	}
	return &profile, nil
}

// FindAll 用户列表
func (r *ProfileRepository) FindAll(ctx context.Context, limit int, filters map[string]string) ([]entity.Profile, error) {
	var items []entity.Profile

	query := r.db.WithContext(ctx).Model(&entity.Profile{})
	if role := filters["role"]; role != "" {
		query = query.Where("role = ?", role)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Order("created_at DESC").Limit(clampLimit(limit)).Find(&items).Error
	return items, translate("list profiles", err)
}

// Create 创建档案，已存在时返回 ErrDuplicate
func (r *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	return translate("create profile", r.db.WithContext(ctx).Create(profile).Error)
}

// UpdateField 更新单个字段（role / status）
func (r *ProfileRepository) UpdateField(ctx context.Context, id, column, value string) (*entity.Profile, error) {
	result := r.db.WithContext(ctx).Model(&entity.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, translate("update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
