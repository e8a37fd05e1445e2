package repository

import (
	"context"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
)

// StatsRepository 看板统计，全部在数据库端 GROUP BY / COUNT
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// StatsFilter 统计范围
type StatsFilter struct {
	Zone     string
	Division string
	Dates    DateRange
}

func (f StatsFilter) hasLocation() bool {
	return f.Zone != "" || f.Division != ""
}

func (r *StatsRepository) qrScope(ctx context.Context, f StatsFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.QRCode{})
	if f.Zone != "" {
		query = query.Where("zone = ?", f.Zone)
	}
	if f.Division != "" {
		query = query.Where("division = ?", f.Division)
	}
	return query
}

// historyScope 检验/维修按所属二维码位置和日期过滤
func (r *StatsRepository) historyScope(ctx context.Context, model interface{}, dateColumn string, f StatsFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(model)
	if f.hasLocation() {
		query = query.Where("qr_code_id IN (?)", r.qrScope(ctx, f).Select("id"))
	}
	if !f.Dates.From.IsZero() {
		query = query.Where(dateColumn+" >= ?", f.Dates.From)
	}
	if !f.Dates.To.IsZero() {
		query = query.Where(dateColumn+" <= ?", f.Dates.To)
	}
	return query
}

// StatusCounts 二维码状态统计
type StatusCounts struct {
	Total       int64
	Active      int64
	Inactive    int64
	Maintenance int64
}

func (r *StatsRepository) QRStatusCounts(ctx context.Context, f StatsFilter) (StatusCounts, error) {
	var row StatusCounts
	err := r.qrScope(ctx, f).Select(`
		COUNT(*) AS total,
		COUNT(CASE WHEN status = 'active' THEN 1 END) AS active,
		COUNT(CASE WHEN status = 'inactive' THEN 1 END) AS inactive,
		COUNT(CASE WHEN status = 'maintenance' THEN 1 END) AS maintenance
	`).Scan(&row).Error
	return row, translate("qr status counts", err)
}

// ZoneCounts 按路局分组
func (r *StatsRepository) ZoneCounts(ctx context.Context, f StatsFilter) (map[string]int64, error) {
	var rows []struct {
		Zone  string
		Count int64
	}
	err := r.qrScope(ctx, f).Select("zone, COUNT(*) AS count").Group("zone").Scan(&rows).Error
	if err != nil {
		return nil, translate("zone counts", err)
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Zone] = row.Count
	}
	return result, nil
}

// RatingCounts 按状况评分分组，只返回数据库中出现的评分
func (r *StatsRepository) RatingCounts(ctx context.Context, f StatsFilter) (map[int]int64, error) {
	var rows []struct {
		ConditionRating int
		Count           int64
	}
	err := r.historyScope(ctx, &entity.Inspection{}, "inspection_date", f).
		Select("condition_rating, COUNT(*) AS count").
		Group("condition_rating").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("rating counts", err)
	}

	result := make(map[int]int64, len(rows))
	for _, row := range rows {
		result[row.ConditionRating] = row.Count
	}
	return result, nil
}

// InspectionCounts 检验总数与待处理数
func (r *StatsRepository) InspectionCounts(ctx context.Context, f StatsFilter) (total, pending int64, err error) {
	var row struct {
		Total   int64
		Pending int64
	}
	err = r.historyScope(ctx, &entity.Inspection{}, "inspection_date", f).Select(`
		COUNT(*) AS total,
		COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending
	`).Scan(&row).Error
	return row.Total, row.Pending, translate("inspection counts", err)
}

// MaintenanceCounts 维修总数与紧急维修数
func (r *StatsRepository) MaintenanceCounts(ctx context.Context, f StatsFilter) (total, emergency int64, err error) {
	var row struct {
		Total     int64
		Emergency int64
	}
	err = r.historyScope(ctx, &entity.MaintenanceRecord{}, "maintenance_date", f).Select(`
		COUNT(*) AS total,
		COUNT(CASE WHEN maintenance_type = 'emergency' THEN 1 END) AS emergency
	`).Scan(&row).Error
	return row.Total, row.Emergency, translate("maintenance counts", err)
}

// Count 单表计数
func (r *StatsRepository) Count(ctx context.Context, model interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Count(&count).Error
	return count, translate("count", err)
}

// Ping 数据库连通性
func (r *StatsRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}
