package service

import (
	"context"
	"math"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"golang.org/x/sync/errgroup"
)

// RecentActivityLimit 看板最近动态条数
const RecentActivityLimit = 20

// AnalyticsService 看板统计
type AnalyticsService struct {
	stats        *repository.StatsRepository
	activityRepo *repository.ActivityLogRepository
}

func NewAnalyticsService(stats *repository.StatsRepository, activityRepo *repository.ActivityLogRepository) *AnalyticsService {
	return &AnalyticsService{stats: stats, activityRepo: activityRepo}
}

// Summary 汇总
type Summary struct {
	TotalQRCodes         int64 `json:"total_qr_codes"`
	ActiveQRCodes        int64 `json:"active_qr_codes"`
	InactiveQRCodes      int64 `json:"inactive_qr_codes"`
	MaintenanceQRCodes   int64 `json:"maintenance_qr_codes"`
	TotalInspections     int64 `json:"total_inspections"`
	PendingInspections   int64 `json:"pending_inspections"`
	TotalMaintenance     int64 `json:"total_maintenance"`
	EmergencyMaintenance int64 `json:"emergency_maintenance"`
	HealthScore          int   `json:"health_score"`
	InspectionRate       int   `json:"inspection_rate"`
}

// RatingCount 评分分布
type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// Distributions 分布
type Distributions struct {
	Zones            map[string]int64 `json:"zones"`
	ConditionRatings []RatingCount    `json:"condition_ratings"`
}

// Analytics 看板快照，每次请求重新计算
type Analytics struct {
	Summary        Summary              `json:"summary"`
	Distributions  Distributions        `json:"distributions"`
	RecentActivity []entity.ActivityLog `json:"recent_activity"`
}

// Percentage round(100 * part / total)，total 为 0 时返回 0，结果限制在 [0,100]
func Percentage(part, total int64) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

// GetAnalytics 并发执行各项统计，任一失败则整体失败
func (s *AnalyticsService) GetAnalytics(ctx context.Context, session *Session, filter repository.StatsFilter) (*Analytics, error) {
	if !session.CanManageQRCodes() {
		return nil, ErrForbidden
	}

	var (
		status                 repository.StatusCounts
		zones                  map[string]int64
		ratings                map[int]int64
		inspections, pending   int64
		maintenance, emergency int64
		recent                 []entity.ActivityLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		status, err = s.stats.QRStatusCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		zones, err = s.stats.ZoneCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		ratings, err = s.stats.RatingCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		inspections, pending, err = s.stats.InspectionCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		maintenance, emergency, err = s.stats.MaintenanceCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.activityRepo.FindAll(gctx, RecentActivityLimit, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ratingDist := make([]RatingCount, 0, entity.MaxConditionRating)
	for r := entity.MinConditionRating; r <= entity.MaxConditionRating; r++ {
		ratingDist = append(ratingDist, RatingCount{Rating: r, Count: ratings[r]})
	}
	if recent == nil {
		recent = []entity.ActivityLog{}
	}

	return &Analytics{
		Summary: Summary{
			TotalQRCodes:         status.Total,
			ActiveQRCodes:        status.Active,
			InactiveQRCodes:      status.Inactive,
			MaintenanceQRCodes:   status.Maintenance,
			TotalInspections:     inspections,
			PendingInspections:   pending,
			TotalMaintenance:     maintenance,
			EmergencyMaintenance: emergency,
			HealthScore:          Percentage(status.Active, status.Total),
			InspectionRate:       Percentage(inspections, status.Total),
		},
		Distributions: Distributions{
			Zones:            zones,
			ConditionRatings: ratingDist,
		},
		RecentActivity: recent,
	}, nil
}
