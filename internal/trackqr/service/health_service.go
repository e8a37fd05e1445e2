package service

import (
	"context"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// HealthStatistics 健康检查附带的计数
type HealthStatistics struct {
	TotalQRCodes     int64 `json:"total_qr_codes"`
	TotalUsers       int64 `json:"total_users"`
	TotalInspections int64 `json:"total_inspections"`
}

// HealthReport 健康检查结果
type HealthReport struct {
	Status     string            `json:"status"`
	Database   string            `json:"database"`
	Cache      string            `json:"cache"`
	Statistics *HealthStatistics `json:"statistics,omitempty"`
	Version    string            `json:"version,omitempty"`
	Error      string            `json:"error,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Healthy 数据库可用即为健康，缓存不可用只降级
func (r *HealthReport) Healthy() bool {
	return r.Status == "healthy"
}

// HealthService 服务健康检查
type HealthService struct {
	stats   *repository.StatsRepository
	rdb     *redis.Client
	version string
}

func NewHealthService(stats *repository.StatsRepository, rdb *redis.Client, version string) *HealthService {
	return &HealthService{stats: stats, rdb: rdb, version: version}
}

// Check 检查数据库与缓存，并统计二维码、用户、检验总数
func (s *HealthService) Check(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Cache:     s.cacheStatus(ctx),
		Timestamp: time.Now().UTC(),
	}

	if err := s.stats.Ping(ctx); err != nil {
		report.Status = "unhealthy"
		report.Database = "disconnected"
		report.Error = err.Error()
		return report
	}

	var st HealthStatistics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalQRCodes, err = s.stats.Count(gctx, &entity.QRCode{})
		return err
	})
	g.Go(func() (err error) {
		st.TotalUsers, err = s.stats.Count(gctx, &entity.Profile{})
		return err
	})
	g.Go(func() (err error) {
		st.TotalInspections, err = s.stats.Count(gctx, &entity.Inspection{})
		return err
	})
	if err := g.Wait(); err != nil {
		report.Status = "unhealthy"
		report.Database = "disconnected"
		report.Error = err.Error()
		return report
	}

	report.Status = "healthy"
	report.Database = "connected"
	report.Statistics = &st
	report.Version = s.version
	return report
}

func (s *HealthService) cacheStatus(ctx context.Context) string {
	if s.rdb == nil {
		return "disabled"
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return "disconnected"
	}
	return "connected"
}
