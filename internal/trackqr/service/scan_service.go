package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/metrics"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"go.uber.org/zap"
)

// ScanHistoryLimit 扫码返回的最近检验/维修条数
const ScanHistoryLimit = 3

// DefaultScanMethod 未指定扫码方式时的默认值
const DefaultScanMethod = "api"

// ScanService 扫码解析
type ScanService struct {
	repo     *repository.QRCodeRepository
	activity ActivitySink
	events   EventPublisher
	logger   *zap.Logger
}

func NewScanService(repo *repository.QRCodeRepository, activity ActivitySink, logger *zap.Logger) *ScanService {
	if activity == nil {
		activity = nopSink{}
	}
	return &ScanService{repo: repo, activity: activity, events: nopPublisher{}, logger: logger}
}

func (s *ScanService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// ScanRequest 扫码请求
type ScanRequest struct {
	QRCode     string      `json:"qr_code"`
	ScanMethod string      `json:"scan_method"`
	Location   interface{} `json:"location"`
	DeviceInfo interface{} `json:"device_info"`
}

// ScanResult 扫码结果：二维码 + 扣件 + 最近历史
type ScanResult struct {
	*entity.QRCode
	RecentInspections []entity.Inspection        `json:"recent_inspections"`
	RecentMaintenance []entity.MaintenanceRecord `json:"recent_maintenance"`
}

// Scan 解析码值并记录一次 QR_SCAN。日志写入失败不影响结果
func (s *ScanService) Scan(ctx context.Context, session *Session, req *ScanRequest) (*ScanResult, error) {
	code := strings.TrimSpace(req.QRCode)
	if code == "" {
		return nil, &ValidationError{Field: "qr_code", Message: "QR code is required"}
	}

	qr, err := s.repo.FindForScan(ctx, code, ScanHistoryLimit)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Scans.WithLabelValues("not_found").Inc()
			return nil, &NotFoundError{Message: "QR code not found"}
		}
		metrics.Scans.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Scans.WithLabelValues("found").Inc()

	method := strings.TrimSpace(req.ScanMethod)
	if method == "" {
		method = DefaultScanMethod
	}

	qrID := qr.ID
	scannedAt := time.Now().UTC()
	s.activity.Record(newActivity(entity.ActionQRScan, &qrID, session.UserID, map[string]interface{}{
		"scanned_at":  scannedAt.Format(time.RFC3339Nano),
		"scan_method": method,
		"location":    req.Location,
		"device_info": req.DeviceInfo,
	}))
	s.events.Publish("scan", map[string]interface{}{
		"qr_code":     qr.Code,
		"user_id":     session.UserID,
		"scan_method": method,
		"scanned_at":  scannedAt,
	})

	result := &ScanResult{
		QRCode:            qr,
		RecentInspections: qr.Inspections,
		RecentMaintenance: qr.Maintenance,
	}
	if result.RecentInspections == nil {
		result.RecentInspections = []entity.Inspection{}
	}
	if result.RecentMaintenance == nil {
		result.RecentMaintenance = []entity.MaintenanceRecord{}
	}
	// 历史只通过 recent_* 字段返回
	qr.Inspections = nil
	qr.Maintenance = nil

	return result, nil
}
