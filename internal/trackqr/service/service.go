package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ActivitySink 审计日志出口，实现方不得阻塞调用方
type ActivitySink interface {
	Record(log *entity.ActivityLog)
}

// EventPublisher 实时事件广播
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type nopSink struct{}

func (nopSink) Record(*entity.ActivityLog) {}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// newActivity userID 为空时记为系统操作
func newActivity(action string, qrCodeID *string, userID string, details map[string]interface{}) *entity.ActivityLog {
	log := &entity.ActivityLog{
		ID:        uuid.New().String(),
		QRCodeID:  qrCodeID,
		Action:    action,
		Details:   datatypes.JSONMap(details),
		CreatedAt: time.Now(),
	}
	if userID != "" {
		log.UserID = &userID
	}
	return log
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOptionalDate 空值返回 nil
func parseOptionalDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, ok := parseDate(value)
	if !ok {
		return nil, invalidField(field, "Invalid date for %s: %s", field, value)
	}
	return &t, nil
}

// ParseDateRange 解析 date_from / date_to；仅有日期的 date_to 包含当天
func ParseDateRange(from, to string) (repository.DateRange, error) {
	var r repository.DateRange

	if from = strings.TrimSpace(from); from != "" {
		t, ok := parseDate(from)
		if !ok {
			return r, invalidField("date_from", "Invalid date for date_from: %s", from)
		}
		r.From = t
	}
	if to = strings.TrimSpace(to); to != "" {
		t, ok := parseDate(to)
		if !ok {
			return r, invalidField("date_to", "Invalid date for date_to: %s", to)
		}
		if len(to) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.To = t
	}
	return r, nil
}

// Services 服务集合
type Services struct {
	Session     *SessionService
	QRCode      *QRCodeService
	Scan        *ScanService
	Inspection  *InspectionService
	Maintenance *MaintenanceService
	Analytics   *AnalyticsService
	Sync        *SyncService
	Fitting     *FittingService
	Profile     *ProfileService
	Activity    *ActivityService
	Health      *HealthService
	Export      *ExportService
}

// Deps 构造服务集合所需的外部依赖
type Deps struct {
	Redis      *redis.Client
	SessionTTL time.Duration
	Archive    ArchiveStore
	Activity   ActivitySink
	Events     EventPublisher
	Version    string
	Logger     *zap.Logger
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, deps Deps) *Services {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Activity == nil {
		deps.Activity = nopSink{}
	}
	if deps.Events == nil {
		deps.Events = nopPublisher{}
	}

	sessionSvc := NewSessionService(repos.Profile, deps.Redis, deps.SessionTTL, deps.Logger)

	qrSvc := NewQRCodeService(repos.QRCode, repos.Fitting, NewCodeGenerator(), deps.Logger)
	qrSvc.SetActivitySink(deps.Activity)
	qrSvc.SetEventPublisher(deps.Events)

	scanSvc := NewScanService(repos.QRCode, deps.Activity, deps.Logger)
	scanSvc.SetEventPublisher(deps.Events)

	fittingSvc := NewFittingService(repos.Fitting, deps.Activity)

	syncSvc := NewSyncService(repos.QRCode, fittingSvc, deps.Activity)
	syncSvc.SetEventPublisher(deps.Events)

	profileSvc := NewProfileService(repos.Profile, sessionSvc)
	profileSvc.SetActivitySink(deps.Activity)

	return &Services{
		Session:     sessionSvc,
		QRCode:      qrSvc,
		Scan:        scanSvc,
		Inspection:  NewInspectionService(repos.Inspection, repos.QRCode),
		Maintenance: NewMaintenanceService(repos.Maintenance, repos.QRCode),
		Analytics:   NewAnalyticsService(repos.Stats, repos.ActivityLog),
		Sync:        syncSvc,
		Fitting:     fittingSvc,
		Profile:     profileSvc,
		Activity:    NewActivityService(repos.ActivityLog),
		Health:      NewHealthService(repos.Stats, deps.Redis, deps.Version),
		Export:      NewExportService(repos.QRCode, deps.Archive, deps.Logger),
	}
}
