package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/metrics"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// MaxCodeAttempts 码值冲突时的最大生成次数
const MaxCodeAttempts = 5

// QRCodeService 二维码登记与维护
type QRCodeService struct {
	repo        *repository.QRCodeRepository
	fittingRepo *repository.FittingRepository
	gen         *CodeGenerator
	activity    ActivitySink
	events      EventPublisher
	logger      *zap.Logger
}

func NewQRCodeService(repo *repository.QRCodeRepository, fittingRepo *repository.FittingRepository, gen *CodeGenerator, logger *zap.Logger) *QRCodeService {
	return &QRCodeService{
		repo:        repo,
		fittingRepo: fittingRepo,
		gen:         gen,
		activity:    nopSink{},
		events:      nopPublisher{},
		logger:      logger,
	}
}

// SetActivitySink 注入审计日志
func (s *QRCodeService) SetActivitySink(sink ActivitySink) {
	s.activity = sink
}

// SetEventPublisher 注入实时事件
func (s *QRCodeService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// ListQRCodes 二维码列表
func (s *QRCodeService) ListQRCodes(ctx context.Context, limit, offset int, filters map[string]string) ([]entity.QRCode, error) {
	return s.repo.FindAll(ctx, limit, offset, filters)
}

// GetQRCode 二维码详情（含全部历史）
func (s *QRCodeService) GetQRCode(ctx context.Context, id string) (*entity.QRCode, error) {
	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "QR code not found")
	}
	return qr, nil
}

// RegisterQRCodeRequest 登记请求
type RegisterQRCodeRequest struct {
	FittingID         string `json:"fitting_id"`
	Zone              string `json:"zone"`
	Division          string `json:"division"`
	Section           string `json:"section"`
	KmPost            string `json:"km_post"`
	BatchNumber       string `json:"batch_number"`
	ManufacturingDate string `json:"manufacturing_date"`
	InstallationDate  string `json:"installation_date"`
	TrackNumber       string `json:"track_number"`
	LocationDetails   string `json:"location_details"`
	Coordinates       string `json:"coordinates"`
	Landmarks         string `json:"landmarks"`
}

func (r *RegisterQRCodeRequest) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"fitting_id", r.FittingID},
		{"zone", r.Zone},
		{"division", r.Division},
		{"section", r.Section},
		{"km_post", r.KmPost},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return missingField(f.name)
		}
	}
	return nil
}

// RegisterQRCode 登记新扣件并生成二维码，码值冲突时换新码重试
func (s *QRCodeService) RegisterQRCode(ctx context.Context, session *Session, req *RegisterQRCodeRequest) (*entity.QRCode, error) {
	if !session.CanManageQRCodes() {
		return nil, ErrForbidden
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	mfgDate, err := parseOptionalDate("manufacturing_date", req.ManufacturingDate)
	if err != nil {
		return nil, err
	}
	installDate, err := parseOptionalDate("installation_date", req.InstallationDate)
	if err != nil {
		return nil, err
	}

	fitting, err := s.fittingRepo.FindByID(ctx, req.FittingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("fitting_id", "Fitting not found: %s", req.FittingID)
		}
		return nil, err
	}

	qr := &entity.QRCode{
		FittingID:         fitting.ID,
		BatchNumber:       strings.TrimSpace(req.BatchNumber),
		ManufacturingDate: mfgDate,
		InstallationDate:  installDate,
		Zone:              strings.TrimSpace(req.Zone),
		Division:          strings.TrimSpace(req.Division),
		Section:           strings.TrimSpace(req.Section),
		KmPost:            strings.TrimSpace(req.KmPost),
		TrackNumber:       strings.TrimSpace(req.TrackNumber),
		LocationDetails: datatypes.JSONMap{
			"description": req.LocationDetails,
			"coordinates": req.Coordinates,
			"landmarks":   req.Landmarks,
		},
		Status:    entity.QRStatusActive,
		CreatedBy: session.UserID,
	}

	created := false
	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		qr.ID = uuid.New().String()
		qr.Code = s.gen.Generate()

		err = s.repo.Create(ctx, qr)
		if err == nil {
			created = true
			break
		}
		if !repository.IsDuplicate(err) {
			return nil, err
		}
		metrics.CodeCollisions.Inc()
		s.logger.Warn("QR code collision, regenerating",
			zap.String("qr_code", qr.Code),
			zap.Int("attempt", attempt),
		)
	}
	if !created {
		return nil, ErrDuplicateCode
	}

	qr.Fitting = fitting
	s.activity.Record(newActivity(entity.ActionQRCreate, &qr.ID, session.UserID, map[string]interface{}{
		"qr_code":  qr.Code,
		"zone":     qr.Zone,
		"division": qr.Division,
		"section":  qr.Section,
		"km_post":  qr.KmPost,
	}))
	s.events.Publish("qr_update", map[string]interface{}{"id": qr.ID, "qr_code": qr.Code, "action": "created"})

	return qr, nil
}

// UpdateQRCodeRequest 修改状态/位置，nil 表示不修改
type UpdateQRCodeRequest struct {
	Status          *string                `json:"status"`
	Zone            *string                `json:"zone"`
	Division        *string                `json:"division"`
	Section         *string                `json:"section"`
	KmPost          *string                `json:"km_post"`
	TrackNumber     *string                `json:"track_number"`
	LocationDetails map[string]interface{} `json:"location_details"`
}

// UpdateQRCode 更新二维码记录。状态之间无流转约束
func (s *QRCodeService) UpdateQRCode(ctx context.Context, session *Session, id string, req *UpdateQRCodeRequest) (*entity.QRCode, error) {
	if !session.CanManageQRCodes() {
		return nil, ErrForbidden
	}

	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "QR code not found")
	}

	fromStatus := qr.Status
	changes := map[string]interface{}{}

	if req.Status != nil {
		if !entity.ValidQRStatus(*req.Status) {
			return nil, invalidField("status", "Invalid status: %s", *req.Status)
		}
		changes["status"] = *req.Status
	}

	location := []struct {
		name  string
		value *string
	}{
		{"zone", req.Zone},
		{"division", req.Division},
		{"section", req.Section},
		{"km_post", req.KmPost},
	}
	for _, f := range location {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, missingField(f.name)
		}
		changes[f.name] = v
	}
	if req.TrackNumber != nil {
		v := strings.TrimSpace(*req.TrackNumber)
		changes["track_number"] = v
	}
	if req.LocationDetails != nil {
		changes["location_details"] = datatypes.JSONMap(req.LocationDetails)
	}

	if len(changes) > 0 {
		if err := s.repo.UpdateFields(ctx, qr.ID, changes); err != nil {
			return nil, notFound(err, "QR code not found")
		}
		if qr, err = s.repo.FindByID(ctx, id); err != nil {
			return nil, notFound(err, "QR code not found")
		}
	}

	s.activity.Record(newActivity(entity.ActionQRUpdate, &qr.ID, session.UserID, map[string]interface{}{
		"qr_code":     qr.Code,
		"from_status": fromStatus,
		"to_status":   qr.Status,
		"changes":     changes,
	}))
	s.events.Publish("qr_update", map[string]interface{}{"id": qr.ID, "qr_code": qr.Code, "action": "updated", "status": qr.Status})

	return qr, nil
}
