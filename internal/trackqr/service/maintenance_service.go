package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MaintenanceService 维修服务
type MaintenanceService struct {
	repo   *repository.MaintenanceRepository
	qrRepo *repository.QRCodeRepository
}

func NewMaintenanceService(repo *repository.MaintenanceRepository, qrRepo *repository.QRCodeRepository) *MaintenanceService {
	return &MaintenanceService{repo: repo, qrRepo: qrRepo}
}

// ListMaintenance 维修列表
func (s *MaintenanceService) ListMaintenance(ctx context.Context, limit int, filters map[string]string, dates repository.DateRange) ([]entity.MaintenanceRecord, error) {
	return s.repo.FindAll(ctx, limit, filters, dates)
}

// CreateMaintenanceRequest 维修录入
type CreateMaintenanceRequest struct {
	QRCodeID        string     `json:"qr_code_id"`
	MaintenanceType string     `json:"maintenance_type"`
	WorkDescription string     `json:"work_description"`
	PartsUsed       PartsList  `json:"parts_used"`
	LaborHours      FlexNumber `json:"labor_hours"`
	Cost            FlexNumber `json:"cost"`
	MaintenanceDate string     `json:"maintenance_date"`
	Status          string     `json:"status"`
}

// CreateMaintenance 录入维修记录，引用的二维码必须存在
func (s *MaintenanceService) CreateMaintenance(ctx context.Context, session *Session, req *CreateMaintenanceRequest) (*entity.MaintenanceRecord, error) {
	if strings.TrimSpace(req.QRCodeID) == "" {
		return nil, missingField("qr_code_id")
	}
	if strings.TrimSpace(req.MaintenanceType) == "" {
		return nil, missingField("maintenance_type")
	}
	if strings.TrimSpace(req.WorkDescription) == "" {
		return nil, missingField("work_description")
	}
	if !entity.ValidMaintenanceType(req.MaintenanceType) {
		return nil, invalidField("maintenance_type", "Invalid maintenance_type: %s", req.MaintenanceType)
	}

	status := entity.MaintenanceStatusCompleted
	switch req.Status {
	case "":
	case entity.MaintenanceStatusScheduled, entity.MaintenanceStatusInProgress, entity.MaintenanceStatusCompleted:
		status = req.Status
	default:
		return nil, invalidField("status", "Invalid status: %s", req.Status)
	}

	var laborHours *float64
	if req.LaborHours.IsSet() {
		v, err := req.LaborHours.Float()
		if err != nil || v < 0 {
			return nil, invalidField("labor_hours", "labor_hours must be a non-negative number")
		}
		laborHours = &v
	}

	var cost decimal.NullDecimal
	if req.Cost.IsSet() {
		v, err := req.Cost.Decimal()
		if err != nil || v.IsNegative() {
			return nil, invalidField("cost", "cost must be a non-negative number")
		}
		cost = decimal.NewNullDecimal(v.Round(2))
	}

	performedAt, err := parseOptionalDate("maintenance_date", req.MaintenanceDate)
	if err != nil {
		return nil, err
	}
	if performedAt == nil {
		now := time.Now()
		performedAt = &now
	}

	exists, err := s.qrRepo.Exists(ctx, req.QRCodeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, invalidField("qr_code_id", "QR code not found: %s", req.QRCodeID)
	}

	parts := []entity.PartUsed(req.PartsUsed)
	if parts == nil {
		parts = []entity.PartUsed{}
	}

	record := &entity.MaintenanceRecord{
		ID:              uuid.New().String(),
		QRCodeID:        req.QRCodeID,
		TechnicianID:    session.UserID,
		MaintenanceDate: *performedAt,
		MaintenanceType: req.MaintenanceType,
		WorkDescription: req.WorkDescription,
		PartsUsed:       datatypes.NewJSONSlice(parts),
		LaborHours:      laborHours,
		Cost:            cost,
		Status:          status,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
