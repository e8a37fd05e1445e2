package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"gorm.io/datatypes"
)

// InspectionService 检验服务
type InspectionService struct {
	repo   *repository.InspectionRepository
	qrRepo *repository.QRCodeRepository
}

func NewInspectionService(repo *repository.InspectionRepository, qrRepo *repository.QRCodeRepository) *InspectionService {
	return &InspectionService{repo: repo, qrRepo: qrRepo}
}

// ListInspections 检验列表
func (s *InspectionService) ListInspections(ctx context.Context, limit int, filters map[string]string, dates repository.DateRange) ([]entity.Inspection, error) {
	return s.repo.FindAll(ctx, limit, filters, dates)
}

// CreateInspectionRequest 检验录入
type CreateInspectionRequest struct {
	QRCodeID          string     `json:"qr_code_id"`
	InspectionType    string     `json:"inspection_type"`
	ConditionRating   FlexNumber `json:"condition_rating"`
	Observations      string     `json:"observations"`
	DefectsFound      StringList `json:"defects_found"`
	Recommendations   string     `json:"recommendations"`
	NextInspectionDue string     `json:"next_inspection_due"`
	InspectionDate    string     `json:"inspection_date"`
	Status            string     `json:"status"`
}

// ValidateRating 状况评分必须是 1-5 的整数，不做截断
func ValidateRating(n FlexNumber) (int, error) {
	if !n.IsSet() {
		return 0, missingField("condition_rating")
	}
	rating, err := n.Int()
	if err != nil || rating < entity.MinConditionRating || rating > entity.MaxConditionRating {
		return 0, invalidField("condition_rating", "condition_rating must be an integer between %d and %d", entity.MinConditionRating, entity.MaxConditionRating)
	}
	return rating, nil
}

// CreateInspection 录入检验，引用的二维码必须存在
func (s *InspectionService) CreateInspection(ctx context.Context, session *Session, req *CreateInspectionRequest) (*entity.Inspection, error) {
	if strings.TrimSpace(req.QRCodeID) == "" {
		return nil, missingField("qr_code_id")
	}
	if strings.TrimSpace(req.InspectionType) == "" {
		return nil, missingField("inspection_type")
	}
	rating, err := ValidateRating(req.ConditionRating)
	if err != nil {
		return nil, err
	}
	if !entity.ValidInspectionType(req.InspectionType) {
		return nil, invalidField("inspection_type", "Invalid inspection_type: %s", req.InspectionType)
	}

	status := entity.InspectionStatusCompleted
	if req.Status != "" {
		if req.Status != entity.InspectionStatusPending && req.Status != entity.InspectionStatusCompleted {
			return nil, invalidField("status", "Invalid status: %s", req.Status)
		}
		status = req.Status
	}

	nextDue, err := parseOptionalDate("next_inspection_due", req.NextInspectionDue)
	if err != nil {
		return nil, err
	}
	inspectedAt, err := parseOptionalDate("inspection_date", req.InspectionDate)
	if err != nil {
		return nil, err
	}
	if inspectedAt == nil {
		now := time.Now()
		inspectedAt = &now
	}

	exists, err := s.qrRepo.Exists(ctx, req.QRCodeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, invalidField("qr_code_id", "QR code not found: %s", req.QRCodeID)
	}

	defects := []string(req.DefectsFound)
	if defects == nil {
		defects = []string{}
	}

	inspection := &entity.Inspection{
		ID:                uuid.New().String(),
		QRCodeID:          req.QRCodeID,
		InspectorID:       session.UserID,
		InspectionDate:    *inspectedAt,
		InspectionType:    req.InspectionType,
		ConditionRating:   rating,
		Observations:      req.Observations,
		DefectsFound:      datatypes.NewJSONSlice(defects),
		Recommendations:   req.Recommendations,
		NextInspectionDue: nextDue,
		Status:            status,
	}

	if err := s.repo.Create(ctx, inspection); err != nil {
		return nil, err
	}
	return inspection, nil
}
