package entity

import (
	"time"

	"gorm.io/datatypes"
)

// 检验类型
const (
	InspectionTypeRoutine     = "routine"
	InspectionTypeSpecial     = "special"
	InspectionTypeEmergency   = "emergency"
	InspectionTypeMaintenance = "maintenance"
)

// 检验状态
const (
	InspectionStatusPending   = "pending"
	InspectionStatusCompleted = "completed"
)

const (
	MinConditionRating = 1
	MaxConditionRating = 5
)

func ValidInspectionType(t string) bool {
	switch t {
	case InspectionTypeRoutine, InspectionTypeSpecial, InspectionTypeEmergency, InspectionTypeMaintenance:
		return true
	}
	return false
}

// Inspection 检验记录，创建后只追加
type Inspection struct {
	ID                string                      `json:"id" gorm:"primaryKey;size:36"`
	QRCodeID          string                      `json:"qr_code_id" gorm:"size:36;not null;index"`
	InspectorID       string                      `json:"inspector_id" gorm:"size:36;index"`
	InspectionDate    time.Time                   `json:"inspection_date" gorm:"not null;index"`
	InspectionType    string                      `json:"inspection_type" gorm:"size:20;not null"`
	ConditionRating   int                         `json:"condition_rating" gorm:"not null"`
	Observations      string                      `json:"observations" gorm:"type:text"`
	DefectsFound      datatypes.JSONSlice[string] `json:"defects_found"`
	Recommendations   string                      `json:"recommendations" gorm:"type:text"`
	NextInspectionDue *time.Time                  `json:"next_inspection_due"`
	Status            string                      `json:"status" gorm:"size:20;not null;default:completed"`
	CreatedAt         time.Time                   `json:"created_at"`

	QRCode    *QRCode  `json:"qr_codes,omitempty" gorm:"foreignKey:QRCodeID"`
	Inspector *Profile `json:"inspector,omitempty" gorm:"foreignKey:InspectorID"`
}

func (Inspection) TableName() string {
	return "inspections"
}
