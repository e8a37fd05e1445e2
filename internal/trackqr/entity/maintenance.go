package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	MaintenanceTypePreventive  = "preventive"
	MaintenanceTypeCorrective  = "corrective"
	MaintenanceTypeEmergency   = "emergency"
	MaintenanceTypeReplacement = "replacement"
)

const (
	MaintenanceStatusScheduled  = "scheduled"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
)

func ValidMaintenanceType(t string) bool {
	switch t {
	case MaintenanceTypePreventive, MaintenanceTypeCorrective, MaintenanceTypeEmergency, MaintenanceTypeReplacement:
		return true
	}
	return false
}

// PartUsed 维修使用的备件
type PartUsed struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MaintenanceRecord 维修记录，创建后只追加
type MaintenanceRecord struct {
	ID              string                        `json:"id" gorm:"primaryKey;size:36"`
	QRCodeID        string                        `json:"qr_code_id" gorm:"size:36;not null;index"`
	TechnicianID    string                        `json:"technician_id" gorm:"size:36;index"`
	MaintenanceDate time.Time                     `json:"maintenance_date" gorm:"not null;index"`
	MaintenanceType string                        `json:"maintenance_type" gorm:"size:20;not null"`
	WorkDescription string                        `json:"work_description" gorm:"type:text;not null"`
	PartsUsed       datatypes.JSONSlice[PartUsed] `json:"parts_used"`
	LaborHours      *float64                      `json:"labor_hours"`
	Cost            decimal.NullDecimal           `json:"cost" gorm:"type:decimal(12,2)"`
	Status          string                        `json:"status" gorm:"size:20;not null;default:completed"`
	CreatedAt       time.Time                     `json:"created_at"`

	QRCode     *QRCode  `json:"qr_codes,omitempty" gorm:"foreignKey:QRCodeID"`
	Technician *Profile `json:"technician,omitempty" gorm:"foreignKey:TechnicianID"`
}

func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}
