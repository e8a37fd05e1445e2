package entity

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QR码状态，任意状态之间可互相切换
const (
	QRStatusActive      = "active"
	QRStatusInactive    = "inactive"
	QRStatusMaintenance = "maintenance"
)

// ValidQRStatus 状态值是否合法
func ValidQRStatus(s string) bool {
	switch s {
	case QRStatusActive, QRStatusInactive, QRStatusMaintenance:
		return true
	}
	return false
}

// QRCode 一个已安装扣件实例的二维码记录
type QRCode struct {
	ID                string            `json:"id" gorm:"primaryKey;size:36"`
	Code              string            `json:"qr_code" gorm:"column:qr_code;size:32;not null;uniqueIndex"`
	FittingID         string            `json:"fitting_id" gorm:"size:36;not null;index"`
	BatchNumber       string            `json:"batch_number" gorm:"size:64"`
	ManufacturingDate *time.Time        `json:"manufacturing_date"`
	InstallationDate  *time.Time        `json:"installation_date"`
	Zone              string            `json:"zone" gorm:"size:64;not null;index:idx_qr_location"`
	Division          string            `json:"division" gorm:"size:64;not null;index:idx_qr_location"`
	Section           string            `json:"section" gorm:"size:128;not null;index:idx_qr_location"`
	KmPost            string            `json:"km_post" gorm:"size:32;not null"`
	KmValue           float64           `json:"-" gorm:"index"`
	TrackNumber       string            `json:"track_number" gorm:"size:32"`
	LocationDetails   datatypes.JSONMap `json:"location_details"`
	Status            string            `json:"status" gorm:"size:20;not null;default:active;index"`
	CreatedBy         string            `json:"created_by" gorm:"size:36"`
	CreatedAt         time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time         `json:"updated_at"`

	Fitting     *Fitting            `json:"track_fittings,omitempty" gorm:"foreignKey:FittingID"`
	Creator     *Profile            `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Inspections []Inspection        `json:"inspections,omitempty" gorm:"foreignKey:QRCodeID"`
	Maintenance []MaintenanceRecord `json:"maintenance_records,omitempty" gorm:"foreignKey:QRCodeID"`
}

func (QRCode) TableName() string {
	return "qr_codes"
}

// BeforeSave 同步公里标数值列，用于区间查询和排序
func (q *QRCode) BeforeSave(tx *gorm.DB) error {
	q.KmValue = ParseKmPost(q.KmPost)
	return nil
}

// ParseKmPost 解析 "125.500" 形式的公里标，无法解析时返回 0
func ParseKmPost(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "KM"), "km")
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
