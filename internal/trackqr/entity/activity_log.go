package entity

import (
	"time"

	"gorm.io/datatypes"
)

// 审计日志动作
const (
	ActionQRScan           = "QR_SCAN"
	ActionTMSUpdate        = "TMS_UPDATE"
	ActionQRCreate         = "QR_CREATE"
	ActionQRUpdate         = "QR_UPDATE"
	ActionFittingSync      = "FITTING_SYNC"
	ActionUserRoleChange   = "USER_ROLE_CHANGE"
	ActionUserStatusChange = "USER_STATUS_CHANGE"
)

// ActivityLog 审计日志，只追加
type ActivityLog struct {
	ID        string            `json:"id" gorm:"primaryKey;size:36"`
	QRCodeID  *string           `json:"qr_code_id" gorm:"size:36;index"`
	UserID    *string           `json:"user_id" gorm:"size:36;index"`
	Action    string            `json:"action" gorm:"size:50;not null;index"`
	Details   datatypes.JSONMap `json:"details"`
	CreatedAt time.Time         `json:"created_at" gorm:"index"`

	QRCode *QRCode  `json:"qr_codes,omitempty" gorm:"foreignKey:QRCodeID"`
	User   *Profile `json:"profiles,omitempty" gorm:"foreignKey:UserID"`
}

func (ActivityLog) TableName() string {
	return "audit_logs"
}
