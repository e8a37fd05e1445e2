package entity

import "time"

// 用户角色
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleTechnician = "technician"
	RoleViewer     = "viewer"
)

// 账号状态
const (
	ProfileStatusActive   = "active"
	ProfileStatusPending  = "pending"
	ProfileStatusInactive = "inactive"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleTechnician, RoleViewer:
		return true
	}
	return false
}

func ValidProfileStatus(s string) bool {
	switch s {
	case ProfileStatusActive, ProfileStatusPending, ProfileStatusInactive:
		return true
	}
	return false
}

// Profile 用户档案，ID 即身份服务的用户标识
type Profile struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"size:200"`
	EmployeeID string    `json:"employee_id" gorm:"size:50"`
	Role       string    `json:"role" gorm:"size:20;not null;default:viewer;index"`
	Department string    `json:"department" gorm:"size:100"`
	Zone       string    `json:"zone" gorm:"size:64"`
	Division   string    `json:"division" gorm:"size:64"`
	Status     string    `json:"status" gorm:"size:20;not null;default:pending;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// AllModels 迁移用的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&Profile{},
		&Fitting{},
		&QRCode{},
		&Inspection{},
		&MaintenanceRecord{},
		&ActivityLog{},
	}
}
