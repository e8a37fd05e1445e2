package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Fitting 轨道扣件目录，按零件号 upsert，不删除
type Fitting struct {
	ID              string                      `json:"id" gorm:"primaryKey;size:36"`
	PartNumber      string                      `json:"part_number" gorm:"size:64;not null;uniqueIndex"`
	Name            string                      `json:"name" gorm:"size:200;not null"`
	Manufacturer    string                      `json:"manufacturer" gorm:"size:200"`
	Material        string                      `json:"material" gorm:"size:100"`
	WeightKg        *float64                    `json:"weight_kg"`
	Dimensions      datatypes.JSONMap           `json:"dimensions"`
	Specifications  datatypes.JSONMap           `json:"specifications"`
	SafetyStandards datatypes.JSONSlice[string] `json:"safety_standards"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func (Fitting) TableName() string {
	return "track_fittings"
}
