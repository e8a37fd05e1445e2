package repository

import (
	"fmt"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"gorm.io/gorm"
)

// postgresConstraints 检验、维修必须引用已存在的二维码
var postgresConstraints = []string{
	"ALTER TABLE inspections DROP CONSTRAINT IF EXISTS fk_inspections_qr_code",
	"ALTER TABLE inspections ADD CONSTRAINT fk_inspections_qr_code FOREIGN KEY (qr_code_id) REFERENCES qr_codes(id)",
	"ALTER TABLE maintenance_records DROP CONSTRAINT IF EXISTS fk_maintenance_qr_code",
	"ALTER TABLE maintenance_records ADD CONSTRAINT fk_maintenance_qr_code FOREIGN KEY (qr_code_id) REFERENCES qr_codes(id)",
	"ALTER TABLE qr_codes DROP CONSTRAINT IF EXISTS qr_codes_status_check",
	"ALTER TABLE qr_codes ADD CONSTRAINT qr_codes_status_check CHECK (status IN ('active', 'inactive', 'maintenance'))",
	"ALTER TABLE inspections DROP CONSTRAINT IF EXISTS inspections_rating_check",
	"ALTER TABLE inspections ADD CONSTRAINT inspections_rating_check CHECK (condition_rating BETWEEN 1 AND 5)",
}

// Migrate 建表；postgres 额外补充约束
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range postgresConstraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
