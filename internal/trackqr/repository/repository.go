package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// pgUniqueViolation postgres unique_violation
const pgUniqueViolation = "23505"

// StoreError 存储层失败，Error() 直接透传底层消息
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// translate 统一转换 gorm 错误
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if IsDuplicate(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return &StoreError{Op: op, Err: err}
}

// IsDuplicate 是否唯一约束冲突
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite: "UNIQUE constraint failed: qr_codes.qr_code"
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// Repositories 仓库集合
type Repositories struct {
	Fitting     *FittingRepository
	QRCode      *QRCodeRepository
	Inspection  *InspectionRepository
	Maintenance *MaintenanceRepository
	ActivityLog *ActivityLogRepository
	Profile     *ProfileRepository
	Stats       *StatsRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Fitting:     NewFittingRepository(db),
		QRCode:      NewQRCodeRepository(db),
		Inspection:  NewInspectionRepository(db),
		Maintenance: NewMaintenanceRepository(db),
		ActivityLog: NewActivityLogRepository(db),
		Profile:     NewProfileRepository(db),
		Stats:       NewStatsRepository(db),
	}
}

// clampLimit 列表条数：默认 50，上限 500
func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 500 {
		return 500
	}
	return limit
}
