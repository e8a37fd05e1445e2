package service

import (
	"context"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
)

// ActivityService 审计日志查询
type ActivityService struct {
	repo *repository.ActivityLogRepository
}

func NewActivityService(repo *repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// ListActivity 最新在前，可按 action / qr_code_id / user_id 过滤
func (s *ActivityService) ListActivity(ctx context.Context, session *Session, limit int, filters map[string]string) ([]entity.ActivityLog, error) {
	if !session.CanManageQRCodes() {
		return nil, ErrForbidden
	}
	return s.repo.FindAll(ctx, limit, filters)
}
