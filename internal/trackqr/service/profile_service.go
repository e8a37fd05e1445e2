package service

import (
	"context"
	"strings"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
)

// ProfileService 用户档案与账号管理
type ProfileService struct {
	repo     *repository.ProfileRepository
	sessions *SessionService
	activity ActivitySink
}

func NewProfileService(repo *repository.ProfileRepository, sessions *SessionService) *ProfileService {
	return &ProfileService{repo: repo, sessions: sessions, activity: nopSink{}}
}

// SetActivitySink 注入审计日志
func (s *ProfileService) SetActivitySink(sink ActivitySink) {
	s.activity = sink
}

// GetMe 当前用户档案
func (s *ProfileService) GetMe(ctx context.Context, session *Session) (*entity.Profile, error) {
	profile, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, notFound(err, "Profile not found")
	}
	return profile, nil
}

// RegisterProfileRequest 首次登录自助建档
type RegisterProfileRequest struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Zone       string `json:"zone"`
	Division   string `json:"division"`
}

// RegisterSelf 建档，角色固定为 viewer，状态为 pending，等待管理员审核
func (s *ProfileService) RegisterSelf(ctx context.Context, session *Session, req *RegisterProfileRequest) (*entity.Profile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(session.Name)
	}
	if name == "" {
		return nil, missingField("name")
	}

	profile := &entity.Profile{
		ID:         session.UserID,
		Name:       name,
		Email:      session.Email,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Role:       entity.RoleViewer,
		Department: strings.TrimSpace(req.Department),
		Zone:       strings.TrimSpace(req.Zone),
		Division:   strings.TrimSpace(req.Division),
		Status:     entity.ProfileStatusPending,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	s.sessions.Invalidate(ctx, session.UserID)
	return profile, nil
}

// ListUsers 用户列表（管理员）
func (s *ProfileService) ListUsers(ctx context.Context, session *Session, limit int, filters map[string]string) ([]entity.Profile, error) {
	if !session.HasRole(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.repo.FindAll(ctx, limit, filters)
}

// SetRole 修改角色（管理员）
func (s *ProfileService) SetRole(ctx context.Context, session *Session, userID, role string) (*entity.Profile, error) {
	if !session.HasRole(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(role) == "" {
		return nil, missingField("role")
	}
	if !entity.ValidRole(role) {
		return nil, invalidField("role", "Invalid role: %s", role)
	}
	return s.update(ctx, session, userID, "role", role, entity.ActionUserRoleChange)
}

// SetStatus 审核通过或停用账号（管理员）
func (s *ProfileService) SetStatus(ctx context.Context, session *Session, userID, status string) (*entity.Profile, error) {
	if !session.HasRole(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(status) == "" {
		return nil, missingField("status")
	}
	if !entity.ValidProfileStatus(status) {
		return nil, invalidField("status", "Invalid status: %s", status)
	}
	if userID == session.UserID && status != entity.ProfileStatusActive {
		return nil, invalidField("status", "Cannot deactivate your own account")
	}
	return s.update(ctx, session, userID, "status", status, entity.ActionUserStatusChange)
}

func (s *ProfileService) update(ctx context.Context, session *Session, userID, column, value, action string) (*entity.Profile, error) {
	before, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	previous := before.Role
	if column == "status" {
		previous = before.Status
	}

	profile, err := s.repo.UpdateField(ctx, userID, column, value)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	s.sessions.Invalidate(ctx, userID)

	s.activity.Record(newActivity(action, nil, session.UserID, map[string]interface{}{
		"target_user_id": userID,
		"field":          column,
		"from":           previous,
		"to":             value,
	}))
	return profile, nil
}
