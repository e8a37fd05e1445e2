package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/metrics"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Session 显式传入各业务操作的调用方上下文
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
	// HasProfile 为 false 表示身份有效但尚未建立档案
	HasProfile bool `json:"has_profile"`
}

// HasRole 是否具有任一角色
func (s *Session) HasRole(roles ...string) bool {
	if s == nil || s.Role == "" {
		return false
	}
	for _, r := range roles {
		if r == s.Role {
			return true
		}
	}
	return false
}

// CanManageQRCodes 创建/修改二维码、查看看板
func (s *Session) CanManageQRCodes() bool {
	return s.HasRole(entity.RoleAdmin, entity.RoleSupervisor)
}

// SessionService 根据身份标识解析档案，Redis 缓存
type SessionService struct {
	profileRepo *repository.ProfileRepository
	rdb         *redis.Client
	ttl         time.Duration
	logger      *zap.Logger
}

func NewSessionService(profileRepo *repository.ProfileRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SessionService{profileRepo: profileRepo, rdb: rdb, ttl: ttl, logger: logger}
}

func sessionCacheKey(userID string) string {
	return "trackqr:session:" + userID
}

// Load 构造会话；档案不存在时返回无角色会话
func (s *SessionService) Load(ctx context.Context, userID, name, email string) (*Session, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Session{UserID: userID, Name: name, Email: email}, nil
		}
		return nil, err
	}

	session := &Session{
		UserID:     userID,
		Name:       profile.Name,
		Email:      profile.Email,
		Role:       profile.Role,
		Status:     profile.Status,
		HasProfile: true,
	}
	if session.Email == "" {
		session.Email = email
	}
	// 停用账号不授予任何角色
	if profile.Status == entity.ProfileStatusInactive {
		session.Role = ""
	}
	return session, nil
}

func (s *SessionService) profile(ctx context.Context, userID string) (*entity.Profile, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, sessionCacheKey(userID)).Result()
		switch {
		case err == nil:
			var p entity.Profile
			if jsonErr := json.Unmarshal([]byte(cached), &p); jsonErr == nil {
				metrics.SessionCache.WithLabelValues("hit").Inc()
				return &p, nil
			}
		case errors.Is(err, redis.Nil):
			metrics.SessionCache.WithLabelValues("miss").Inc()
		default:
			metrics.SessionCache.WithLabelValues("error").Inc()
			s.logger.Warn("Session cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := s.rdb.Set(ctx, sessionCacheKey(userID), data, s.ttl).Err(); err != nil {
				s.logger.Warn("Session cache write failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}
	return profile, nil
}

// Invalidate 角色或状态变更后清除缓存
func (s *SessionService) Invalidate(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, sessionCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("Session cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}
