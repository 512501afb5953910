package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookhub/internal/domain"
	"bookhub/internal/gateway/oauth"
	"bookhub/pkg/utils"
)

// TokenExchanger 外部账号的 token 换取与刷新；测试里用函数字段 mock
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth.Token, error)
}

type UserService struct {
	store domain.Store
	oauth TokenExchanger
	log   *zap.Logger
}

func NewUserService(store domain.Store, ex TokenExchanger, l *zap.Logger) *UserService {
	return &UserService{store: store, oauth: ex, log: l}
}

// Register 用户名唯一；新账号只有隐含的 user 角色
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}
	existing, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		PasswordHash: utils.HashPassword(password),
		Roles:        domain.RoleSet{},
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 用户不存在和密码错误对外同义，都是 ErrUnauthenticated
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *UserService) SearchByUsername(ctx context.Context, q string) ([]domain.User, error) {
	return s.store.Users().SearchByUsername(ctx, q)
}

// ConnectProvider 授权码换 token 并落到用户身上
func (s *UserService) ConnectProvider(ctx context.Context, acting *domain.User, providerID, code string) error {
	if providerID == "" || code == "" {
		return domain.ErrValidation
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		// 供应商故障反馈为上游不可用，不把传输错误裸抛出去
		s.log.Warn("provider code exchange failed", zap.Error(err), zap.String("user_id", acting.ID))
		return domain.ErrUpstream
	}
	expiry := tok.Expiry()
	acting.ProviderID = &providerID
	acting.ProviderAccessToken = &tok.AccessToken
	acting.ProviderRefreshToken = &tok.RefreshToken
	acting.ProviderTokenExpiry = &expiry
	return s.store.Users().Update(ctx, acting)
}

func (s *UserService) DisconnectProvider(ctx context.Context, acting *domain.User) error {
	acting.ProviderID = nil
	acting.ProviderAccessToken = nil
	acting.ProviderRefreshToken = nil
	acting.ProviderTokenExpiry = nil
	return s.store.Users().Update(ctx, acting)
}

// EnsureFreshToken 绑定过外部账号且 token 过期时刷新一次并持久化
func (s *UserService) EnsureFreshToken(ctx context.Context, u *domain.User) error {
	if !u.ProviderConnected() || u.ProviderRefreshToken == nil {
		return nil
	}
	if u.ProviderTokenExpiry != nil && time.Now().Before(*u.ProviderTokenExpiry) {
		return nil
	}
	tok, err := s.oauth.Refresh(ctx, *u.ProviderRefreshToken)
	if err != nil {
		s.log.Warn("provider token refresh failed", zap.Error(err), zap.String("user_id", u.ID))
		return domain.ErrUpstream
	}
	expiry := tok.Expiry()
	u.ProviderAccessToken = &tok.AccessToken
	if tok.RefreshToken != "" {
		u.ProviderRefreshToken = &tok.RefreshToken
	}
	u.ProviderTokenExpiry = &expiry
	return s.store.Users().Update(ctx, u)
}

func (s *UserService) Notifications(ctx context.Context, acting *domain.User) ([]domain.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, acting.ID)
}

func (s *UserService) MarkNotificationRead(ctx context.Context, acting *domain.User, id string) error {
	return s.store.Notifications().MarkRead(ctx, acting.ID, id)
}
