package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bookhub/internal/domain"
)

// 审核结果通知文案（追加进通知表，措辞固定）
const (
	msgBookApproved  = "Your book has been approved!"
	msgBookRejected  = "Your book has not been approved."
	msgBookDeleted   = "Your book has been deleted by a moderator."
	msgRevApproved   = "Your review has been approved!"
	msgRevRejected   = "Your review has not been approved."
	msgRevDeleted    = "Your review has been deleted by a moderator."
	msgPromoted      = "You have been promoted to moderator!"
)

// SessionRevoker 自删账号后吊销其存量 token；*cache.Cache 满足该接口
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

// ModerationService 审核工作流。状态变更和对应通知始终在同一事务里提交。
type ModerationService struct {
	store    domain.Store
	revoker  SessionRevoker
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewModerationService(store domain.Store, revoker SessionRevoker, tokenTTL time.Duration, l *zap.Logger) *ModerationService {
	return &ModerationService{store: store, revoker: revoker, tokenTTL: tokenTTL, log: l}
}

// PendingBooks 待审队列不含审核者自己的投稿
func (s *ModerationService) PendingBooks(ctx context.Context, acting *domain.User) ([]domain.Book, error) {
	return s.store.Books().ListPendingExcluding(ctx, acting.ID)
}

func (s *ModerationService) PendingReviews(ctx context.Context, acting *domain.User) ([]domain.Review, error) {
	return s.store.Reviews().ListPendingExcluding(ctx, acting.ID)
}

// ApproveBook 幂等：已批准的再批不产生重复通知
func (s *ModerationService) ApproveBook(ctx context.Context, acting *domain.User, id string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		b, err := tx.Books().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if b.Approved {
			return nil
		}
		b.Approved = true
		if err := tx.Books().Update(ctx, b); err != nil {
			return err
		}
		return tx.Notifications().Append(ctx, b.OwnerID, msgBookApproved)
	})
}

// ApproveReview 不允许批准自己的书评，角色再高也不行
func (s *ModerationService) ApproveReview(ctx context.Context, acting *domain.User, id string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := tx.Reviews().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if r.OwnerID == acting.ID {
			return domain.ErrSelfApproval
		}
		if r.Approved {
			return nil
		}
		r.Approved = true
		if err := tx.Reviews().Update(ctx, r); err != nil {
			return err
		}
		return tx.Notifications().Append(ctx, r.OwnerID, msgRevApproved)
	})
}

// RejectBook 审核退回：删除投稿并通知投稿人
func (s *ModerationService) RejectBook(ctx context.Context, acting *domain.User, id string) error {
	return s.removeBook(ctx, id, msgBookRejected)
}

// DeleteBook 版主下架已发布的书，连带删掉它的书评
func (s *ModerationService) DeleteBook(ctx context.Context, acting *domain.User, id string) error {
	return s.removeBook(ctx, id, msgBookDeleted)
}

func (s *ModerationService) removeBook(ctx context.Context, id, message string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		b, err := tx.Books().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if err := tx.Reviews().DeleteByBook(ctx, b.ID); err != nil {
			return err
		}
		if err := tx.Books().Delete(ctx, b.ID); err != nil {
			return err
		}
		return tx.Notifications().Append(ctx, b.OwnerID, message)
	})
}

func (s *ModerationService) RejectReview(ctx context.Context, acting *domain.User, id string) error {
	return s.removeReview(ctx, id, msgRevRejected)
}

func (s *ModerationService) DeleteReview(ctx context.Context, acting *domain.User, id string) error {
	return s.removeReview(ctx, id, msgRevDeleted)
}

func (s *ModerationService) removeReview(ctx context.Context, id, message string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		r, err := tx.Reviews().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := tx.Reviews().Delete(ctx, r.ID); err != nil {
			return err
		}
		return tx.Notifications().Append(ctx, r.OwnerID, message)
	})
}

// DeleteUser 删除账号并级联其书、书评和通知，全有或全无。
// 目标持有版主/管理员角色时仅管理员可删。自删后吊销本人会话。
func (s *ModerationService) DeleteUser(ctx context.Context, acting *domain.User, targetID string) error {
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		target, err := tx.Users().FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.ErrNotFound
		}
		if target.Roles.Privileged() && !acting.Roles.Has(domain.RoleAdmin) {
			return domain.ErrForbidden
		}

		books, err := tx.Books().ListByOwner(ctx, target.ID)
		if err != nil {
			return err
		}
		for _, b := range books {
			if err := tx.Reviews().DeleteByBook(ctx, b.ID); err != nil {
				return err
			}
		}
		if err := tx.Reviews().DeleteByOwner(ctx, target.ID); err != nil {
			return err
		}
		if err := tx.Books().DeleteByOwner(ctx, target.ID); err != nil {
			return err
		}
		if err := tx.Notifications().DeleteByUser(ctx, target.ID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, target.ID)
	})
	if err != nil {
		return err
	}

	if acting.ID == targetID && s.revoker != nil {
		if err := s.revoker.RevokeUser(ctx, targetID, s.tokenTTL); err != nil {
			// 账号已删，吊销失败只能等 token 自然过期
			s.log.Warn("session revocation failed after self-delete",
				zap.Error(err), zap.String("user_id", targetID))
		}
	}
	return nil
}

// Promote 授予版主角色并通知；已是版主则报错
func (s *ModerationService) Promote(ctx context.Context, acting *domain.User, targetID string) error {
	return s.store.InTx(ctx, func(tx domain.Store) error {
		target, err := tx.Users().FindByID(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.ErrNotFound
		}
		if target.Roles.Has(domain.RoleModerator) {
			return domain.ErrAlreadyModerator
		}
		target.Roles = target.Roles.With(domain.RoleModerator)
		if err := tx.Users().Update(ctx, target); err != nil {
			return err
		}
		return tx.Notifications().Append(ctx, target.ID, msgPromoted)
	})
}
