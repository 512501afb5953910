package repo

import (
	"context"

	"gorm.io/gorm"

	"bookhub/internal/domain"
)

// Store domain.Store 的 gorm 实现；InTx 里回调拿到的 Store 挂在同一事务上
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository                 { return &UserRepo{db: s.db} }
func (s *Store) Books() domain.BookRepository                 { return &BookRepo{db: s.db} }
func (s *Store) Reviews() domain.ReviewRepository             { return &ReviewRepo{db: s.db} }
func (s *Store) Notifications() domain.NotificationRepository { return &NotificationRepo{db: s.db} }

func (s *Store) InTx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// AutoMigrate 建表；仅在配置开启时由 main 调用
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.Book{},
		&domain.Review{},
		&domain.Notification{},
	)
}
