package domain

import "context"

// Store 聚合各仓储；InTx 内拿到的 Store 共享同一事务，
// 审核+通知这类成对写入必须走 InTx，保证要么都落库要么都不落。
type Store interface {
	Users() UserRepository
	Books() BookRepository
	Reviews() ReviewRepository
	Notifications() NotificationRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
