package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string  `gorm:"primaryKey;size:32" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string  `gorm:"size:100;not null" json:"-"`
	Roles        RoleSet `gorm:"serializer:json;type:text" json:"roles"`

	// 外部账号绑定（OAuth connect/disconnect 维护）
	ProviderID           *string    `gorm:"size:64;index" json:"-"`
	ProviderAccessToken  *string    `gorm:"size:255" json:"-"`
	ProviderRefreshToken *string    `gorm:"size:255" json:"-"`
	ProviderTokenExpiry  *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) ProviderConnected() bool { return u != nil && u.ProviderID != nil }

// Notification 追加式通知日志；靠稳定 ID 标记已读，不用位置下标
type Notification struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	UserID    string    `gorm:"size:32;index;not null" json:"-"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	SearchByUsername(ctx context.Context, q string) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Append(ctx context.Context, userID, message string) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
