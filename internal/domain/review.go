package domain

import (
	"context"
	"time"
)

const (
	RatingMin = 1
	RatingMax = 10
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

type Review struct {
	ID      string `gorm:"primaryKey;size:32" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	// 整数 1–10；历史库里的 NUMERIC(3,1) 精度属于迁移残留，不保留小数语义
	Rating  int  `gorm:"not null" json:"rating"`
	Spoiler bool `gorm:"not null;default:false" json:"spoiler"`

	Approved bool `gorm:"not null;default:false" json:"approved"`

	// 计数只经过数据库的原子自增，任何路径都不做读改写
	Upvotes   int `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int `gorm:"not null;default:0" json:"downvotes"`

	OwnerID string `gorm:"size:32;index;not null" json:"owner_id"`
	BookID  string `gorm:"size:32;index;not null" json:"book_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Review) TableName() string { return "reviews" }

// ReviewFilter 空字段不参与过滤
type ReviewFilter struct {
	BookID  string
	OwnerID string
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, f ReviewFilter, offset, limit int) ([]Review, int64, error)
	ListPendingExcluding(ctx context.Context, ownerID string) ([]Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error
	DeleteByBook(ctx context.Context, bookID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	// AddVote 在存储层原子自增对应计数，返回最新票数
	AddVote(ctx context.Context, id string, dir VoteDirection) (*Review, error)
}
