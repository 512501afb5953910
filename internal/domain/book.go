package domain

import (
	"context"
	"time"
)

type Book struct {
	ID      string `gorm:"primaryKey;size:32" json:"id"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Author  string `gorm:"size:255;not null" json:"author"`
	Pages   int    `gorm:"not null" json:"pages"`
	Summary string `gorm:"type:text" json:"summary,omitempty"`
	Genre   string `gorm:"size:64;not null" json:"genre"`

	// 未审核的投稿对外不可见；每次编辑都会重置回待审
	Approved bool `gorm:"not null;default:false" json:"approved"`

	ImageFilename *string `gorm:"size:64" json:"image,omitempty"`
	ExternalID    *string `gorm:"uniqueIndex;size:64" json:"external_id,omitempty"`
	ISBN13        *string `gorm:"uniqueIndex;size:13" json:"isbn,omitempty"`
	Publisher     *string `gorm:"size:255" json:"publisher,omitempty"`
	PublishedDate *string `gorm:"size:10" json:"published_date,omitempty"`

	OwnerID string `gorm:"size:32;index;not null" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Book) TableName() string { return "books" }

type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id string) (*Book, error)
	FindByExternalID(ctx context.Context, externalID string) (*Book, error)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	// FindByTitle 精确匹配（大小写敏感），仅用于建议性查重
	FindByTitle(ctx context.Context, title string) (*Book, error)
	ListApproved(ctx context.Context, genre string, offset, limit int) ([]Book, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Book, error)
	ListPendingExcluding(ctx context.Context, ownerID string) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}
