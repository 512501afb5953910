package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookhub/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepo) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *BookRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.Book, error) {
	return r.findOne(ctx, "external_id = ?", externalID)
}

func (r *BookRepo) FindByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return r.findOne(ctx, "isbn13 = ?", isbn)
}

func (r *BookRepo) FindByTitle(ctx context.Context, title string) (*domain.Book, error) {
	// BINARY 比较在 mysql 下保证大小写敏感；postgres 本身就是敏感的
	if r.db.Dialector.Name() == "mysql" {
		return r.findOne(ctx, "BINARY title = ?", title)
	}
	return r.findOne(ctx, "title = ?", title)
}

func (r *BookRepo) findOne(ctx context.Context, query string, args ...any) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).First(&b, append([]any{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) ListApproved(ctx context.Context, genre string, offset, limit int) ([]domain.Book, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Book{}).Where("approved = ?", true)
	if genre != "" {
		tx = tx.Where("genre = ?", genre)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var books []domain.Book
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *BookRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Book, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&books).Error
	return books, err
}

func (r *BookRepo) ListPendingExcluding(ctx context.Context, ownerID string) ([]domain.Book, error) {
	var books []domain.Book
	err := r.db.WithContext(ctx).
		Where("approved = ? AND owner_id <> ?", false, ownerID).
		Order("created_at ASC").
		Find(&books).Error
	return books, err
}

func (r *BookRepo) Update(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Book{}).Error
}

func (r *BookRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&domain.Book{}).Error
}
