package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookhub/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) List(ctx context.Context, f domain.ReviewFilter, offset, limit int) ([]domain.Review, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Review{})
	if f.BookID != "" {
		tx = tx.Where("book_id = ?", f.BookID)
	}
	if f.OwnerID != "" {
		tx = tx.Where("owner_id = ?", f.OwnerID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []domain.Review
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewRepo) ListPendingExcluding(ctx context.Context, ownerID string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.WithContext(ctx).
		Where("approved = ? AND owner_id <> ?", false, ownerID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Save(rv).Error
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{}).Error
}

func (r *ReviewRepo) DeleteByBook(ctx context.Context, bookID string) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&domain.Review{}).Error
}

func (r *ReviewRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&domain.Review{}).Error
}

// AddVote 计数自增只下推到数据库做，绝不在应用内读改写；
// UPDATE ... SET x = x + 1 在并发下由存储层串行化。
func (r *ReviewRepo) AddVote(ctx context.Context, id string, dir domain.VoteDirection) (*domain.Review, error) {
	col := "upvotes"
	if dir == domain.VoteDown {
		col = "downvotes"
	}
	res := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}
