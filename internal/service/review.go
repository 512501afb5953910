package service

import (
	"context"
	"strings"

	"bookhub/internal/domain"
	"bookhub/pkg/utils"
)

type ReviewService struct {
	store domain.Store
}

func NewReviewService(store domain.Store) *ReviewService {
	return &ReviewService{store: store}
}

type ReviewInput struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
	Spoiler bool   `json:"spoiler"`
}

func (in *ReviewInput) validate() error {
	if strings.TrimSpace(in.Content) == "" {
		return domain.ErrValidation
	}
	if in.Rating < domain.RatingMin || in.Rating > domain.RatingMax {
		return domain.ErrValidation
	}
	return nil
}

// Create 新书评永远进待审状态
func (s *ReviewService) Create(ctx context.Context, acting *domain.User, bookID string, in ReviewInput) (*domain.Review, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := s.store.Books().FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	r := &domain.Review{
		ID:      utils.NewID(),
		Content: in.Content,
		Rating:  in.Rating,
		Spoiler: in.Spoiler,
		OwnerID: acting.ID,
		BookID:  bookID,
	}
	if err := s.store.Reviews().Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	r, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Update 仅限作者本人；编辑后重回待审。书评必须属于路径指定的那本书
func (s *ReviewService) Update(ctx context.Context, acting *domain.User, bookID, id string, in ReviewInput) (*domain.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil || r.BookID != bookID {
		return nil, domain.ErrNotFound
	}
	if r.OwnerID != acting.ID {
		return nil, domain.ErrForbidden
	}
	r.Content = in.Content
	r.Rating = in.Rating
	r.Spoiler = in.Spoiler
	r.Approved = false
	if err := s.store.Reviews().Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete 仅限作者本人；版主走审核面的删除。书评必须属于路径指定的那本书
func (s *ReviewService) Delete(ctx context.Context, acting *domain.User, bookID, id string) error {
	r, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil || r.BookID != bookID {
		return domain.ErrNotFound
	}
	if r.OwnerID != acting.ID {
		return domain.ErrForbidden
	}
	return s.store.Reviews().Delete(ctx, r.ID)
}

// Vote 计票走存储层原子自增，返回最新票数
func (s *ReviewService) Vote(ctx context.Context, id string, dir domain.VoteDirection) (*domain.Review, error) {
	if dir != domain.VoteUp && dir != domain.VoteDown {
		return nil, domain.ErrValidation
	}
	r, err := s.store.Reviews().AddVote(ctx, id, dir)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// ReviewPage 列表响应的分页外壳
type ReviewPage struct {
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalReviews int64           `json:"total_reviews"`
	TotalPages   int64           `json:"total_pages"`
	Reviews      []domain.Review `json:"reviews"`
}

// ListForBook 书不存在时 ErrNotFound，而不是空列表
func (s *ReviewService) ListForBook(ctx context.Context, bookID, ownerID string, page, limit int) (*ReviewPage, error) {
	b, err := s.store.Books().FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return s.ListPage(ctx, domain.ReviewFilter{BookID: bookID, OwnerID: ownerID}, page, limit)
}

// ListPage page<1 归一到 1，limit<1 归一到 10
func (s *ReviewService) ListPage(ctx context.Context, f domain.ReviewFilter, page, limit int) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	reviews, total, err := s.store.Reviews().List(ctx, f, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{
		Page:         page,
		Limit:        limit,
		TotalReviews: total,
		TotalPages:   (total + int64(limit) - 1) / int64(limit),
		Reviews:      reviews,
	}, nil
}
