package service

import (
	"context"
	"strings"

	"bookhub/internal/domain"
	"bookhub/internal/gateway/bookreviews"
	"bookhub/pkg/utils"
)

// ReviewsGateway 外部书评来源；失败折叠为空列表，不返回 error
type ReviewsGateway interface {
	BookReviews(ctx context.Context, isbn, title string) []bookreviews.Review
}

type BookService struct {
	store   domain.Store
	reviews ReviewsGateway
}

func NewBookService(store domain.Store, gw ReviewsGateway) *BookService {
	return &BookService{store: store, reviews: gw}
}

type BookInput struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Pages   int    `json:"pages"`
	Summary string `json:"summary"`
	Genre   string `json:"genre"`
}

func (in *BookInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return domain.ErrValidation
	}
	if strings.TrimSpace(in.Genre) == "" || in.Pages < 0 {
		return domain.ErrValidation
	}
	return nil
}

// SubmitManual 手工投稿，不走外部元数据
func (s *BookService) SubmitManual(ctx context.Context, acting *domain.User, in BookInput) (*domain.Book, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &domain.Book{
		ID:      utils.NewID(),
		Title:   in.Title,
		Author:  in.Author,
		Pages:   in.Pages,
		Summary: in.Summary,
		Genre:   in.Genre,
		OwnerID: acting.ID,
	}
	if err := s.store.Books().Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// BookPage 列表响应的分页外壳
type BookPage struct {
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalBooks int64         `json:"total_books"`
	TotalPages int64         `json:"total_pages"`
	Books      []domain.Book `json:"books"`
}

// ListApproved 只出已发布的书，可按体裁过滤
func (s *BookService) ListApproved(ctx context.Context, genre string, page, limit int) (*BookPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	books, total, err := s.store.Books().ListApproved(ctx, genre, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &BookPage{
		Page:       page,
		Limit:      limit,
		TotalBooks: total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		Books:      books,
	}, nil
}

// Get 未发布的书只有所有者和版主可见，对其他人表现为不存在
func (s *BookService) Get(ctx context.Context, acting *domain.User, id string) (*domain.Book, error) {
	b, err := s.store.Books().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if !b.Approved {
		if acting == nil || (acting.ID != b.OwnerID && !acting.Roles.Privileged()) {
			return nil, domain.ErrNotFound
		}
	}
	return b, nil
}

// Update 仅限所有者；任何编辑都重回待审
func (s *BookService) Update(ctx context.Context, acting *domain.User, id string, in BookInput) (*domain.Book, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := s.store.Books().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.OwnerID != acting.ID {
		return nil, domain.ErrForbidden
	}
	b.Title = in.Title
	b.Author = in.Author
	b.Pages = in.Pages
	b.Summary = in.Summary
	b.Genre = in.Genre
	b.Approved = false
	if err := s.store.Books().Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete 仅限所有者，连带删掉书下的书评
func (s *BookService) Delete(ctx context.Context, acting *domain.User, id string) error {
	b, err := s.store.Books().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	if b.OwnerID != acting.ID {
		return domain.ErrForbidden
	}
	return s.store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Reviews().DeleteByBook(ctx, b.ID); err != nil {
			return err
		}
		return tx.Books().Delete(ctx, b.ID)
	})
}

// EditorialReviews 外部媒体书评；网关失败已在内部折叠为空列表
func (s *BookService) EditorialReviews(ctx context.Context, id string) ([]bookreviews.Review, error) {
	b, err := s.store.Books().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	isbn := ""
	if b.ISBN13 != nil {
		isbn = *b.ISBN13
	}
	return s.reviews.BookReviews(ctx, isbn, b.Title), nil
}
