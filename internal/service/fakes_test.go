package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookhub/internal/domain"
	"bookhub/pkg/utils"
)

// fakeStore 内存版 domain.Store，加锁保证并发测试安全。
// InTx 直接在自身上执行回调，够用：这里只验证业务规则，不验证回滚。
type fakeStore struct {
	mu      sync.Mutex
	seq     int64
	users   map[string]*domain.User
	books   map[string]*domain.Book
	reviews map[string]*domain.Review
	notes   []*domain.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[string]*domain.User{},
		books:   map[string]*domain.Book{},
		reviews: map[string]*domain.Review{},
	}
}

func (s *fakeStore) Users() domain.UserRepository                 { return fakeUsers{s} }
func (s *fakeStore) Books() domain.BookRepository                 { return fakeBooks{s} }
func (s *fakeStore) Reviews() domain.ReviewRepository             { return fakeReviews{s} }
func (s *fakeStore) Notifications() domain.NotificationRepository { return fakeNotes{s} }

func (s *fakeStore) InTx(ctx context.Context, fn func(domain.Store) error) error { return fn(s) }

// nextTime 单调递增的伪时间戳，列表排序可预期
func (s *fakeStore) nextTime() time.Time {
	s.seq++
	return time.Unix(s.seq, 0)
}

func (s *fakeStore) messagesFor(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n.Message)
		}
	}
	return out
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append(domain.RoleSet{}, u.Roles...)
	return &c
}

func cloneBook(b *domain.Book) *domain.Book {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func cloneReview(r *domain.Review) *domain.Review {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

type fakeUsers struct{ s *fakeStore }

func (f fakeUsers) Create(ctx context.Context, u *domain.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = f.s.nextTime()
	}
	f.s.users[u.ID] = cloneUser(u)
	return nil
}

func (f fakeUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return cloneUser(f.s.users[id]), nil
}

func (f fakeUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f fakeUsers) SearchByUsername(ctx context.Context, q string) ([]domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.User
	for _, u := range f.s.users {
		if q == "" || strings.Contains(u.Username, q) {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f fakeUsers) Update(ctx context.Context, u *domain.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.users[u.ID] = cloneUser(u)
	return nil
}

func (f fakeUsers) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.users, id)
	return nil
}

type fakeBooks struct{ s *fakeStore }

func (f fakeBooks) Create(ctx context.Context, b *domain.Book) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = f.s.nextTime()
	}
	f.s.books[b.ID] = cloneBook(b)
	return nil
}

func (f fakeBooks) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return cloneBook(f.s.books[id]), nil
}

func (f fakeBooks) FindByExternalID(ctx context.Context, externalID string) (*domain.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.books {
		if b.ExternalID != nil && *b.ExternalID == externalID {
			return cloneBook(b), nil
		}
	}
	return nil, nil
}

func (f fakeBooks) FindByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.books {
		if b.ISBN13 != nil && *b.ISBN13 == isbn {
			return cloneBook(b), nil
		}
	}
	return nil, nil
}

func (f fakeBooks) FindByTitle(ctx context.Context, title string) (*domain.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, b := range f.s.books {
		if b.Title == title {
			return cloneBook(b), nil
		}
	}
	return nil, nil
}

func (f fakeBooks) ListApproved(ctx context.Context, genre string, offset, limit int) ([]domain.Book, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var all []domain.Book
	for _, b := range f.s.books {
		if b.Approved && (genre == "" || b.Genre == genre) {
			all = append(all, *cloneBook(b))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f fakeBooks) ListByOwner(ctx context.Context, ownerID string) ([]domain.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Book
	for _, b := range f.s.books {
		if b.OwnerID == ownerID {
			out = append(out, *cloneBook(b))
		}
	}
	return out, nil
}

func (f fakeBooks) ListPendingExcluding(ctx context.Context, ownerID string) ([]domain.Book, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Book
	for _, b := range f.s.books {
		if !b.Approved && b.OwnerID != ownerID {
			out = append(out, *cloneBook(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeBooks) Update(ctx context.Context, b *domain.Book) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.books[b.ID] = cloneBook(b)
	return nil
}

func (f fakeBooks) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.books, id)
	return nil
}

func (f fakeBooks) DeleteByOwner(ctx context.Context, ownerID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, b := range f.s.books {
		if b.OwnerID == ownerID {
			delete(f.s.books, id)
		}
	}
	return nil
}

type fakeReviews struct{ s *fakeStore }

func (f fakeReviews) Create(ctx context.Context, r *domain.Review) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = f.s.nextTime()
	}
	f.s.reviews[r.ID] = cloneReview(r)
	return nil
}

func (f fakeReviews) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return cloneReview(f.s.reviews[id]), nil
}

func (f fakeReviews) List(ctx context.Context, flt domain.ReviewFilter, offset, limit int) ([]domain.Review, int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var all []domain.Review
	for _, r := range f.s.reviews {
		if flt.BookID != "" && r.BookID != flt.BookID {
			continue
		}
		if flt.OwnerID != "" && r.OwnerID != flt.OwnerID {
			continue
		}
		all = append(all, *cloneReview(r))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f fakeReviews) ListPendingExcluding(ctx context.Context, ownerID string) ([]domain.Review, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Review
	for _, r := range f.s.reviews {
		if !r.Approved && r.OwnerID != ownerID {
			out = append(out, *cloneReview(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f fakeReviews) Update(ctx context.Context, r *domain.Review) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.reviews[r.ID] = cloneReview(r)
	return nil
}

func (f fakeReviews) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.reviews, id)
	return nil
}

func (f fakeReviews) DeleteByBook(ctx context.Context, bookID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, r := range f.s.reviews {
		if r.BookID == bookID {
			delete(f.s.reviews, id)
		}
	}
	return nil
}

func (f fakeReviews) DeleteByOwner(ctx context.Context, ownerID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, r := range f.s.reviews {
		if r.OwnerID == ownerID {
			delete(f.s.reviews, id)
		}
	}
	return nil
}

func (f fakeReviews) AddVote(ctx context.Context, id string, dir domain.VoteDirection) (*domain.Review, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.reviews[id]
	if !ok {
		return nil, nil
	}
	if dir == domain.VoteDown {
		r.Downvotes++
	} else {
		r.Upvotes++
	}
	return cloneReview(r), nil
}

type fakeNotes struct{ s *fakeStore }

func (f fakeNotes) Append(ctx context.Context, userID, message string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.notes = append(f.s.notes, &domain.Notification{
		ID:        utils.NewID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: f.s.nextTime(),
	})
	return nil
}

func (f fakeNotes) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.s.notes {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f fakeNotes) MarkRead(ctx context.Context, userID, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, n := range f.s.notes {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f fakeNotes) DeleteByUser(ctx context.Context, userID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	kept := f.s.notes[:0]
	for _, n := range f.s.notes {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	f.s.notes = kept
	return nil
}

// 测试数据工厂

func seedUser(s *fakeStore, username string, roles ...domain.Role) *domain.User {
	u := &domain.User{
		ID:       utils.NewID(),
		Username: username,
		Roles:    domain.RoleSet(roles),
	}
	_ = fakeUsers{s}.Create(context.Background(), u)
	return u
}

func seedBook(s *fakeStore, title, ownerID string, approved bool) *domain.Book {
	b := &domain.Book{
		ID:       utils.NewID(),
		Title:    title,
		Author:   "Author",
		Genre:    "Fiction",
		Approved: approved,
		OwnerID:  ownerID,
	}
	_ = fakeBooks{s}.Create(context.Background(), b)
	return b
}

func seedReview(s *fakeStore, bookID, ownerID string, approved bool) *domain.Review {
	r := &domain.Review{
		ID:       utils.NewID(),
		Content:  "solid read",
		Rating:   7,
		Approved: approved,
		OwnerID:  ownerID,
		BookID:   bookID,
	}
	_ = fakeReviews{s}.Create(context.Background(), r)
	return r
}
