package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookhub/internal/domain"
)

type revokerMock struct {
	mu      sync.Mutex
	revoked []string
}

func (m *revokerMock) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked = append(m.revoked, userID)
	return nil
}

func newModeration(s *fakeStore, rv SessionRevoker) *ModerationService {
	return NewModerationService(s, rv, time.Hour, zap.NewNop())
}

func TestPendingQueuesExcludeOwnItems(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	other := seedUser(s, "alice")

	own := seedBook(s, "Mod Draft", mod.ID, false)
	foreign := seedBook(s, "Alice Draft", other.ID, false)
	seedBook(s, "Published", other.ID, true)
	seedReview(s, foreign.ID, mod.ID, false)
	r := seedReview(s, foreign.ID, other.ID, false)

	svc := newModeration(s, nil)

	books, err := svc.PendingBooks(context.Background(), mod)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, foreign.ID, books[0].ID)
	assert.NotEqual(t, own.ID, books[0].ID)

	reviews, err := svc.PendingReviews(context.Background(), mod)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, r.ID, reviews[0].ID)
}

func TestApproveBookNotifiesOwner(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	b := seedBook(s, "Draft", alice.ID, false)

	svc := newModeration(s, nil)
	require.NoError(t, svc.ApproveBook(context.Background(), mod, b.ID))

	stored, _ := fakeBooks{s}.FindByID(context.Background(), b.ID)
	assert.True(t, stored.Approved)
	assert.Equal(t, []string{"Your book has been approved!"}, s.messagesFor(alice.ID))
}

func TestApproveBookIdempotent(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	b := seedBook(s, "Draft", alice.ID, false)

	svc := newModeration(s, nil)
	require.NoError(t, svc.ApproveBook(context.Background(), mod, b.ID))
	require.NoError(t, svc.ApproveBook(context.Background(), mod, b.ID))

	// 二次批准不能重复发通知
	assert.Len(t, s.messagesFor(alice.ID), 1)
}

func TestApproveBookMissing(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	svc := newModeration(s, nil)
	assert.ErrorIs(t, svc.ApproveBook(context.Background(), mod, "nope"), domain.ErrNotFound)
}

// 自己的书可以批，自己的书评不行
func TestApproveOwnBookAllowed(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	b := seedBook(s, "Mod Draft", mod.ID, false)

	svc := newModeration(s, nil)
	require.NoError(t, svc.ApproveBook(context.Background(), mod, b.ID))
}

func TestApproveOwnReviewForbidden(t *testing.T) {
	s := newFakeStore()
	admin := seedUser(s, "root", domain.RoleAdmin)
	b := seedBook(s, "Book", admin.ID, true)
	r := seedReview(s, b.ID, admin.ID, false)

	svc := newModeration(s, nil)
	err := svc.ApproveReview(context.Background(), admin, r.ID)
	assert.ErrorIs(t, err, domain.ErrSelfApproval)

	stored, _ := fakeReviews{s}.FindByID(context.Background(), r.ID)
	assert.False(t, stored.Approved)
}

func TestApproveReviewNotifies(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	b := seedBook(s, "Book", alice.ID, true)
	r := seedReview(s, b.ID, alice.ID, false)

	svc := newModeration(s, nil)
	require.NoError(t, svc.ApproveReview(context.Background(), mod, r.ID))
	assert.Equal(t, []string{"Your review has been approved!"}, s.messagesFor(alice.ID))
}

func TestRejectBookDeletesAndNotifies(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	b := seedBook(s, "Draft", alice.ID, false)

	svc := newModeration(s, nil)
	require.NoError(t, svc.RejectBook(context.Background(), mod, b.ID))

	stored, _ := fakeBooks{s}.FindByID(context.Background(), b.ID)
	assert.Nil(t, stored)
	assert.Equal(t, []string{"Your book has not been approved."}, s.messagesFor(alice.ID))
}

func TestDeleteBookCascadesReviewsAndNotifies(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	bob := seedUser(s, "bob")
	b := seedBook(s, "Published", alice.ID, true)
	seedReview(s, b.ID, bob.ID, true)
	seedReview(s, b.ID, alice.ID, true)

	svc := newModeration(s, nil)
	require.NoError(t, svc.DeleteBook(context.Background(), mod, b.ID))

	assert.Empty(t, s.reviews)
	assert.Equal(t, []string{"Your book has been deleted by a moderator."}, s.messagesFor(alice.ID))
}

func TestRejectAndDeleteReviewMessages(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	b := seedBook(s, "Book", alice.ID, true)

	svc := newModeration(s, nil)

	r1 := seedReview(s, b.ID, alice.ID, false)
	require.NoError(t, svc.RejectReview(context.Background(), mod, r1.ID))

	r2 := seedReview(s, b.ID, alice.ID, true)
	require.NoError(t, svc.DeleteReview(context.Background(), mod, r2.ID))

	assert.Equal(t, []string{
		"Your review has not been approved.",
		"Your review has been deleted by a moderator.",
	}, s.messagesFor(alice.ID))
}

func TestDeleteUserCascades(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	alice := seedUser(s, "alice")
	bob := seedUser(s, "bob")

	aliceBook := seedBook(s, "Alice Book", alice.ID, true)
	bobBook := seedBook(s, "Bob Book", bob.ID, true)
	seedReview(s, aliceBook.ID, bob.ID, true)   // 别人评 alice 的书，随书删除
	seedReview(s, bobBook.ID, alice.ID, true)   // alice 评别人的书，随人删除
	bobsOwn := seedReview(s, bobBook.ID, bob.ID, true)
	require.NoError(t, fakeNotes{s}.Append(context.Background(), alice.ID, "hello"))

	svc := newModeration(s, nil)
	require.NoError(t, svc.DeleteUser(context.Background(), mod, alice.ID))

	u, _ := fakeUsers{s}.FindByID(context.Background(), alice.ID)
	assert.Nil(t, u)
	assert.Empty(t, s.messagesFor(alice.ID))

	b, _ := fakeBooks{s}.FindByID(context.Background(), aliceBook.ID)
	assert.Nil(t, b)
	require.Len(t, s.reviews, 1)
	_, stillThere := s.reviews[bobsOwn.ID]
	assert.True(t, stillThere)
}

func TestDeleteUserPrivilegeRules(t *testing.T) {
	s := newFakeStore()
	mod := seedUser(s, "mod", domain.RoleModerator)
	mod2 := seedUser(s, "mod2", domain.RoleModerator)
	admin := seedUser(s, "root", domain.RoleAdmin)

	svc := newModeration(s, nil)

	// 版主删不了持权用户
	err := svc.DeleteUser(context.Background(), mod, mod2.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	u, _ := fakeUsers{s}.FindByID(context.Background(), mod2.ID)
	assert.NotNil(t, u)

	// 管理员可以
	require.NoError(t, svc.DeleteUser(context.Background(), admin, mod2.ID))
	u, _ = fakeUsers{s}.FindByID(context.Background(), mod2.ID)
	assert.Nil(t, u)
}

func TestDeleteUserSelfRevokesSessions(t *testing.T) {
	s := newFakeStore()
	alice := seedUser(s, "alice")
	bob := seedUser(s, "bob")
	rv := &revokerMock{}

	svc := newModeration(s, rv)
	require.NoError(t, svc.DeleteUser(context.Background(), alice, alice.ID))
	assert.Equal(t, []string{alice.ID}, rv.revoked)

	// 删别人不吊销
	admin := seedUser(s, "root", domain.RoleAdmin)
	require.NoError(t, svc.DeleteUser(context.Background(), admin, bob.ID))
	assert.Equal(t, []string{alice.ID}, rv.revoked)
}

func TestPromote(t *testing.T) {
	s := newFakeStore()
	admin := seedUser(s, "root", domain.RoleAdmin)
	alice := seedUser(s, "alice")

	svc := newModeration(s, nil)
	require.NoError(t, svc.Promote(context.Background(), admin, alice.ID))

	u, _ := fakeUsers{s}.FindByID(context.Background(), alice.ID)
	assert.True(t, u.Roles.Has(domain.RoleModerator))
	assert.Equal(t, []string{"You have been promoted to moderator!"}, s.messagesFor(alice.ID))

	err := svc.Promote(context.Background(), admin, alice.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyModerator)
	assert.Len(t, s.messagesFor(alice.ID), 1)
}

func TestPromoteMissingUser(t *testing.T) {
	s := newFakeStore()
	admin := seedUser(s, "root", domain.RoleAdmin)
	svc := newModeration(s, nil)
	assert.ErrorIs(t, svc.Promote(context.Background(), admin, "nope"), domain.ErrNotFound)
}
