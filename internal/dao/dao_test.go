package dao

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        "sqlite",
		Path:        filepath.Join(t.TempDir(), "locket.db"),
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)
	d := New(db, zap.NewNop())
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createUser(t *testing.T, d *Dao, name string) *domain.User {
	t.Helper()
	u, err := NewUserRepository(d).Create(context.Background(), &domain.User{
		Name:  name,
		Email: name + "@example.com",
	})
	require.NoError(t, err)
	return u
}

func createLink(t *testing.T, d *Dao, url string, uid int64) *domain.Link {
	t.Helper()
	l, created, err := NewLinkRepository(d).CreateOrGet(context.Background(), &domain.Link{
		URL:               url,
		Title:             "Title",
		Category:          domain.CategoryRead,
		SubmittedByUserID: &uid,
	})
	require.NoError(t, err)
	require.True(t, created)
	return l
}

func TestLinkRepository_CreateOrGetDedup(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLinkRepository(d)
	alice := createUser(t, d, "alice")

	first, created, err := repo.CreateOrGet(ctx, &domain.Link{
		URL:               "https://example.com/cool-article",
		Title:             "Cool Article",
		Category:          domain.CategoryRead,
		SubmittedByUserID: &alice.ID,
		Metadata:          map[string]any{"source": "test"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second, created, err := repo.CreateOrGet(ctx, &domain.Link{
		URL:      "https://example.com/cool-article",
		Title:    "Other",
		Category: domain.CategoryTools,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Cool Article", second.Title)
	assert.Equal(t, "test", second.Metadata["source"])

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	byURL, err := repo.GetByURL(ctx, "https://example.com/cool-article")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byURL.ID)

	_, err = repo.GetByURL(ctx, "https://example.com/missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestLinkRepository_RestoresSoftDeleted(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLinkRepository(d)
	u := createUser(t, d, "alice")
	l := createLink(t, d, "https://example.com/a", u.ID)

	require.NoError(t, d.Engine().Delete(&model.Link{}, l.ID).Error)
	_, err := repo.GetByID(ctx, l.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	again, created, err := repo.CreateOrGet(ctx, &domain.Link{URL: "https://example.com/a", Category: domain.CategoryRead})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, l.ID, again.ID)

	_, err = repo.GetByID(ctx, l.ID)
	assert.NoError(t, err)
}

func TestLinkRepository_ListRecentAndTitle(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLinkRepository(d)
	u := createUser(t, d, "alice")

	for i := 0; i < 3; i++ {
		createLink(t, d, fmt.Sprintf("https://example.com/%d", i), u.ID)
	}
	require.NoError(t, repo.UpdateTitle(ctx, 1, "Fetched Title"))

	links, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/2", links[0].URL)
	assert.Equal(t, "alice", links[0].SubmitterName())

	l, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Fetched Title", l.Title)

	require.NoError(t, repo.AnonymizeSubmitter(ctx, u.ID))
	l, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, l.SubmittedByUserID)
	assert.Equal(t, "Anonymous", l.SubmitterName())
}

func TestUserLinkRepository_CreateOrGetIsRaceSafe(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewUserLinkRepository(d)
	u := createUser(t, d, "alice")
	l := createLink(t, d, "https://example.com/a", u.ID)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[int64]struct{}{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ul, ok, err := repo.CreateOrGet(ctx, &domain.UserLink{
				UserID:   u.ID,
				LinkID:   l.ID,
				Category: domain.CategoryRead,
			})
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				created++
			}
			if ul != nil {
				ids[ul.ID] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserLinkRepository_UpdateRequiresOwner(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewUserLinkRepository(d)
	alice := createUser(t, d, "alice")
	bob := createUser(t, d, "bob")
	l := createLink(t, d, "https://example.com/a", alice.ID)

	ul, _, err := repo.CreateOrGet(ctx, &domain.UserLink{UserID: alice.ID, LinkID: l.ID, Category: domain.CategoryRead})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnread, ul.Status)

	_, err = repo.GetByID(ctx, ul.ID, bob.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	ul.UserID = bob.ID
	ul.Status = domain.StatusRead
	assert.True(t, errors.Is(repo.Update(ctx, ul), gorm.ErrRecordNotFound))

	ul.UserID = alice.ID
	require.NoError(t, repo.Update(ctx, ul))
	got, err := repo.GetByID(ctx, ul.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRead, got.Status)
	require.NotNil(t, got.Link)
	assert.Equal(t, l.URL, got.Link.URL)
}

func TestUserLinkRepository_CountByLinkSinceWindow(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewUserLinkRepository(d)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	start, end := util.DayRange(now)

	owner := createUser(t, d, "owner")
	old := createLink(t, d, "https://example.com/old", owner.ID)
	fresh := createLink(t, d, "https://example.com/fresh", owner.ID)

	for i := 0; i < 5; i++ {
		u := createUser(t, d, fmt.Sprintf("yesterday%d", i))
		_, _, err := repo.CreateOrGet(ctx, &domain.UserLink{
			UserID:    u.ID,
			LinkID:    old.ID,
			Category:  domain.CategoryRead,
			CreatedAt: start.Add(-time.Duration(i+1) * time.Second),
		})
		require.NoError(t, err)
	}
	u := createUser(t, d, "today")
	_, _, err := repo.CreateOrGet(ctx, &domain.UserLink{
		UserID:    u.ID,
		LinkID:    fresh.ID,
		Category:  domain.CategoryRead,
		CreatedAt: start.Add(time.Second),
	})
	require.NoError(t, err)

	counts, err := repo.CountByLinkSince(ctx, start, end, 10)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, fresh.ID, counts[0].LinkID)
	assert.Equal(t, int64(1), counts[0].Count)
}

func TestLinkNoteRepository_OwnNotesNewestFirst(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewLinkNoteRepository(d)
	alice := createUser(t, d, "alice")
	bob := createUser(t, d, "bob")
	l := createLink(t, d, "https://example.com/a", alice.ID)

	base := time.Now().Add(-time.Hour)
	for i, note := range []string{"first", "second"} {
		_, err := repo.Create(ctx, &domain.LinkNote{UserID: alice.ID, LinkID: l.ID, Note: note, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &domain.LinkNote{UserID: bob.ID, LinkID: l.ID, Note: "bob's"})
	require.NoError(t, err)

	notes, err := repo.ListByUserAndLink(ctx, alice.ID, l.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Note)
	assert.Equal(t, "first", notes[1].Note)
}

func TestUserStatusRepository_ListRecent(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewUserStatusRepository(d)
	alice := createUser(t, d, "alice")
	bob := createUser(t, d, "bob")
	l := createLink(t, d, "https://example.com/a", alice.ID)

	_, err := repo.Create(ctx, &domain.UserStatus{UserID: alice.ID, LinkID: l.ID, Status: "one"})
	require.NoError(t, err)
	s2, err := repo.Create(ctx, &domain.UserStatus{UserID: bob.ID, LinkID: l.ID, Status: "two"})
	require.NoError(t, err)

	all, err := repo.ListRecent(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Status)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "bob", all[0].User.DisplayName())
	require.NotNil(t, all[0].Link)

	mine, err := repo.ListRecent(ctx, 10, &alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "one", mine[0].Status)

	require.NoError(t, repo.Delete(ctx, s2.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, s2.ID), gorm.ErrRecordNotFound))
}

func TestApiTokenRepository_RevokeAndPurge(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewApiTokenRepository(d)
	alice := createUser(t, d, "alice")
	bob := createUser(t, d, "bob")

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &domain.ApiToken{ID: "t1", UserID: alice.ID, Name: "cli", Scopes: []string{"*"}, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.ApiToken{ID: "t2", UserID: alice.ID, Name: "old", ExpiresAt: now.Add(-48 * time.Hour)}))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, got.Scopes)
	assert.Nil(t, got.RevokedAt)
	assert.True(t, got.IsUsable(now))

	assert.True(t, errors.Is(repo.Revoke(ctx, "t1", bob.ID, now), gorm.ErrRecordNotFound))

	require.NoError(t, repo.TouchLastUsed(ctx, "t1", now))
	require.NoError(t, repo.Revoke(ctx, "t1", alice.ID, now))
	got, err = repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.NotNil(t, got.RevokedAt)
	assert.NotNil(t, got.LastUsedAt)

	active, err := repo.ListActiveByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "t2", active[0].ID)

	n, err := repo.PurgeBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDao_TransactionRollsBack(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	users := NewUserRepository(d)

	boom := errors.New("boom")
	err := d.Transaction(ctx, func(ctx context.Context) error {
		if _, err := users.Create(ctx, &domain.User{Name: "ghost", Email: "ghost@example.com"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = users.GetByEmail(ctx, "ghost@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
