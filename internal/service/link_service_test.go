package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockTx struct{}

func (mockTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLinkRepo struct {
	domain.LinkRepository
	mu    sync.Mutex
	links []*domain.Link
}

func (m *mockLinkRepo) CreateOrGet(ctx context.Context, link *domain.Link) (*domain.Link, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.links {
		if l.URL == link.URL {
			cp := *l
			return &cp, false, nil
		}
	}
	cp := *link
	cp.ID = int64(len(m.links) + 1)
	m.links = append(m.links, &cp)
	out := cp
	return &out, true, nil
}

func (m *mockLinkRepo) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.links {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type mockUserLinkRepo struct {
	domain.UserLinkRepository
	mu    sync.Mutex
	items []*domain.UserLink
}

func (m *mockUserLinkRepo) CreateOrGet(ctx context.Context, ul *domain.UserLink) (*domain.UserLink, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.UserID == ul.UserID && it.LinkID == ul.LinkID {
			cp := *it
			return &cp, false, nil
		}
	}
	cp := *ul
	cp.ID = int64(len(m.items) + 1)
	m.items = append(m.items, &cp)
	out := cp
	return &out, true, nil
}

func (m *mockUserLinkRepo) GetByUserAndLink(ctx context.Context, uid, linkID int64) (*domain.UserLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.UserID == uid && it.LinkID == linkID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserLinkRepo) GetByID(ctx context.Context, id, uid int64) (*domain.UserLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id && it.UserID == uid {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserLinkRepo) Update(ctx context.Context, ul *domain.UserLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == ul.ID && it.UserID == ul.UserID {
			it.Status = ul.Status
			it.Category = ul.Category
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type mockNoteRepo struct {
	domain.LinkNoteRepository
	notes []*domain.LinkNote
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.LinkNote) (*domain.LinkNote, error) {
	cp := *note
	cp.ID = int64(len(m.notes) + 1)
	m.notes = append(m.notes, &cp)
	return &cp, nil
}

type mockStatusRepo struct {
	domain.UserStatusRepository
	statuses []*domain.UserStatus
}

func (m *mockStatusRepo) Create(ctx context.Context, st *domain.UserStatus) (*domain.UserStatus, error) {
	cp := *st
	cp.ID = int64(len(m.statuses) + 1)
	m.statuses = append(m.statuses, &cp)
	return &cp, nil
}

func (m *mockStatusRepo) GetByID(ctx context.Context, id int64) (*domain.UserStatus, error) {
	for _, st := range m.statuses {
		if st.ID == id {
			cp := *st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type countingScheduler struct {
	mu  sync.Mutex
	ids []int64
}

func (c *countingScheduler) Schedule(linkID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, linkID)
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(event string, data interface{}) error {
	p.events = append(p.events, event)
	return nil
}

type linkFixture struct {
	links     *mockLinkRepo
	userLinks *mockUserLinkRepo
	notes     *mockNoteRepo
	statuses  *mockStatusRepo
	scheduler *countingScheduler
	publisher *recordingPublisher
	svc       LinkService
}

func newLinkFixture() *linkFixture {
	f := &linkFixture{
		links:     &mockLinkRepo{},
		userLinks: &mockUserLinkRepo{},
		notes:     &mockNoteRepo{},
		statuses:  &mockStatusRepo{},
		scheduler: &countingScheduler{},
		publisher: &recordingPublisher{},
	}
	f.svc = NewLinkService(f.links, f.userLinks, f.notes, f.statuses, mockTx{}, f.scheduler, f.publisher, nil)
	return f
}

func requireCode(t *testing.T, err error, want *code.Code) *code.Code {
	t.Helper()
	var c *code.Code
	require.True(t, errors.As(err, &c), "expected *code.Code, got %v", err)
	require.Equal(t, want.Code(), c.Code())
	return c
}

func TestLinkService_AddLinkDedupAndScheduling(t *testing.T) {
	f := newLinkFixture()
	ctx := context.Background()
	u := "https://example.com/cool-article"

	first, err := f.svc.AddLink(ctx, 1, u, "")
	require.NoError(t, err)
	assert.False(t, first.AlreadyBookmarked)
	assert.Equal(t, "Cool Article", first.Link.Title)
	assert.Equal(t, "read", first.Link.Category)
	assert.Equal(t, "unread", first.UserLink.Status)
	assert.Equal(t, "Link added to your reading list!", first.Message)

	again, err := f.svc.AddLink(ctx, 1, u, "")
	require.NoError(t, err)
	assert.True(t, again.AlreadyBookmarked)
	assert.Equal(t, "Link already bookmarked!", again.Message)

	bob, err := f.svc.AddLink(ctx, 2, u, "reference")
	require.NoError(t, err)
	assert.False(t, bob.AlreadyBookmarked)
	assert.Equal(t, first.Link.ID, bob.Link.ID)
	assert.Equal(t, "reference", bob.UserLink.Category)

	assert.Len(t, f.links.links, 1)
	assert.Len(t, f.userLinks.items, 2)
	assert.Equal(t, []int64{first.Link.ID}, f.scheduler.ids)
}

func TestLinkService_AddLinkValidation(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		hint  string
		want  *code.Code
		field string
	}{
		{"empty", "  ", "", code.ErrorLinkURLInvalid, "url"},
		{"relative", "/just/a/path", "", code.ErrorLinkURLInvalid, "url"},
		{"ftp", "ftp://example.com/file", "", code.ErrorLinkURLInvalid, "url"},
		{"too long", "https://example.com/" + string(make([]byte, 2048)), "", code.ErrorLinkURLInvalid, "url"},
		{"bad hint", "https://example.com", "movies", code.ErrorLinkCategoryInvalid, "category_hint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLinkFixture()
			_, err := f.svc.AddLink(context.Background(), 1, tt.url, tt.hint)
			c := requireCode(t, err, tt.want)
			assert.Contains(t, c.Fields(), tt.field)
			assert.Empty(t, f.links.links)
			assert.Empty(t, f.userLinks.items)
			assert.Empty(t, f.scheduler.ids)
		})
	}
}

func TestLinkService_ShareLink(t *testing.T) {
	f := newLinkFixture()
	ctx := context.Background()

	res, err := f.svc.ShareLink(ctx, 1, &dto.LinkShareRequest{
		URL:      "https://github.com/foo/bar",
		Thoughts: "  worth a look  ",
	})
	require.NoError(t, err)
	// share defaults the hint to read, so inference is bypassed
	assert.Equal(t, "read", res.Link.Category)
	assert.Equal(t, "worth a look", res.Status.Status)
	require.NotNil(t, res.Note)
	assert.Equal(t, "worth a look", res.Note.Note)
	assert.Equal(t, "Status shared and link added to your collection!", res.Message)
	assert.Equal(t, []string{EventStatusCreated}, f.publisher.events)

	res, err = f.svc.ShareLink(ctx, 1, &dto.LinkShareRequest{URL: "https://github.com/foo/bar"})
	require.NoError(t, err)
	assert.True(t, res.AlreadyBookmarked)
	assert.Nil(t, res.Note)
	assert.Equal(t, "", res.Status.Status)
	assert.Len(t, f.notes.notes, 1)
	assert.Len(t, f.statuses.statuses, 2)
	assert.Len(t, f.scheduler.ids, 1)
}

func TestLinkService_AddNoteRequiresBookmark(t *testing.T) {
	f := newLinkFixture()
	ctx := context.Background()

	added, err := f.svc.AddLink(ctx, 1, "https://example.com/post", "")
	require.NoError(t, err)

	_, err = f.svc.AddNote(ctx, 2, &dto.LinkNoteRequest{LinkID: added.Link.ID, Note: "mine"})
	c := requireCode(t, err, code.ErrorNoteRequiresBookmark)
	assert.Equal(t, "You must bookmark this link before adding notes.", c.Fields()["link_id"])
	assert.Empty(t, f.notes.notes)

	_, err = f.svc.AddNote(ctx, 1, &dto.LinkNoteRequest{LinkID: 999, Note: "mine"})
	requireCode(t, err, code.ErrorInvalidParams)

	_, err = f.svc.AddNote(ctx, 1, &dto.LinkNoteRequest{LinkID: added.Link.ID, Note: "   "})
	requireCode(t, err, code.ErrorNoteInvalid)

	res, err := f.svc.AddNote(ctx, 1, &dto.LinkNoteRequest{LinkID: added.Link.ID, Note: "  trimmed  "})
	require.NoError(t, err)
	assert.Equal(t, "trimmed", res.Note.Note)
	assert.Equal(t, "Note added!", res.Message)
}

func TestLinkService_UpdateBookmark(t *testing.T) {
	f := newLinkFixture()
	ctx := context.Background()

	added, err := f.svc.AddLink(ctx, 1, "https://example.com/post", "")
	require.NoError(t, err)
	id := added.UserLink.ID

	res, err := f.svc.UpdateBookmark(ctx, 1, id, &dto.UserLinkUpdateRequest{Status: "read", Category: "tools"})
	require.NoError(t, err)
	assert.Equal(t, domain.FieldChange{From: "unread", To: "read"}, res.Changes["status"])
	assert.Equal(t, domain.FieldChange{From: "read", To: "tools"}, res.Changes["category"])
	assert.Equal(t, "Link updated!", res.Message)

	// read -> reading is not allowed and nothing changes
	_, err = f.svc.UpdateBookmark(ctx, 1, id, &dto.UserLinkUpdateRequest{Status: "reading", Category: "watch"})
	c := requireCode(t, err, code.ErrorUserLinkTransition)
	assert.Equal(t, "Cannot transition from read to reading.", c.Fields()["status"])
	stored, _ := f.userLinks.GetByID(ctx, id, 1)
	assert.Equal(t, domain.StatusRead, stored.Status)
	assert.Equal(t, domain.CategoryTools, stored.Category)

	// staying in the same status is not a transition
	_, err = f.svc.UpdateBookmark(ctx, 1, id, &dto.UserLinkUpdateRequest{Status: "read"})
	c = requireCode(t, err, code.ErrorUserLinkTransition)
	assert.Equal(t, "Cannot transition from read to read.", c.Fields()["status"])

	// a supplied category is always reported, even when unchanged
	res, err = f.svc.UpdateBookmark(ctx, 1, id, &dto.UserLinkUpdateRequest{Category: "tools"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.FieldChange{"category": {From: "tools", To: "tools"}}, res.Changes)

	// another user's bookmark reads as missing
	_, err = f.svc.UpdateBookmark(ctx, 2, id, &dto.UserLinkUpdateRequest{Status: "archived"})
	requireCode(t, err, code.ErrorUserLinkNotFound)
}

func TestLinkService_BookmarkLink(t *testing.T) {
	f := newLinkFixture()
	ctx := context.Background()

	added, err := f.svc.AddLink(ctx, 1, "https://youtube.com/watch?v=1", "")
	require.NoError(t, err)

	res, err := f.svc.BookmarkLink(ctx, 2, added.Link.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyBookmarked)
	assert.Equal(t, "read", res.UserLink.Category)
	assert.Equal(t, "Link added to your collection!", res.Message)

	res, err = f.svc.BookmarkLink(ctx, 2, added.Link.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyBookmarked)
	assert.Equal(t, "Link was already in your collection!", res.Message)

	_, err = f.svc.BookmarkLink(ctx, 2, 404)
	requireCode(t, err, code.ErrorLinkNotFound)

	assert.Len(t, f.scheduler.ids, 1)
}

func TestLinkService_UpdateBookmarkRejectsSameStatus(t *testing.T) {
	for _, st := range domain.Statuses {
		t.Run(st.String(), func(t *testing.T) {
			f := newLinkFixture()
			ctx := context.Background()
			added, err := f.svc.AddLink(ctx, 1, "https://example.com/post", "")
			require.NoError(t, err)
			f.userLinks.items[0].Status = st

			_, err = f.svc.UpdateBookmark(ctx, 1, added.UserLink.ID, &dto.UserLinkUpdateRequest{Status: st.String(), Category: "watch"})
			c := requireCode(t, err, code.ErrorUserLinkTransition)
			assert.Equal(t, "Cannot transition from "+st.String()+" to "+st.String()+".", c.Fields()["status"])
			assert.Equal(t, domain.CategoryRead, f.userLinks.items[0].Category)
		})
	}
}

func TestLinkService_ThoughtsLengthCountsPadding(t *testing.T) {
	f := newLinkFixture()
	padded := strings.Repeat(" ", 10) + strings.Repeat("a", maxThoughtsLength-5)

	_, err := f.svc.ShareLink(context.Background(), 1, &dto.LinkShareRequest{URL: "https://example.com/a", Thoughts: padded})
	c := requireCode(t, err, code.ErrorLinkThoughtsInvalid)
	assert.Contains(t, c.Fields(), "thoughts")
	assert.Empty(t, f.links.links)

	res, err := f.svc.ShareLink(context.Background(), 1, &dto.LinkShareRequest{URL: "https://example.com/a", Thoughts: "  " + strings.Repeat("a", 10) + "  "})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 10), res.Status.Status)
}
