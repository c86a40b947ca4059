package service

import (
	"context"
	"sort"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// List bounds, enforced again after transport validation.
const (
	DefaultListLimit = 10
	MaxLinkLimit     = 25
	MaxStatusLimit   = 50

	homeStatusLimit   = 20
	homeTrendingLimit = 10
	dashboardStatuses = 50
)

// Stats 全站计数, 供指标采集
type Stats struct {
	Links     int64
	Bookmarks int64
	Statuses  int64
}

// QueryService 只读查询
type QueryService interface {
	RecentLinks(ctx context.Context, limit int) ([]*dto.LinkDTO, error)

	// TrendingToday ranks links by bookmarks created today, server local time.
	TrendingToday(ctx context.Context, limit int) ([]*dto.TrendingLinkDTO, error)

	RecentStatuses(ctx context.Context, limit int) ([]*dto.StatusDTO, error)

	RecentUserStatuses(ctx context.Context, uid int64, limit int) ([]*dto.StatusDTO, error)

	// LastAddedLink returns nil when uid has no bookmark.
	LastAddedLink(ctx context.Context, uid int64) (*dto.LastAddedLinkDTO, error)

	Dashboard(ctx context.Context, uid int64) (*dto.DashboardDTO, error)

	Home(ctx context.Context) (*dto.HomeDTO, error)

	Stats(ctx context.Context) (*Stats, error)
}

type queryService struct {
	linkRepo     domain.LinkRepository
	userLinkRepo domain.UserLinkRepository
	noteRepo     domain.LinkNoteRepository
	statusRepo   domain.UserStatusRepository
	now          func() time.Time
	logger       *zap.Logger
	mapper       mapper
}

// NewQueryService 创建 QueryService 实例; now 为空时使用 time.Now
func NewQueryService(
	linkRepo domain.LinkRepository,
	userLinkRepo domain.UserLinkRepository,
	noteRepo domain.LinkNoteRepository,
	statusRepo domain.UserStatusRepository,
	now func() time.Time,
	lg *zap.Logger,
) QueryService {
	if now == nil {
		now = time.Now
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &queryService{
		linkRepo:     linkRepo,
		userLinkRepo: userLinkRepo,
		noteRepo:     noteRepo,
		statusRepo:   statusRepo,
		now:          now,
		logger:       lg,
		mapper:       newMapper(now),
	}
}

// clampLimit 限制条数范围
func clampLimit(limit, max int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > max {
		return max
	}
	return limit
}

func (s *queryService) RecentLinks(ctx context.Context, limit int) ([]*dto.LinkDTO, error) {
	links, err := s.linkRepo.ListRecent(ctx, clampLimit(limit, MaxLinkLimit))
	if err != nil {
		return nil, dbQueryErr(err)
	}
	out := make([]*dto.LinkDTO, 0, len(links))
	for _, l := range links {
		out = append(out, s.mapper.link(l))
	}
	return out, nil
}

func (s *queryService) TrendingToday(ctx context.Context, limit int) ([]*dto.TrendingLinkDTO, error) {
	from, to := util.DayRange(s.now())

	counts, err := s.userLinkRepo.CountByLinkSince(ctx, from, to, clampLimit(limit, MaxLinkLimit))
	if err != nil {
		return nil, dbQueryErr(err)
	}
	if len(counts) == 0 {
		return []*dto.TrendingLinkDTO{}, nil
	}

	ids := make([]int64, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.LinkID)
	}
	links, err := s.linkRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, dbQueryErr(err)
	}
	byID := make(map[int64]*domain.Link, len(links))
	for _, l := range links {
		byID[l.ID] = l
	}

	trending := make([]domain.TrendingLink, 0, len(counts))
	for _, c := range counts {
		// 软删除的链接不出现在结果中
		if l, ok := byID[c.LinkID]; ok {
			trending = append(trending, domain.TrendingLink{Link: l, BookmarkCount: c.Count})
		}
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].BookmarkCount > trending[j].BookmarkCount
	})

	out := make([]*dto.TrendingLinkDTO, 0, len(trending))
	for _, t := range trending {
		out = append(out, &dto.TrendingLinkDTO{LinkDTO: *s.mapper.link(t.Link), BookmarkCount: t.BookmarkCount})
	}
	return out, nil
}

func (s *queryService) RecentStatuses(ctx context.Context, limit int) ([]*dto.StatusDTO, error) {
	statuses, err := s.statusRepo.ListRecent(ctx, clampLimit(limit, MaxStatusLimit), nil)
	if err != nil {
		return nil, dbQueryErr(err)
	}
	return s.mapper.statuses(statuses), nil
}

func (s *queryService) RecentUserStatuses(ctx context.Context, uid int64, limit int) ([]*dto.StatusDTO, error) {
	statuses, err := s.statusRepo.ListRecent(ctx, clampLimit(limit, MaxStatusLimit), &uid)
	if err != nil {
		return nil, dbQueryErr(err)
	}
	return s.mapper.statuses(statuses), nil
}

func (s *queryService) LastAddedLink(ctx context.Context, uid int64) (*dto.LastAddedLinkDTO, error) {
	ul, err := s.userLinkRepo.LatestByUser(ctx, uid)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, dbQueryErr(err)
	}
	if ul.Link == nil {
		link, err := s.linkRepo.GetByID(ctx, ul.LinkID)
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, dbQueryErr(err)
		}
		ul.Link = link
	}

	notes, err := s.noteRepo.ListByUserAndLink(ctx, uid, ul.LinkID)
	if err != nil {
		return nil, dbQueryErr(err)
	}

	return &dto.LastAddedLinkDTO{
		Link:     s.mapper.link(ul.Link),
		UserLink: s.mapper.userLink(ul),
		Notes:    s.mapper.notes(notes),
	}, nil
}

func (s *queryService) Dashboard(ctx context.Context, uid int64) (*dto.DashboardDTO, error) {
	var (
		bookmarks []*domain.UserLink
		statuses  []*domain.UserStatus
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookmarks, err = s.userLinkRepo.ListByUser(gctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = s.statusRepo.ListRecent(gctx, dashboardStatuses, &uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dbQueryErr(err)
	}

	linkIDs := make([]int64, 0, len(bookmarks))
	for _, b := range bookmarks {
		linkIDs = append(linkIDs, b.LinkID)
	}
	notes, err := s.noteRepo.ListByUserAndLinks(ctx, uid, linkIDs)
	if err != nil {
		return nil, dbQueryErr(err)
	}
	notesByLink := make(map[int64][]*domain.LinkNote, len(bookmarks))
	for _, n := range notes {
		notesByLink[n.LinkID] = append(notesByLink[n.LinkID], n)
	}

	out := &dto.DashboardDTO{
		Bookmarks:  make([]*dto.UserLinkDTO, 0, len(bookmarks)),
		Statuses:   s.mapper.statuses(statuses),
		Categories: categoryOptions(),
		States:     statusOptions(),
	}
	for _, b := range bookmarks {
		item := s.mapper.userLink(b)
		item.Notes = s.mapper.notes(notesByLink[b.LinkID])
		out.Bookmarks = append(out.Bookmarks, item)
	}
	return out, nil
}

func (s *queryService) Home(ctx context.Context) (*dto.HomeDTO, error) {
	out := &dto.HomeDTO{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Statuses, err = s.RecentStatuses(gctx, homeStatusLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.Trending, err = s.TrendingToday(gctx, homeTrendingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *queryService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.Links, err = s.linkRepo.Count(ctx); err != nil {
		return nil, dbQueryErr(err)
	}
	if st.Bookmarks, err = s.userLinkRepo.Count(ctx); err != nil {
		return nil, dbQueryErr(err)
	}
	if st.Statuses, err = s.statusRepo.Count(ctx); err != nil {
		return nil, dbQueryErr(err)
	}
	return &st, nil
}

var _ QueryService = (*queryService)(nil)
