package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/pkg/logger"
	"github.com/haierkeys/locket-service/pkg/metrics"
	"github.com/haierkeys/locket-service/pkg/workerpool"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TitleScheduler queues a title refresh for a freshly created link.
type TitleScheduler interface {
	Schedule(linkID int64)
}

// TitleService 异步抓取并保存链接标题
type TitleService interface {
	TitleScheduler

	// Refresh fetches the page for linkID and stores its title.
	// Every failure is logged and swallowed; nothing is retried.
	Refresh(ctx context.Context, linkID int64)
}

type titleService struct {
	linkRepo domain.LinkRepository
	fetcher  TitleFetcher
	pool     *workerpool.Pool
	sf       singleflight.Group
	logger   *zap.Logger
}

// NewTitleService 创建 TitleService 实例
func NewTitleService(linkRepo domain.LinkRepository, fetcher TitleFetcher, pool *workerpool.Pool, lg *zap.Logger) TitleService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &titleService{
		linkRepo: linkRepo,
		fetcher:  fetcher,
		pool:     pool,
		logger:   lg,
	}
}

// Schedule is fire-and-forget: a full or closed pool drops the job.
func (s *titleService) Schedule(linkID int64) {
	if s.pool == nil {
		go s.Refresh(context.Background(), linkID)
		return
	}
	err := s.pool.SubmitAsync(context.Background(), func(ctx context.Context) error {
		s.Refresh(ctx, linkID)
		return nil
	})
	if err != nil {
		s.logger.Warn("title fetch dropped", logger.LinkID(linkID), zap.Error(err))
	}
}

// Refresh collapses concurrent runs for the same link.
func (s *titleService) Refresh(ctx context.Context, linkID int64) {
	_, _, _ = s.sf.Do(strconv.FormatInt(linkID, 10), func() (interface{}, error) {
		s.refresh(ctx, linkID)
		return nil, nil
	})
}

func (s *titleService) refresh(ctx context.Context, linkID int64) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		s.logger.Warn("title fetch: link lookup failed", logger.LinkID(linkID), zap.Error(err))
		return
	}

	s.logger.Info("title fetch: requesting page", logger.LinkID(linkID), logger.URL(link.URL))

	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, link.URL)
	metrics.TitleFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) {
			metrics.TitleFetch.WithLabelValues(metrics.FetchHTTPError).Inc()
			s.logger.Warn("title fetch: non-success response",
				logger.LinkID(linkID), logger.URL(link.URL), zap.Int("status", statusErr.StatusCode))
			return
		}
		metrics.TitleFetch.WithLabelValues(metrics.FetchError).Inc()
		s.logger.Warn("title fetch: request failed", logger.LinkID(linkID), logger.URL(link.URL), zap.Error(err))
		return
	}

	if res.Title == "" {
		metrics.TitleFetch.WithLabelValues(metrics.FetchNoTitle).Inc()
		s.logger.Warn("title fetch: no title tag",
			logger.LinkID(linkID), logger.URL(link.URL), zap.Int("bodyLength", res.BodyLength))
		return
	}

	if err := s.linkRepo.UpdateTitle(ctx, linkID, res.Title); err != nil {
		metrics.TitleFetch.WithLabelValues(metrics.FetchError).Inc()
		s.logger.Error("title fetch: update failed", logger.LinkID(linkID), zap.Error(err))
		return
	}

	metrics.TitleFetch.WithLabelValues(metrics.FetchOK).Inc()
	s.logger.Info("title fetch: title updated",
		logger.LinkID(linkID), logger.URL(link.URL), zap.String("title", res.Title))
}

var _ TitleService = (*titleService)(nil)
