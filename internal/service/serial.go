package service

import (
	"context"
	"errors"

	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/writequeue"
)

// WriteSerializer runs fn after every earlier write of the same user has finished.
type WriteSerializer interface {
	Execute(ctx context.Context, uid int64, fn func() error) error
}

// queueError maps queue refusals onto result codes; fn's own errors pass through.
func queueError(err error) error {
	switch {
	case errors.Is(err, writequeue.ErrWriteQueueFull):
		return code.ErrorTooManyRequests.Clone().WithDetails(err.Error())
	case errors.Is(err, writequeue.ErrWriteQueueClosed), errors.Is(err, writequeue.ErrWriteTimeout):
		return code.ErrorServerBusy.Clone().WithDetails(err.Error())
	}
	return err
}

// serialLinkService serializes one user's intake, note and bookmark writes.
type serialLinkService struct {
	LinkService
	q WriteSerializer
}

// NewSerialLinkService wraps inner so each user's writes run one at a time.
func NewSerialLinkService(inner LinkService, q WriteSerializer) LinkService {
	if q == nil {
		return inner
	}
	return &serialLinkService{LinkService: inner, q: q}
}

// serially runs fn on uid's lane. out is read only after the lane handed back fn's result;
// a caller that timed out never touches it.
func serially[T any](ctx context.Context, q WriteSerializer, uid int64, fn func() (T, error)) (T, error) {
	var out T
	err := q.Execute(ctx, uid, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, queueError(err)
	}
	return out, nil
}

func (s *serialLinkService) AddLink(ctx context.Context, uid int64, rawURL, hint string) (*dto.AddLinkResultDTO, error) {
	return serially(ctx, s.q, uid, func() (*dto.AddLinkResultDTO, error) {
		return s.LinkService.AddLink(ctx, uid, rawURL, hint)
	})
}

func (s *serialLinkService) ShareLink(ctx context.Context, uid int64, params *dto.LinkShareRequest) (*dto.ShareLinkResultDTO, error) {
	return serially(ctx, s.q, uid, func() (*dto.ShareLinkResultDTO, error) {
		return s.LinkService.ShareLink(ctx, uid, params)
	})
}

func (s *serialLinkService) AddNote(ctx context.Context, uid int64, params *dto.LinkNoteRequest) (*dto.NoteResultDTO, error) {
	return serially(ctx, s.q, uid, func() (*dto.NoteResultDTO, error) {
		return s.LinkService.AddNote(ctx, uid, params)
	})
}

func (s *serialLinkService) UpdateBookmark(ctx context.Context, uid, userLinkID int64, params *dto.UserLinkUpdateRequest) (*dto.UserLinkUpdateResultDTO, error) {
	return serially(ctx, s.q, uid, func() (*dto.UserLinkUpdateResultDTO, error) {
		return s.LinkService.UpdateBookmark(ctx, uid, userLinkID, params)
	})
}

func (s *serialLinkService) BookmarkLink(ctx context.Context, uid, linkID int64) (*dto.AddLinkResultDTO, error) {
	return serially(ctx, s.q, uid, func() (*dto.AddLinkResultDTO, error) {
		return s.LinkService.BookmarkLink(ctx, uid, linkID)
	})
}

// serialStatusService 动态写入串行化
type serialStatusService struct {
	StatusService
	q WriteSerializer
}

// NewSerialStatusService wraps inner so each user's status writes run one at a time.
func NewSerialStatusService(inner StatusService, q WriteSerializer) StatusService {
	if q == nil {
		return inner
	}
	return &serialStatusService{StatusService: inner, q: q}
}

func (s *serialStatusService) Create(ctx context.Context, uid int64, params *dto.StatusCreateRequest) (*dto.StatusDTO, error) {
	return serially(ctx, s.q, uid, func() (*dto.StatusDTO, error) {
		return s.StatusService.Create(ctx, uid, params)
	})
}

func (s *serialStatusService) Delete(ctx context.Context, uid, statusID int64) error {
	return queueError(s.q.Execute(ctx, uid, func() error {
		return s.StatusService.Delete(ctx, uid, statusID)
	}))
}
