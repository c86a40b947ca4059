package service

import (
	"context"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/logger"
	"github.com/haierkeys/locket-service/pkg/metrics"

	"go.uber.org/zap"
)

// StatusService 动态发布与删除
type StatusService interface {
	// Create posts a bare status. Without a link id it anchors to the user's latest bookmark.
	Create(ctx context.Context, uid int64, params *dto.StatusCreateRequest) (*dto.StatusDTO, error)

	// Delete removes a status uid posted; anyone else's status reads as not found.
	Delete(ctx context.Context, uid, statusID int64) error
}

type statusService struct {
	linkRepo     domain.LinkRepository
	userLinkRepo domain.UserLinkRepository
	statusRepo   domain.UserStatusRepository
	publisher    StatusPublisher
	logger       *zap.Logger
	mapper       mapper
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(
	linkRepo domain.LinkRepository,
	userLinkRepo domain.UserLinkRepository,
	statusRepo domain.UserStatusRepository,
	publisher StatusPublisher,
	lg *zap.Logger,
) StatusService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &statusService{
		linkRepo:     linkRepo,
		userLinkRepo: userLinkRepo,
		statusRepo:   statusRepo,
		publisher:    publisher,
		logger:       lg,
		mapper:       newMapper(time.Now),
	}
}

func (s *statusService) Create(ctx context.Context, uid int64, params *dto.StatusCreateRequest) (*dto.StatusDTO, error) {
	text, err := validateText(code.ErrorStatusTextInvalid, "status", params.Status, 1, maxStatusLength)
	if err != nil {
		return nil, err
	}

	linkID := params.LinkID
	if linkID > 0 {
		if _, err := s.linkRepo.GetByID(ctx, linkID); err != nil {
			if isNotFound(err) {
				return nil, code.ErrorInvalidParams.Clone().WithField("link_id", "The selected link id is invalid.")
			}
			return nil, dbQueryErr(err)
		}
	} else {
		latest, err := s.userLinkRepo.LatestByUser(ctx, uid)
		if err != nil {
			if isNotFound(err) {
				return nil, code.ErrorStatusRequiresBookmark.Clone().
					WithField("link_id", "Add a link before posting a status.")
			}
			return nil, dbQueryErr(err)
		}
		linkID = latest.LinkID
	}

	created, err := s.statusRepo.Create(ctx, &domain.UserStatus{UserID: uid, Status: text, LinkID: linkID})
	if err != nil {
		return nil, dbWriteErr(err)
	}
	st, err := s.statusRepo.GetByID(ctx, created.ID)
	if err != nil {
		return nil, dbQueryErr(err)
	}

	metrics.StatusesCreated.Inc()
	out := s.mapper.status(st)
	if s.publisher != nil {
		if err := s.publisher.Publish(EventStatusCreated, out); err != nil {
			s.logger.Warn("feed publish failed", zap.Int64("statusId", st.ID), zap.Error(err))
		}
	}
	s.logger.Info("status created", logger.UID(uid), logger.LinkID(linkID), zap.Int64("statusId", st.ID))
	return out, nil
}

func (s *statusService) Delete(ctx context.Context, uid, statusID int64) error {
	st, err := s.statusRepo.GetByID(ctx, statusID)
	if err != nil {
		if isNotFound(err) {
			return code.ErrorStatusNotFound.Clone()
		}
		return dbQueryErr(err)
	}
	if st.UserID != uid {
		return code.ErrorStatusNotFound.Clone()
	}
	if err := s.statusRepo.Delete(ctx, statusID); err != nil {
		if isNotFound(err) {
			return code.ErrorStatusNotFound.Clone()
		}
		return dbWriteErr(err)
	}
	return nil
}

var _ StatusService = (*statusService)(nil)
