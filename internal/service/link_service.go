package service

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/logger"
	"github.com/haierkeys/locket-service/pkg/metrics"

	"go.uber.org/zap"
)

// EventStatusCreated is the feed event sent for every new status.
const EventStatusCreated = "status.created"

// StatusPublisher pushes feed events to live subscribers.
type StatusPublisher interface {
	Publish(event string, data interface{}) error
}

// LinkService 链接收藏核心流程
type LinkService interface {
	// AddLink dedups rawURL, bookmarks it for uid and schedules a title fetch for new links.
	AddLink(ctx context.Context, uid int64, rawURL, hint string) (*dto.AddLinkResultDTO, error)

	// ShareLink runs AddLink and posts a status; non-empty thoughts also become a private note.
	ShareLink(ctx context.Context, uid int64, params *dto.LinkShareRequest) (*dto.ShareLinkResultDTO, error)

	// AddNote 为已收藏的链接添加笔记
	AddNote(ctx context.Context, uid int64, params *dto.LinkNoteRequest) (*dto.NoteResultDTO, error)

	// UpdateBookmark changes status and/or category of a bookmark uid owns.
	UpdateBookmark(ctx context.Context, uid, userLinkID int64, params *dto.UserLinkUpdateRequest) (*dto.UserLinkUpdateResultDTO, error)

	// BookmarkLink bookmarks an existing link by id.
	BookmarkLink(ctx context.Context, uid, linkID int64) (*dto.AddLinkResultDTO, error)
}

type linkService struct {
	linkRepo     domain.LinkRepository
	userLinkRepo domain.UserLinkRepository
	noteRepo     domain.LinkNoteRepository
	statusRepo   domain.UserStatusRepository
	tx           domain.Transactor
	scheduler    TitleScheduler
	publisher    StatusPublisher
	logger       *zap.Logger
	mapper       mapper
}

// NewLinkService 创建 LinkService 实例; publisher 可为空
func NewLinkService(
	linkRepo domain.LinkRepository,
	userLinkRepo domain.UserLinkRepository,
	noteRepo domain.LinkNoteRepository,
	statusRepo domain.UserStatusRepository,
	tx domain.Transactor,
	scheduler TitleScheduler,
	publisher StatusPublisher,
	lg *zap.Logger,
) LinkService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &linkService{
		linkRepo:     linkRepo,
		userLinkRepo: userLinkRepo,
		noteRepo:     noteRepo,
		statusRepo:   statusRepo,
		tx:           tx,
		scheduler:    scheduler,
		publisher:    publisher,
		logger:       lg,
		mapper:       newMapper(time.Now),
	}
}

// intake is the outcome of one dedup + bookmark pass.
type intake struct {
	link            *domain.Link
	userLink        *domain.UserLink
	linkCreated     bool
	bookmarkCreated bool
}

// runIntake must run inside a transaction; scheduling happens after commit.
func (s *linkService) runIntake(ctx context.Context, uid int64, rawURL, hint string) (*intake, error) {
	submitter := uid
	link, linkCreated, err := s.linkRepo.CreateOrGet(ctx, &domain.Link{
		URL:               rawURL,
		Title:             FallbackTitle(rawURL),
		Category:          SuggestCategory(rawURL, hint),
		SubmittedByUserID: &submitter,
	})
	if err != nil {
		return nil, dbWriteErr(err)
	}

	// 书签分类: 有效提示优先, 否则沿用链接分类
	category := link.Category
	if c, ok := parseHint(hint); ok {
		category = c
	}

	ul, bookmarkCreated, err := s.userLinkRepo.CreateOrGet(ctx, &domain.UserLink{
		UserID:   uid,
		LinkID:   link.ID,
		Category: category,
		Status:   domain.StatusUnread,
	})
	if err != nil {
		return nil, dbWriteErr(err)
	}

	// reload for the submitter
	if full, err := s.linkRepo.GetByID(ctx, link.ID); err == nil {
		link = full
	}
	ul.Link = link

	return &intake{
		link:            link,
		userLink:        ul,
		linkCreated:     linkCreated,
		bookmarkCreated: bookmarkCreated,
	}, nil
}

// afterIntake runs once the transaction committed.
func (s *linkService) afterIntake(uid int64, in *intake) {
	if in.linkCreated {
		metrics.LinksCreated.Inc()
		if s.scheduler != nil {
			s.scheduler.Schedule(in.link.ID)
		}
		s.logger.Info("link created", logger.UID(uid), logger.LinkID(in.link.ID), logger.URL(in.link.URL))
	}
	if in.bookmarkCreated {
		metrics.BookmarksCreated.Inc()
	}
}

func (s *linkService) publish(st *domain.UserStatus) {
	metrics.StatusesCreated.Inc()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(EventStatusCreated, s.mapper.status(st)); err != nil {
		s.logger.Warn("feed publish failed", zap.Int64("statusId", st.ID), zap.Error(err))
	}
}

func (s *linkService) AddLink(ctx context.Context, uid int64, rawURL, hint string) (*dto.AddLinkResultDTO, error) {
	rawURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := validateHint("category_hint", hint); err != nil {
		return nil, err
	}

	var in *intake
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		in, err = s.runIntake(ctx, uid, rawURL, hint)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterIntake(uid, in)

	msg := "Link added to your reading list!"
	if !in.bookmarkCreated {
		msg = "Link already bookmarked!"
	}
	return &dto.AddLinkResultDTO{
		Link:              s.mapper.link(in.link),
		UserLink:          s.mapper.userLink(in.userLink),
		AlreadyBookmarked: !in.bookmarkCreated,
		Message:           msg,
	}, nil
}

func (s *linkService) ShareLink(ctx context.Context, uid int64, params *dto.LinkShareRequest) (*dto.ShareLinkResultDTO, error) {
	rawURL, err := validateURL(params.URL)
	if err != nil {
		return nil, err
	}
	thoughts, err := validateText(code.ErrorLinkThoughtsInvalid, "thoughts", params.Thoughts, 0, maxThoughtsLength)
	if err != nil {
		return nil, err
	}
	hint := params.CategoryHint
	if err := validateHint("category_hint", hint); err != nil {
		return nil, err
	}
	if hint == "" {
		hint = domain.CategoryRead.String()
	}

	var (
		in     *intake
		status *domain.UserStatus
		note   *domain.LinkNote
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if in, err = s.runIntake(ctx, uid, rawURL, hint); err != nil {
			return err
		}

		if thoughts != "" {
			note, err = s.noteRepo.Create(ctx, &domain.LinkNote{UserID: uid, LinkID: in.link.ID, Note: thoughts})
			if err != nil {
				return dbWriteErr(err)
			}
		}

		created, err := s.statusRepo.Create(ctx, &domain.UserStatus{UserID: uid, Status: thoughts, LinkID: in.link.ID})
		if err != nil {
			return dbWriteErr(err)
		}
		if status, err = s.statusRepo.GetByID(ctx, created.ID); err != nil {
			return dbQueryErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterIntake(uid, in)
	s.publish(status)

	msg := "Status shared and link added to your collection!"
	if !in.bookmarkCreated {
		msg = "Status shared! Link was already in your collection."
	}
	return &dto.ShareLinkResultDTO{
		Link:              s.mapper.link(in.link),
		UserLink:          s.mapper.userLink(in.userLink),
		Status:            s.mapper.status(status),
		Note:              s.mapper.note(note),
		AlreadyBookmarked: !in.bookmarkCreated,
		Message:           msg,
	}, nil
}

func (s *linkService) AddNote(ctx context.Context, uid int64, params *dto.LinkNoteRequest) (*dto.NoteResultDTO, error) {
	text, err := validateText(code.ErrorNoteInvalid, "note", params.Note, 1, maxNoteLength)
	if err != nil {
		return nil, err
	}
	if params.LinkID <= 0 {
		return nil, code.ErrorInvalidParams.Clone().WithField("link_id", "The link id field is required.")
	}

	var note *domain.LinkNote
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.linkRepo.GetByID(ctx, params.LinkID); err != nil {
			if isNotFound(err) {
				return code.ErrorInvalidParams.Clone().WithField("link_id", "The selected link id is invalid.")
			}
			return dbQueryErr(err)
		}

		if _, err := s.userLinkRepo.GetByUserAndLink(ctx, uid, params.LinkID); err != nil {
			if isNotFound(err) {
				return code.ErrorNoteRequiresBookmark.Clone().
					WithField("link_id", "You must bookmark this link before adding notes.")
			}
			return dbQueryErr(err)
		}

		var err error
		note, err = s.noteRepo.Create(ctx, &domain.LinkNote{UserID: uid, LinkID: params.LinkID, Note: text})
		if err != nil {
			return dbWriteErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.NoteResultDTO{Note: s.mapper.note(note), Message: "Note added!"}, nil
}

func (s *linkService) UpdateBookmark(ctx context.Context, uid, userLinkID int64, params *dto.UserLinkUpdateRequest) (*dto.UserLinkUpdateResultDTO, error) {
	var (
		toStatus   domain.Status
		toCategory domain.Category
		ok         bool
	)
	if params.Status != "" {
		if toStatus, ok = domain.ParseStatus(params.Status); !ok {
			return nil, code.ErrorUserLinkStatusInvalid.Clone().WithField("status", "The selected status is invalid.")
		}
	}
	if params.Category != "" {
		if toCategory, ok = domain.ParseCategory(params.Category); !ok {
			return nil, code.ErrorLinkCategoryInvalid.Clone().WithField("category", "The selected category is invalid.")
		}
	}

	changes := map[string]domain.FieldChange{}
	var ul *domain.UserLink
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		ul, err = s.userLinkRepo.GetByID(ctx, userLinkID, uid)
		if err != nil {
			if isNotFound(err) {
				return code.ErrorUserLinkNotFound.Clone().WithField("user_link_id", "Link not found in your bookmarks.")
			}
			return dbQueryErr(err)
		}

		// 状态迁移只由迁移表决定, 原地迁移同样拒绝
		if toStatus.Valid() {
			from := ul.Status
			if err := ul.TransitionTo(toStatus); err != nil {
				var te *domain.TransitionError
				if errors.As(err, &te) {
					return transitionErr(te)
				}
				return err
			}
			changes["status"] = domain.FieldChange{From: from.String(), To: toStatus.String()}
		}
		if toCategory.Valid() {
			changes["category"] = domain.FieldChange{From: ul.Category.String(), To: toCategory.String()}
			ul.Category = toCategory
		}

		if len(changes) == 0 {
			return nil
		}
		if err := s.userLinkRepo.Update(ctx, ul); err != nil {
			if isNotFound(err) {
				return code.ErrorUserLinkNotFound.Clone()
			}
			return dbWriteErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.logger.Info("bookmark updated", logger.UID(uid), zap.Int64("userLinkId", ul.ID), zap.Any("changes", changes))
	}
	return &dto.UserLinkUpdateResultDTO{
		UserLink: s.mapper.userLink(ul),
		Changes:  changes,
		Message:  "Link updated!",
	}, nil
}

func (s *linkService) BookmarkLink(ctx context.Context, uid, linkID int64) (*dto.AddLinkResultDTO, error) {
	var in *intake
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		link, err := s.linkRepo.GetByID(ctx, linkID)
		if err != nil {
			if isNotFound(err) {
				return code.ErrorLinkNotFound.Clone()
			}
			return dbQueryErr(err)
		}
		in, err = s.runIntake(ctx, uid, link.URL, domain.CategoryRead.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterIntake(uid, in)

	msg := "Link added to your collection!"
	if !in.bookmarkCreated {
		msg = "Link was already in your collection!"
	}
	return &dto.AddLinkResultDTO{
		Link:              s.mapper.link(in.link),
		UserLink:          s.mapper.userLink(in.userLink),
		AlreadyBookmarked: !in.bookmarkCreated,
		Message:           msg,
	}, nil
}

var _ LinkService = (*linkService)(nil)
