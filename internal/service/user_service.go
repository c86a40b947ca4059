package service

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/logger"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// UserService 用户管理
type UserService interface {
	Create(ctx context.Context, params *dto.UserCreateRequest) (*dto.AccountDTO, error)

	Get(ctx context.Context, uid int64) (*dto.AccountDTO, error)

	// Delete removes the user with its bookmarks, notes, statuses and tokens in one transaction.
	// Links the user submitted stay, anonymized.
	Delete(ctx context.Context, uid int64) error
}

type userService struct {
	userRepo     domain.UserRepository
	linkRepo     domain.LinkRepository
	userLinkRepo domain.UserLinkRepository
	noteRepo     domain.LinkNoteRepository
	statusRepo   domain.UserStatusRepository
	tokenRepo    domain.ApiTokenRepository
	tx           domain.Transactor
	logger       *zap.Logger
	mapper       mapper
}

// NewUserService 创建 UserService 实例
func NewUserService(
	userRepo domain.UserRepository,
	linkRepo domain.LinkRepository,
	userLinkRepo domain.UserLinkRepository,
	noteRepo domain.LinkNoteRepository,
	statusRepo domain.UserStatusRepository,
	tokenRepo domain.ApiTokenRepository,
	tx domain.Transactor,
	lg *zap.Logger,
) UserService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		linkRepo:     linkRepo,
		userLinkRepo: userLinkRepo,
		noteRepo:     noteRepo,
		statusRepo:   statusRepo,
		tokenRepo:    tokenRepo,
		tx:           tx,
		logger:       lg,
		mapper:       newMapper(time.Now),
	}
}

func (s *userService) Create(ctx context.Context, params *dto.UserCreateRequest) (*dto.AccountDTO, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Name = strings.TrimSpace(params.Name)
	if err := binding.Validator.ValidateStruct(params); err != nil {
		return nil, code.ErrorInvalidParams.Clone().WithDetails(err.Error())
	}

	if _, err := s.userRepo.GetByEmail(ctx, params.Email); err == nil {
		return nil, code.ErrorUserEmailExists.Clone().WithField("email", "The email has already been taken.")
	} else if !isNotFound(err) {
		return nil, dbQueryErr(err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Name:           params.Name,
		Email:          params.Email,
		GithubUsername: strings.TrimSpace(params.GithubUsername),
		Avatar:         strings.TrimSpace(params.Avatar),
	})
	if err != nil {
		return nil, code.ErrorUserCreate.Clone().WithDetails(err.Error())
	}

	s.logger.Info("user created", logger.UID(user.ID), zap.String("email", user.Email))
	return s.mapper.account(user), nil
}

func (s *userService) Get(ctx context.Context, uid int64) (*dto.AccountDTO, error) {
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if isNotFound(err) {
			return nil, code.ErrorUserNotFound.Clone()
		}
		return nil, dbQueryErr(err)
	}
	return s.mapper.account(user), nil
}

func (s *userService) Delete(ctx context.Context, uid int64) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, uid); err != nil {
			return err
		}
		// 级联删除顺序: 笔记, 动态, 书签, 令牌, 再匿名化链接
		steps := []func(context.Context, int64) error{
			s.noteRepo.DeleteByUser,
			s.statusRepo.DeleteByUser,
			s.userLinkRepo.DeleteByUser,
			s.tokenRepo.DeleteByUser,
			s.linkRepo.AnonymizeSubmitter,
			s.userRepo.Delete,
		}
		for _, step := range steps {
			if err := step(ctx, uid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return code.ErrorUserNotFound.Clone()
		}
		return code.ErrorUserDelete.Clone().WithDetails(err.Error())
	}

	s.logger.Info("user deleted", logger.UID(uid))
	return nil
}

var _ UserService = (*userService)(nil)
