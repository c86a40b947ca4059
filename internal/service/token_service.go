package service

import (
	"context"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenService 个人访问令牌: 签发, 吊销, 校验
type TokenService interface {
	// CreateToken persists a token row and returns the signed token once; it is never stored.
	CreateToken(ctx context.Context, uid int64, params *dto.TokenCreateRequest) (*dto.NewTokenDTO, error)

	// RevokeToken revokes a token uid owns; other users' tokens read as not found.
	RevokeToken(ctx context.Context, uid int64, tokenID string) error

	// ListTokens 未吊销的令牌
	ListTokens(ctx context.Context, uid int64) ([]*dto.TokenDTO, error)

	// ValidateToken checks signature, expiry and revocation, then records the use.
	ValidateToken(ctx context.Context, plain string) (*pkgapp.TokenClaims, error)

	// PurgeExpired hard-deletes tokens revoked or expired longer than the retention window.
	PurgeExpired(ctx context.Context) (int64, error)
}

type tokenService struct {
	tokenRepo domain.ApiTokenRepository
	userRepo  domain.UserRepository
	manager   pkgapp.TokenManager
	config    TokenConfig
	now       func() time.Time
	logger    *zap.Logger
	mapper    mapper
}

// NewTokenService 创建 TokenService 实例
func NewTokenService(
	tokenRepo domain.ApiTokenRepository,
	userRepo domain.UserRepository,
	manager pkgapp.TokenManager,
	lg *zap.Logger,
	config *ServiceConfig,
) TokenService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &tokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		manager:   manager,
		config:    config.token(),
		now:       time.Now,
		logger:    lg,
		mapper:    newMapper(time.Now),
	}
}

func (s *tokenService) CreateToken(ctx context.Context, uid int64, params *dto.TokenCreateRequest) (*dto.NewTokenDTO, error) {
	name, err := validateText(code.ErrorTokenNameRequired, "name", params.Name, 1, 255)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, uid); err != nil {
		if isNotFound(err) {
			return nil, code.ErrorUserNotFound.Clone()
		}
		return nil, dbQueryErr(err)
	}

	scopes := params.Scopes
	if len(scopes) == 0 {
		scopes = s.config.DefaultScopes
	}

	id := uuid.NewString()
	plain, expiresAt, err := s.manager.Generate(uid, id, name, scopes)
	if err != nil {
		return nil, code.ErrorTokenGenerate.Clone().WithDetails(err.Error())
	}

	token := &domain.ApiToken{
		ID:        id,
		UserID:    uid,
		Name:      name,
		Scopes:    scopes,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, dbWriteErr(err)
	}

	s.logger.Info("api token created", logger.UID(uid), zap.String("tokenId", id), zap.String("name", name))
	return &dto.NewTokenDTO{Token: s.mapper.token(token), PlainTextToken: plain}, nil
}

func (s *tokenService) RevokeToken(ctx context.Context, uid int64, tokenID string) error {
	if err := s.tokenRepo.Revoke(ctx, tokenID, uid, s.now()); err != nil {
		if isNotFound(err) {
			return code.ErrorTokenNotFound.Clone()
		}
		return dbWriteErr(err)
	}
	s.logger.Info("api token revoked", logger.UID(uid), zap.String("tokenId", tokenID))
	return nil
}

func (s *tokenService) ListTokens(ctx context.Context, uid int64) ([]*dto.TokenDTO, error) {
	tokens, err := s.tokenRepo.ListActiveByUser(ctx, uid)
	if err != nil {
		return nil, dbQueryErr(err)
	}
	out := make([]*dto.TokenDTO, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, s.mapper.token(t))
	}
	return out, nil
}

func (s *tokenService) ValidateToken(ctx context.Context, plain string) (*pkgapp.TokenClaims, error) {
	if plain == "" {
		return nil, code.ErrorNotUserAuthToken.Clone()
	}
	claims, err := s.manager.Parse(plain)
	if err != nil || claims.ID == "" || claims.UID <= 0 {
		return nil, code.ErrorInvalidUserAuthToken.Clone()
	}

	token, err := s.tokenRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, code.ErrorInvalidUserAuthToken.Clone()
		}
		return nil, dbQueryErr(err)
	}
	if token.UserID != claims.UID {
		return nil, code.ErrorInvalidUserAuthToken.Clone()
	}
	now := s.now()
	if token.RevokedAt != nil {
		return nil, code.ErrorTokenRevoked.Clone()
	}
	if !token.IsUsable(now) {
		return nil, code.ErrorInvalidUserAuthToken.Clone()
	}

	if err := s.tokenRepo.TouchLastUsed(ctx, token.ID, now); err != nil {
		s.logger.Warn("token last_used_at update failed", zap.String("tokenId", token.ID), zap.Error(err))
	}
	return claims, nil
}

func (s *tokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.PurgeBefore(ctx, s.now().Add(-s.config.Retention))
	if err != nil {
		return 0, dbWriteErr(err)
	}
	return n, nil
}

var _ TokenService = (*tokenService)(nil)
