package dao

import (
	"context"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"

	"gorm.io/gorm"
)

// apiTokenRepository 实现 domain.ApiTokenRepository 接口
type apiTokenRepository struct {
	dao *Dao
}

// NewApiTokenRepository 创建 ApiTokenRepository 实例
func NewApiTokenRepository(dao *Dao) domain.ApiTokenRepository {
	return &apiTokenRepository{dao: dao}
}

// Create 保存令牌
func (r *apiTokenRepository) Create(ctx context.Context, token *domain.ApiToken) error {
	m := &model.ApiToken{
		ID:         token.ID,
		UserID:     token.UserID,
		Name:       token.Name,
		Scopes:     model.JSONList(token.Scopes),
		LastUsedAt: fromTimePtr(token.LastUsedAt),
		ExpiresAt:  timex.Time(token.ExpiresAt),
		RevokedAt:  fromTimePtr(token.RevokedAt),
		CreatedAt:  timeOr(timex.Time(token.CreatedAt), timex.Now()),
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return err
	}
	token.CreatedAt = m.CreatedAt.Time()
	return nil
}

// GetByID 根据ID获取令牌
func (r *apiTokenRepository) GetByID(ctx context.Context, id string) (*domain.ApiToken, error) {
	var m model.ApiToken
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return tokenToDomain(&m), nil
}

// ListActiveByUser 未撤销的令牌
func (r *apiTokenRepository) ListActiveByUser(ctx context.Context, uid int64) ([]*domain.ApiToken, error) {
	var ms []*model.ApiToken
	err := r.dao.DB(ctx).
		Where("user_id = ? AND revoked_at IS NULL", uid).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ApiToken, 0, len(ms))
	for _, m := range ms {
		out = append(out, tokenToDomain(m))
	}
	return out, nil
}

// Revoke 撤销令牌
func (r *apiTokenRepository) Revoke(ctx context.Context, id string, uid int64, at time.Time) error {
	res := r.dao.DB(ctx).Model(&model.ApiToken{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", id, uid).
		Update("revoked_at", timex.Time(at))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastUsed 更新最近使用时间
func (r *apiTokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	return r.dao.DB(ctx).Model(&model.ApiToken{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", timex.Time(at)).Error
}

// DeleteByUser 删除用户全部令牌
func (r *apiTokenRepository) DeleteByUser(ctx context.Context, uid int64) error {
	return r.dao.DB(ctx).Where("user_id = ?", uid).Delete(&model.ApiToken{}).Error
}

// PurgeBefore 清理早已撤销或过期的令牌
func (r *apiTokenRepository) PurgeBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.dao.DB(ctx).
		Where("(revoked_at IS NOT NULL AND revoked_at < ?) OR expires_at < ?", t, t).
		Delete(&model.ApiToken{})
	return res.RowsAffected, res.Error
}

var _ domain.ApiTokenRepository = (*apiTokenRepository)(nil)
