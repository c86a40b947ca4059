package dao

import (
	"context"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// linkRepository 实现 domain.LinkRepository 接口
type linkRepository struct {
	dao *Dao
}

// NewLinkRepository 创建 LinkRepository 实例
func NewLinkRepository(dao *Dao) domain.LinkRepository {
	return &linkRepository{dao: dao}
}

// GetByID 根据ID获取链接
func (r *linkRepository) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	var m model.Link
	if err := r.dao.DB(ctx).Preload("Submitter").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return linkToDomain(&m), nil
}

// GetByURL 根据URL获取链接
func (r *linkRepository) GetByURL(ctx context.Context, url string) (*domain.Link, error) {
	var m model.Link
	err := r.dao.DB(ctx).Where("url_hash = ? AND url = ?", URLHash(url), url).First(&m).Error
	if err != nil {
		return nil, err
	}
	return linkToDomain(&m), nil
}

// CreateOrGet inserts with ON CONFLICT DO NOTHING and falls back to reading the winner.
// A soft-deleted row with the same url is restored rather than duplicated.
func (r *linkRepository) CreateOrGet(ctx context.Context, link *domain.Link) (*domain.Link, bool, error) {
	db := r.dao.DB(ctx)
	now := timex.Now()

	m := linkToModel(link)
	m.ID = 0
	m.CreatedAt = timeOr(m.CreatedAt, now)
	m.UpdatedAt = timeOr(m.UpdatedAt, now)

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url_hash"}},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 && m.ID > 0 {
		return linkToDomain(m), true, nil
	}

	var existing model.Link
	if err := db.Unscoped().Where("url_hash = ?", m.URLHash).First(&existing).Error; err != nil {
		return nil, false, err
	}
	if existing.DeletedAt.Valid {
		err := db.Unscoped().Model(&model.Link{}).Where("id = ?", existing.ID).
			Updates(map[string]interface{}{"deleted_at": nil, "updated_at": now}).Error
		if err != nil {
			return nil, false, err
		}
		existing.DeletedAt = gorm.DeletedAt{}
		existing.UpdatedAt = now
	}
	return linkToDomain(&existing), false, nil
}

// UpdateTitle 更新标题
func (r *linkRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	return r.dao.DB(ctx).Model(&model.Link{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "updated_at": timex.Now()}).Error
}

// ListRecent 获取最新链接
func (r *linkRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Link, error) {
	var ms []*model.Link
	err := r.dao.DB(ctx).Preload("Submitter").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListByIDs 批量获取链接
func (r *linkRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Link, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []*model.Link
	if err := r.dao.DB(ctx).Preload("Submitter").Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// AnonymizeSubmitter 清空提交者, 包括已软删除的链接
func (r *linkRepository) AnonymizeSubmitter(ctx context.Context, uid int64) error {
	return r.dao.DB(ctx).Unscoped().Model(&model.Link{}).
		Where("submitted_by_user_id = ?", uid).
		UpdateColumn("submitted_by_user_id", nil).Error
}

// Count 链接总数
func (r *linkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.DB(ctx).Model(&model.Link{}).Count(&n).Error
	return n, err
}

func (r *linkRepository) toDomainList(ms []*model.Link) []*domain.Link {
	out := make([]*domain.Link, 0, len(ms))
	for _, m := range ms {
		out = append(out, linkToDomain(m))
	}
	return out
}

// 确保 linkRepository 实现了 domain.LinkRepository 接口
var _ domain.LinkRepository = (*linkRepository)(nil)
