package dao

import (
	"context"
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userLinkRepository 实现 domain.UserLinkRepository 接口
type userLinkRepository struct {
	dao *Dao
}

// NewUserLinkRepository 创建 UserLinkRepository 实例
func NewUserLinkRepository(dao *Dao) domain.UserLinkRepository {
	return &userLinkRepository{dao: dao}
}

// GetByID 获取属于 uid 的书签
func (r *userLinkRepository) GetByID(ctx context.Context, id, uid int64) (*domain.UserLink, error) {
	var m model.UserLink
	err := r.dao.DB(ctx).Preload("Link").Where("id = ? AND user_id = ?", id, uid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return userLinkToDomain(&m), nil
}

// GetByUserAndLink 根据用户与链接获取书签
func (r *userLinkRepository) GetByUserAndLink(ctx context.Context, uid, linkID int64) (*domain.UserLink, error) {
	var m model.UserLink
	err := r.dao.DB(ctx).Where("user_id = ? AND link_id = ?", uid, linkID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return userLinkToDomain(&m), nil
}

// CreateOrGet relies on idx_user_link: of two concurrent inserts exactly one wins, the other reads it back.
// A soft-deleted bookmark is restored as unread and counts as newly created.
func (r *userLinkRepository) CreateOrGet(ctx context.Context, ul *domain.UserLink) (*domain.UserLink, bool, error) {
	db := r.dao.DB(ctx)
	now := timex.Now()

	status := ul.Status
	if !status.Valid() {
		status = domain.StatusUnread
	}
	m := &model.UserLink{
		UserID:    ul.UserID,
		LinkID:    ul.LinkID,
		Category:  ul.Category.String(),
		Status:    status.String(),
		CreatedAt: timeOr(timex.Time(ul.CreatedAt), now),
		UpdatedAt: timeOr(timex.Time(ul.UpdatedAt), now),
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "link_id"}},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 && m.ID > 0 {
		return userLinkToDomain(m), true, nil
	}

	var existing model.UserLink
	err := db.Unscoped().Where("user_id = ? AND link_id = ?", ul.UserID, ul.LinkID).First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	if !existing.DeletedAt.Valid {
		return userLinkToDomain(&existing), false, nil
	}

	err = db.Unscoped().Model(&model.UserLink{}).Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"status":     m.Status,
			"category":   m.Category,
			"created_at": m.CreatedAt,
			"updated_at": m.UpdatedAt,
		}).Error
	if err != nil {
		return nil, false, err
	}
	existing.DeletedAt = gorm.DeletedAt{}
	existing.Status = m.Status
	existing.Category = m.Category
	existing.CreatedAt = m.CreatedAt
	existing.UpdatedAt = m.UpdatedAt
	return userLinkToDomain(&existing), true, nil
}

// Update 更新状态与分类
func (r *userLinkRepository) Update(ctx context.Context, ul *domain.UserLink) error {
	res := r.dao.DB(ctx).Model(&model.UserLink{}).
		Where("id = ? AND user_id = ?", ul.ID, ul.UserID).
		Updates(map[string]interface{}{
			"status":     ul.Status.String(),
			"category":   ul.Category.String(),
			"updated_at": timex.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LatestByUser 用户最近添加的书签
func (r *userLinkRepository) LatestByUser(ctx context.Context, uid int64) (*domain.UserLink, error) {
	var m model.UserLink
	err := r.dao.DB(ctx).Preload("Link").
		Where("user_id = ?", uid).
		Order("created_at DESC").Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return userLinkToDomain(&m), nil
}

// ListByUser 用户全部书签
func (r *userLinkRepository) ListByUser(ctx context.Context, uid int64) ([]*domain.UserLink, error) {
	var ms []*model.UserLink
	err := r.dao.DB(ctx).Preload("Link").
		Where("user_id = ?", uid).
		Order("created_at DESC").Order("id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.UserLink, 0, len(ms))
	for _, m := range ms {
		out = append(out, userLinkToDomain(m))
	}
	return out, nil
}

// CountByLinkSince 统计 [from, to) 区间内每个链接的收藏数
func (r *userLinkRepository) CountByLinkSince(ctx context.Context, from, to time.Time, limit int) ([]domain.LinkBookmarkCount, error) {
	var rows []struct {
		LinkID int64
		Cnt    int64
	}
	err := r.dao.DB(ctx).Model(&model.UserLink{}).
		Select("link_id, COUNT(*) AS cnt").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("link_id").
		Order("cnt DESC").Order("link_id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.LinkBookmarkCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.LinkBookmarkCount{LinkID: row.LinkID, Count: row.Cnt})
	}
	return out, nil
}

// DeleteByUser 物理删除用户全部书签
func (r *userLinkRepository) DeleteByUser(ctx context.Context, uid int64) error {
	return r.dao.DB(ctx).Unscoped().Where("user_id = ?", uid).Delete(&model.UserLink{}).Error
}

// Count 书签总数
func (r *userLinkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.DB(ctx).Model(&model.UserLink{}).Count(&n).Error
	return n, err
}

var _ domain.UserLinkRepository = (*userLinkRepository)(nil)
