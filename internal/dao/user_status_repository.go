package dao

import (
	"context"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"

	"gorm.io/gorm"
)

// userStatusRepository 实现 domain.UserStatusRepository 接口
type userStatusRepository struct {
	dao *Dao
}

// NewUserStatusRepository 创建 UserStatusRepository 实例
func NewUserStatusRepository(dao *Dao) domain.UserStatusRepository {
	return &userStatusRepository{dao: dao}
}

// Create 创建动态
func (r *userStatusRepository) Create(ctx context.Context, status *domain.UserStatus) (*domain.UserStatus, error) {
	now := timex.Now()
	m := &model.UserStatus{
		UserID:    status.UserID,
		Status:    status.Status,
		LinkID:    status.LinkID,
		CreatedAt: timeOr(timex.Time(status.CreatedAt), now),
		UpdatedAt: timeOr(timex.Time(status.UpdatedAt), now),
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return statusToDomain(m), nil
}

// GetByID 获取动态, 附带用户与链接
func (r *userStatusRepository) GetByID(ctx context.Context, id int64) (*domain.UserStatus, error) {
	var m model.UserStatus
	err := r.withRelations(r.dao.DB(ctx)).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return statusToDomain(&m), nil
}

// Delete 删除动态
func (r *userStatusRepository) Delete(ctx context.Context, id int64) error {
	res := r.dao.DB(ctx).Where("id = ?", id).Delete(&model.UserStatus{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRecent 最新动态
func (r *userStatusRepository) ListRecent(ctx context.Context, limit int, uid *int64) ([]*domain.UserStatus, error) {
	q := r.withRelations(r.dao.DB(ctx))
	if uid != nil {
		q = q.Where("user_id = ?", *uid)
	}
	var ms []*model.UserStatus
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.UserStatus, 0, len(ms))
	for _, m := range ms {
		out = append(out, statusToDomain(m))
	}
	return out, nil
}

// DeleteByUser 删除用户全部动态
func (r *userStatusRepository) DeleteByUser(ctx context.Context, uid int64) error {
	return r.dao.DB(ctx).Where("user_id = ?", uid).Delete(&model.UserStatus{}).Error
}

// Count 动态总数
func (r *userStatusRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.DB(ctx).Model(&model.UserStatus{}).Count(&n).Error
	return n, err
}

func (r *userStatusRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Link")
}

var _ domain.UserStatusRepository = (*userStatusRepository)(nil)
