package dao

import (
	"context"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"

	"gorm.io/gorm"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := timex.Now()
	m := &model.User{
		Name:           user.Name,
		Email:          user.Email,
		GithubUsername: strPtr(user.GithubUsername),
		Avatar:         strPtr(user.Avatar),
		CreatedAt:      timeOr(timex.Time(user.CreatedAt), now),
		UpdatedAt:      timeOr(timex.Time(user.UpdatedAt), now),
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return userToDomain(m), nil
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m model.User
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return userToDomain(&m), nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	if err := r.dao.DB(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, err
	}
	return userToDomain(&m), nil
}

// Delete 删除用户行
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res := r.dao.DB(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ domain.UserRepository = (*userRepository)(nil)
