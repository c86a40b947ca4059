package dao

import (
	"context"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"
)

// linkNoteRepository 实现 domain.LinkNoteRepository 接口
type linkNoteRepository struct {
	dao *Dao
}

// NewLinkNoteRepository 创建 LinkNoteRepository 实例
func NewLinkNoteRepository(dao *Dao) domain.LinkNoteRepository {
	return &linkNoteRepository{dao: dao}
}

// Create 创建笔记
func (r *linkNoteRepository) Create(ctx context.Context, note *domain.LinkNote) (*domain.LinkNote, error) {
	now := timex.Now()
	m := &model.LinkNote{
		UserID:    note.UserID,
		LinkID:    note.LinkID,
		Note:      note.Note,
		CreatedAt: timeOr(timex.Time(note.CreatedAt), now),
		UpdatedAt: timeOr(timex.Time(note.UpdatedAt), now),
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return noteToDomain(m), nil
}

// ListByUserAndLink 用户自己在该链接上的笔记
func (r *linkNoteRepository) ListByUserAndLink(ctx context.Context, uid, linkID int64) ([]*domain.LinkNote, error) {
	var ms []*model.LinkNote
	err := r.dao.DB(ctx).
		Where("user_id = ? AND link_id = ?", uid, linkID).
		Order("created_at DESC").Order("id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListByUserAndLinks 批量获取笔记
func (r *linkNoteRepository) ListByUserAndLinks(ctx context.Context, uid int64, linkIDs []int64) ([]*domain.LinkNote, error) {
	if len(linkIDs) == 0 {
		return nil, nil
	}
	var ms []*model.LinkNote
	err := r.dao.DB(ctx).
		Where("user_id = ? AND link_id IN ?", uid, linkIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// DeleteByUser 物理删除用户全部笔记
func (r *linkNoteRepository) DeleteByUser(ctx context.Context, uid int64) error {
	return r.dao.DB(ctx).Unscoped().Where("user_id = ?", uid).Delete(&model.LinkNote{}).Error
}

func (r *linkNoteRepository) toDomainList(ms []*model.LinkNote) []*domain.LinkNote {
	out := make([]*domain.LinkNote, 0, len(ms))
	for _, m := range ms {
		out = append(out, noteToDomain(m))
	}
	return out
}

var _ domain.LinkNoteRepository = (*linkNoteRepository)(nil)
