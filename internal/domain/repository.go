// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// Repositories return gorm.ErrRecordNotFound for missing rows; services translate it.

// Transactor runs fn in one database transaction; repositories called with the ctx passed to fn join it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LinkRepository 链接仓储接口
type LinkRepository interface {
	// GetByID 根据ID获取链接
	GetByID(ctx context.Context, id int64) (*Link, error)

	// GetByURL 根据URL精确匹配
	GetByURL(ctx context.Context, url string) (*Link, error)

	// CreateOrGet inserts link unless its url already exists and returns the stored row.
	// created is true only when this call inserted it; the url unique index settles races.
	CreateOrGet(ctx context.Context, link *Link) (stored *Link, created bool, err error)

	// UpdateTitle 更新标题
	UpdateTitle(ctx context.Context, id int64, title string) error

	// ListRecent 最新链接, 附带提交者
	ListRecent(ctx context.Context, limit int) ([]*Link, error)

	// ListByIDs 按ID批量获取
	ListByIDs(ctx context.Context, ids []int64) ([]*Link, error)

	// AnonymizeSubmitter nulls submitted_by_user_id on every link uid submitted.
	AnonymizeSubmitter(ctx context.Context, uid int64) error

	Count(ctx context.Context) (int64, error)
}

// UserLinkRepository 书签仓储接口
type UserLinkRepository interface {
	// GetByID returns the bookmark only when uid owns it.
	GetByID(ctx context.Context, id, uid int64) (*UserLink, error)

	GetByUserAndLink(ctx context.Context, uid, linkID int64) (*UserLink, error)

	// CreateOrGet inserts the (user, link) bookmark unless it exists.
	// created is false when the pair was already bookmarked.
	CreateOrGet(ctx context.Context, ul *UserLink) (stored *UserLink, created bool, err error)

	// Update persists status and category.
	Update(ctx context.Context, ul *UserLink) error

	// LatestByUser 用户最近添加的书签, 附带链接
	LatestByUser(ctx context.Context, uid int64) (*UserLink, error)

	// ListByUser 用户全部书签, 最新在前, 附带链接
	ListByUser(ctx context.Context, uid int64) ([]*UserLink, error)

	// CountByLinkSince groups bookmarks created in [from, to) by link, highest count first.
	CountByLinkSince(ctx context.Context, from, to time.Time, limit int) ([]LinkBookmarkCount, error)

	DeleteByUser(ctx context.Context, uid int64) error

	Count(ctx context.Context) (int64, error)
}

// LinkNoteRepository 笔记仓储接口
type LinkNoteRepository interface {
	Create(ctx context.Context, note *LinkNote) (*LinkNote, error)

	// ListByUserAndLink only returns uid's own notes, newest first.
	ListByUserAndLink(ctx context.Context, uid, linkID int64) ([]*LinkNote, error)

	// ListByUserAndLinks 批量获取, 最新在前
	ListByUserAndLinks(ctx context.Context, uid int64, linkIDs []int64) ([]*LinkNote, error)

	DeleteByUser(ctx context.Context, uid int64) error
}

// UserStatusRepository 动态仓储接口
type UserStatusRepository interface {
	Create(ctx context.Context, status *UserStatus) (*UserStatus, error)

	// GetByID 附带用户与链接
	GetByID(ctx context.Context, id int64) (*UserStatus, error)

	Delete(ctx context.Context, id int64) error

	// ListRecent newest first; uid restricts to one author when non-nil.
	ListRecent(ctx context.Context, limit int, uid *int64) ([]*UserStatus, error)

	DeleteByUser(ctx context.Context, uid int64) error

	Count(ctx context.Context) (int64, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)

	GetByID(ctx context.Context, id int64) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// Delete removes only the user row; callers cascade inside a transaction.
	Delete(ctx context.Context, id int64) error
}

// ApiTokenRepository 访问令牌仓储接口
type ApiTokenRepository interface {
	Create(ctx context.Context, token *ApiToken) error

	GetByID(ctx context.Context, id string) (*ApiToken, error)

	// ListActiveByUser 未撤销的令牌, 最新在前
	ListActiveByUser(ctx context.Context, uid int64) ([]*ApiToken, error)

	// Revoke marks the token revoked when uid owns it, gorm.ErrRecordNotFound otherwise.
	Revoke(ctx context.Context, id string, uid int64, at time.Time) error

	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	DeleteByUser(ctx context.Context, uid int64) error

	// PurgeBefore hard-deletes tokens revoked or expired before t.
	PurgeBefore(ctx context.Context, t time.Time) (int64, error)
}
