package dto

import (
	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/pkg/timex"
)

// ---------------- DTO / Response ----------------

// UserDTO 用户公开信息
type UserDTO struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	GithubUsername string     `json:"github_username,omitempty"`
	DisplayName    string     `json:"display_name"`
	AvatarURL      string     `json:"avatar_url"`
	FallbackAvatar string     `json:"fallback_avatar_url"`
	CreatedAt      timex.Time `json:"created_at"`
}

// AccountDTO is the acting user's own view, email included.
type AccountDTO struct {
	UserDTO
	Email string `json:"email"`
}

// LinkDTO 链接
type LinkDTO struct {
	ID             int64          `json:"id"`
	URL            string         `json:"url"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Category       string         `json:"category"`
	CategoryLabel  string         `json:"category_label"`
	SubmittedBy    string         `json:"submitted_by"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      timex.Time     `json:"created_at"`
	CreatedAtHuman string         `json:"created_at_human"`
}

// TrendingLinkDTO 今日热门链接
type TrendingLinkDTO struct {
	LinkDTO
	BookmarkCount int64 `json:"bookmark_count"`
}

// LinkNoteDTO 私有笔记
type LinkNoteDTO struct {
	ID             int64      `json:"id"`
	LinkID         int64      `json:"link_id"`
	Note           string     `json:"note"`
	CreatedAt      timex.Time `json:"created_at"`
	CreatedAtHuman string     `json:"created_at_human"`
}

// UserLinkDTO 书签
type UserLinkDTO struct {
	ID            int64          `json:"id"`
	LinkID        int64          `json:"link_id"`
	Category      string         `json:"category"`
	CategoryLabel string         `json:"category_label"`
	Status        string         `json:"status"`
	StatusLabel   string         `json:"status_label"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     timex.Time     `json:"created_at"`
	UpdatedAt     timex.Time     `json:"updated_at"`
	Link          *LinkDTO       `json:"link,omitempty"`
	Notes         []*LinkNoteDTO `json:"notes,omitempty"`
}

// StatusDTO 动态
type StatusDTO struct {
	ID             int64      `json:"id"`
	Status         string     `json:"status"`
	LinkID         int64      `json:"link_id"`
	User           *UserDTO   `json:"user,omitempty"`
	Link           *LinkDTO   `json:"link,omitempty"`
	CreatedAt      timex.Time `json:"created_at"`
	CreatedAtHuman string     `json:"created_at_human"`
}

// AddLinkResultDTO 添加链接结果
type AddLinkResultDTO struct {
	Link              *LinkDTO     `json:"link"`
	UserLink          *UserLinkDTO `json:"user_link"`
	AlreadyBookmarked bool         `json:"already_bookmarked"`
	Message           string       `json:"message"`
}

// ShareLinkResultDTO 分享链接结果
type ShareLinkResultDTO struct {
	Link              *LinkDTO     `json:"link"`
	UserLink          *UserLinkDTO `json:"user_link"`
	Status            *StatusDTO   `json:"status"`
	Note              *LinkNoteDTO `json:"note,omitempty"`
	AlreadyBookmarked bool         `json:"already_bookmarked"`
	Message           string       `json:"message"`
}

// NoteResultDTO 添加笔记结果
type NoteResultDTO struct {
	Note    *LinkNoteDTO `json:"note"`
	Message string       `json:"message"`
}

// UserLinkUpdateResultDTO carries the per-field changelog.
type UserLinkUpdateResultDTO struct {
	UserLink *UserLinkDTO                  `json:"user_link"`
	Changes  map[string]domain.FieldChange `json:"changes"`
	Message  string                        `json:"message"`
}

// LastAddedLinkDTO 用户最近添加的链接
type LastAddedLinkDTO struct {
	Link     *LinkDTO       `json:"link"`
	UserLink *UserLinkDTO   `json:"user_link"`
	Notes    []*LinkNoteDTO `json:"notes"`
}

// OptionDTO is one entry of an enum picker.
type OptionDTO struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// DashboardDTO 个人面板
type DashboardDTO struct {
	Bookmarks  []*UserLinkDTO `json:"bookmarks"`
	Statuses   []*StatusDTO   `json:"statuses"`
	Categories []OptionDTO    `json:"categories"`
	States     []OptionDTO    `json:"states"`
}

// HomeDTO 首页
type HomeDTO struct {
	Statuses []*StatusDTO       `json:"statuses"`
	Trending []*TrendingLinkDTO `json:"trending"`
}

// TokenDTO 访问令牌 (不含明文)
type TokenDTO struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Scopes     []string   `json:"scopes"`
	LastUsedAt timex.Time `json:"last_used_at"`
	ExpiresAt  timex.Time `json:"expires_at"`
	CreatedAt  timex.Time `json:"created_at"`
}

// NewTokenDTO is returned once, at creation; the plain text token is never stored.
type NewTokenDTO struct {
	Token          *TokenDTO `json:"token"`
	PlainTextToken string    `json:"plain_text_token"`
}
