package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haierkeys/locket-service/pkg/util"
)

// User 用户领域模型
type User struct {
	ID             int64
	Name           string
	Email          string
	GithubUsername string
	Avatar         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName prefers the GitHub handle, then the name.
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.GithubUsername != "" {
		return u.GithubUsername
	}
	if u.Name != "" {
		return u.Name
	}
	return "Unknown"
}

// HasAvatar 判断用户是否有头像
func (u *User) HasAvatar() bool {
	return u.Avatar != ""
}

// AvatarURL returns the stored avatar or the gravatar for the email.
func (u *User) AvatarURL() string {
	if u.HasAvatar() {
		return u.Avatar
	}
	hash := util.EncodeMD5(strings.ToLower(strings.TrimSpace(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=128&d=404", hash)
}

// FallbackAvatarURL 生成首字母头像
func (u *User) FallbackAvatarURL() string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(u.DisplayName()) + "&background=random"
}

// UserStatus 公开的动态, 必须关联一个链接
type UserStatus struct {
	ID        int64
	UserID    int64
	Status    string
	LinkID    int64
	CreatedAt time.Time
	UpdatedAt time.Time

	User *User
	Link *Link
}

// ApiToken is a persisted personal access token; the signed JWT carries ID as its jti.
type ApiToken struct {
	ID         string
	UserID     int64
	Name       string
	Scopes     []string
	LastUsedAt *time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

// IsUsable 未撤销且未过期
func (t *ApiToken) IsUsable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
