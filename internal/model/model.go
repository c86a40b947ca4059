// Package model 定义数据库模型
package model

import (
	"github.com/haierkeys/locket-service/pkg/timex"
	"gorm.io/gorm"
)

// migrateOrder parents before children so foreign keys resolve.
var migrateOrder = []string{"User", "Link", "UserLink", "LinkNote", "UserStatus", "ApiToken"}

// AutoMigrate 按模型名迁移单张表
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "User":
		return db.AutoMigrate(&User{})
	case "Link":
		return db.AutoMigrate(&Link{})
	case "UserLink":
		return db.AutoMigrate(&UserLink{})
	case "LinkNote":
		return db.AutoMigrate(&LinkNote{})
	case "UserStatus":
		return db.AutoMigrate(&UserStatus{})
	case "ApiToken":
		return db.AutoMigrate(&ApiToken{})
	}
	return nil
}

// AutoMigrateAll 迁移全部表
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range migrateOrder {
		if err := AutoMigrate(db, key); err != nil {
			return err
		}
	}
	return nil
}

// User mapped from table <user>
type User struct {
	ID             int64      `gorm:"column:id;primaryKey" json:"id"`
	Name           string     `gorm:"column:name;size:255;not null" json:"name"`
	Email          string     `gorm:"column:email;size:255;not null;uniqueIndex:idx_user_email" json:"email"`
	GithubUsername *string    `gorm:"column:github_username;size:255" json:"githubUsername"`
	Avatar         *string    `gorm:"column:avatar;size:1024" json:"avatar"`
	CreatedAt      timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
}

// Link mapped from table <link>
type Link struct {
	ID                int64          `gorm:"column:id;primaryKey" json:"id"`
	URL               string         `gorm:"column:url;size:2048;not null" json:"url"`
	URLHash           string         `gorm:"column:url_hash;size:32;not null;uniqueIndex:idx_link_url_hash" json:"-"`
	Title             *string        `gorm:"column:title;size:255" json:"title"`
	Description       *string        `gorm:"column:description;type:text" json:"description"`
	Category          string         `gorm:"column:category;size:16;not null;default:read" json:"category"`
	SubmittedByUserID *int64         `gorm:"column:submitted_by_user_id;index:idx_link_submitter" json:"submittedByUserId"`
	Submitter         *User          `gorm:"foreignKey:SubmittedByUserID;constraint:OnDelete:SET NULL" json:"-"`
	Metadata          JSONMap        `gorm:"column:metadata;type:text" json:"metadata"`
	CreatedAt         timex.Time     `gorm:"column:created_at;index:idx_link_created;autoCreateTime:false" json:"createdAt"`
	UpdatedAt         timex.Time     `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// UserLink mapped from table <user_link>
type UserLink struct {
	ID        int64          `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64          `gorm:"column:user_id;not null;uniqueIndex:idx_user_link,priority:1" json:"userId"`
	LinkID    int64          `gorm:"column:link_id;not null;uniqueIndex:idx_user_link,priority:2;index:idx_user_link_link" json:"linkId"`
	Category  string         `gorm:"column:category;size:16;not null" json:"category"`
	Status    string         `gorm:"column:status;size:16;not null;default:unread" json:"status"`
	User      *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Link      *Link          `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt timex.Time     `gorm:"column:created_at;index:idx_user_link_created;autoCreateTime:false" json:"createdAt"`
	UpdatedAt timex.Time     `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// LinkNote mapped from table <link_note>
type LinkNote struct {
	ID        int64          `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64          `gorm:"column:user_id;not null;index:idx_link_note_user_link,priority:1" json:"userId"`
	LinkID    int64          `gorm:"column:link_id;not null;index:idx_link_note_user_link,priority:2" json:"linkId"`
	Note      string         `gorm:"column:note;type:text;not null" json:"note"`
	User      *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Link      *Link          `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt timex.Time     `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
	UpdatedAt timex.Time     `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// UserStatus mapped from table <user_status>
type UserStatus struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64      `gorm:"column:user_id;not null;index:idx_user_status_user" json:"userId"`
	Status    string     `gorm:"column:status;type:text;not null" json:"status"`
	LinkID    int64      `gorm:"column:link_id;not null;index:idx_user_status_link" json:"linkId"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Link      *Link      `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt timex.Time `gorm:"column:created_at;index:idx_user_status_created;autoCreateTime:false" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
}

// ApiToken mapped from table <api_token>
type ApiToken struct {
	ID         string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID     int64      `gorm:"column:user_id;not null;index:idx_api_token_user" json:"userId"`
	Name       string     `gorm:"column:name;size:255;not null" json:"name"`
	Scopes     JSONList   `gorm:"column:scopes;type:text" json:"scopes"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LastUsedAt timex.Time `gorm:"column:last_used_at" json:"lastUsedAt"`
	ExpiresAt  timex.Time `gorm:"column:expires_at;index:idx_api_token_expires" json:"expiresAt"`
	RevokedAt  timex.Time `gorm:"column:revoked_at" json:"revokedAt"`
	CreatedAt  timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
}
