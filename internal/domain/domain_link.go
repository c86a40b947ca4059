// Package domain 定义领域模型与仓储接口
package domain

import (
	"strings"
	"time"
)

// Category is the coarse content-type tag of a Link or a bookmark.
// Category 链接分类
type Category uint8

const (
	CategoryInvalid Category = iota
	CategoryRead
	CategoryReference
	CategoryWatch
	CategoryTools
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryRead, CategoryReference, CategoryWatch, CategoryTools}

// ParseCategory maps the persisted string to a Category, ok is false for anything unknown.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return CategoryRead, true
	case "reference":
		return CategoryReference, true
	case "watch":
		return CategoryWatch, true
	case "tools":
		return CategoryTools, true
	}
	return CategoryInvalid, false
}

func (c Category) Valid() bool {
	return c >= CategoryRead && c <= CategoryTools
}

func (c Category) String() string {
	switch c {
	case CategoryRead:
		return "read"
	case CategoryReference:
		return "reference"
	case CategoryWatch:
		return "watch"
	case CategoryTools:
		return "tools"
	case CategoryInvalid:
	}
	return ""
}

// Label 分类显示名
func (c Category) Label() string {
	switch c {
	case CategoryRead:
		return "Read Later"
	case CategoryReference:
		return "Reference"
	case CategoryWatch:
		return "Watch"
	case CategoryTools:
		return "Tools"
	case CategoryInvalid:
	}
	return ""
}

// Description 分类说明
func (c Category) Description() string {
	switch c {
	case CategoryRead:
		return "Articles, tutorials, blog posts"
	case CategoryReference:
		return "Docs, cheat sheets, specs"
	case CategoryWatch:
		return "Videos, courses, demos"
	case CategoryTools:
		return "Libraries, utilities, SaaS discoveries"
	case CategoryInvalid:
	}
	return ""
}

// CategoryValues returns the persisted string of every category, used by validators and tool schemas.
func CategoryValues() []string {
	out := make([]string, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, c.String())
	}
	return out
}

// Link 全局去重的链接记录
type Link struct {
	ID                int64
	URL               string
	Title             string // empty means no title
	Description       string
	Category          Category
	SubmittedByUserID *int64 // nil once the submitter is deleted
	Metadata          map[string]any
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Submitter is loaded by list queries, nil when anonymized.
	Submitter *User
}

// SubmitterName returns the display name of whoever submitted the link, "Anonymous" after anonymization.
func (l *Link) SubmitterName() string {
	if l.Submitter == nil {
		return "Anonymous"
	}
	return l.Submitter.DisplayName()
}

// TrendingLink is a Link annotated with how many users bookmarked it in the window.
type TrendingLink struct {
	Link          *Link
	BookmarkCount int64
}

// LinkBookmarkCount is one row of the trending aggregation.
type LinkBookmarkCount struct {
	LinkID int64
	Count  int64
}
