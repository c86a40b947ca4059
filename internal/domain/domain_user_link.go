package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the reading-lifecycle stage of a bookmark.
// Status 书签阅读状态
type Status uint8

const (
	StatusInvalid Status = iota
	StatusUnread
	StatusReading
	StatusRead
	StatusReference
	StatusArchived
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusUnread, StatusReading, StatusRead, StatusReference, StatusArchived}

func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unread":
		return StatusUnread, true
	case "reading":
		return StatusReading, true
	case "read":
		return StatusRead, true
	case "reference":
		return StatusReference, true
	case "archived":
		return StatusArchived, true
	}
	return StatusInvalid, false
}

func (s Status) Valid() bool {
	return s >= StatusUnread && s <= StatusArchived
}

func (s Status) String() string {
	switch s {
	case StatusUnread:
		return "unread"
	case StatusReading:
		return "reading"
	case StatusRead:
		return "read"
	case StatusReference:
		return "reference"
	case StatusArchived:
		return "archived"
	case StatusInvalid:
	}
	return ""
}

// Label 状态显示名
func (s Status) Label() string {
	switch s {
	case StatusUnread:
		return "Unread"
	case StatusReading:
		return "Reading"
	case StatusRead:
		return "Read"
	case StatusReference:
		return "Reference"
	case StatusArchived:
		return "Archived"
	case StatusInvalid:
	}
	return ""
}

// IsActive 未归档即为活跃
func (s Status) IsActive() bool {
	return s.Valid() && s != StatusArchived
}

// AllowedTransitions returns the states s may move to.
func (s Status) AllowedTransitions() []Status {
	switch s {
	case StatusUnread:
		return []Status{StatusReading, StatusRead, StatusReference, StatusArchived}
	case StatusReading:
		return []Status{StatusRead, StatusReference, StatusArchived}
	case StatusRead:
		return []Status{StatusReference, StatusArchived}
	case StatusReference:
		return []Status{StatusArchived}
	case StatusArchived:
		return []Status{StatusUnread}
	case StatusInvalid:
	}
	return nil
}

// CanTransitionTo 判断状态迁移是否合法
func (s Status) CanTransitionTo(to Status) bool {
	for _, t := range s.AllowedTransitions() {
		if t == to {
			return true
		}
	}
	return false
}

func StatusValues() []string {
	out := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		out = append(out, s.String())
	}
	return out
}

// TransitionError is returned for a move the state machine does not allow.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}

// UserLink 用户书签
type UserLink struct {
	ID        int64
	UserID    int64
	LinkID    int64
	Category  Category
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Link is loaded by dashboard and last-added queries.
	Link *Link
}

// TransitionTo moves the bookmark to status to, leaving it untouched when the move is illegal.
func (u *UserLink) TransitionTo(to Status) error {
	if !u.Status.CanTransitionTo(to) {
		return &TransitionError{From: u.Status, To: to}
	}
	u.Status = to
	return nil
}

// FieldChange is one entry of the update changelog.
type FieldChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LinkNote 用户对链接的私有笔记
type LinkNote struct {
	ID        int64
	UserID    int64
	LinkID    int64
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
