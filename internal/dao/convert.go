package dao

import (
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/model"
	"github.com/haierkeys/locket-service/pkg/timex"
	"github.com/haierkeys/locket-service/pkg/util"
)

// URLHash 链接唯一键
func URLHash(url string) string {
	return util.EncodeMD5(url)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOr(t timex.Time, now timex.Time) timex.Time {
	if t.IsZero() {
		return now
	}
	return t
}

func timePtr(t timex.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time()
	return &v
}

func fromTimePtr(t *time.Time) timex.Time {
	if t == nil {
		return timex.Time{}
	}
	return timex.Time(*t)
}

func userToDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		GithubUsername: strVal(m.GithubUsername),
		Avatar:         strVal(m.Avatar),
		CreatedAt:      m.CreatedAt.Time(),
		UpdatedAt:      m.UpdatedAt.Time(),
	}
}

func linkToDomain(m *model.Link) *domain.Link {
	if m == nil {
		return nil
	}
	category, _ := domain.ParseCategory(m.Category)
	return &domain.Link{
		ID:                m.ID,
		URL:               m.URL,
		Title:             strVal(m.Title),
		Description:       strVal(m.Description),
		Category:          category,
		SubmittedByUserID: m.SubmittedByUserID,
		Metadata:          map[string]any(m.Metadata),
		CreatedAt:         m.CreatedAt.Time(),
		UpdatedAt:         m.UpdatedAt.Time(),
		Submitter:         userToDomain(m.Submitter),
	}
}

func linkToModel(l *domain.Link) *model.Link {
	return &model.Link{
		ID:                l.ID,
		URL:               l.URL,
		URLHash:           URLHash(l.URL),
		Title:             strPtr(l.Title),
		Description:       strPtr(l.Description),
		Category:          l.Category.String(),
		SubmittedByUserID: l.SubmittedByUserID,
		Metadata:          model.JSONMap(l.Metadata),
		CreatedAt:         timex.Time(l.CreatedAt),
		UpdatedAt:         timex.Time(l.UpdatedAt),
	}
}

func userLinkToDomain(m *model.UserLink) *domain.UserLink {
	if m == nil {
		return nil
	}
	category, _ := domain.ParseCategory(m.Category)
	status, _ := domain.ParseStatus(m.Status)
	return &domain.UserLink{
		ID:        m.ID,
		UserID:    m.UserID,
		LinkID:    m.LinkID,
		Category:  category,
		Status:    status,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
		Link:      linkToDomain(m.Link),
	}
}

func noteToDomain(m *model.LinkNote) *domain.LinkNote {
	if m == nil {
		return nil
	}
	return &domain.LinkNote{
		ID:        m.ID,
		UserID:    m.UserID,
		LinkID:    m.LinkID,
		Note:      m.Note,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
	}
}

func statusToDomain(m *model.UserStatus) *domain.UserStatus {
	if m == nil {
		return nil
	}
	return &domain.UserStatus{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    m.Status,
		LinkID:    m.LinkID,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
		User:      userToDomain(m.User),
		Link:      linkToDomain(m.Link),
	}
}

func tokenToDomain(m *model.ApiToken) *domain.ApiToken {
	if m == nil {
		return nil
	}
	return &domain.ApiToken{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		Scopes:     []string(m.Scopes),
		LastUsedAt: timePtr(m.LastUsedAt),
		ExpiresAt:  m.ExpiresAt.Time(),
		RevokedAt:  timePtr(m.RevokedAt),
		CreatedAt:  m.CreatedAt.Time(),
	}
}
