package service

import (
	"time"

	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/dto"
	"github.com/haierkeys/locket-service/pkg/convert"
	"github.com/haierkeys/locket-service/pkg/timex"

	"github.com/jinzhu/copier"
)

// enumConverters keep copier from converting the uint8 enums rune-wise.
var enumConverters = []copier.TypeConverter{
	{
		SrcType: domain.Category(0),
		DstType: copier.String,
		Fn: func(src interface{}) (interface{}, error) {
			return src.(domain.Category).String(), nil
		},
	},
	{
		SrcType: domain.Status(0),
		DstType: copier.String,
		Fn: func(src interface{}) (interface{}, error) {
			return src.(domain.Status).String(), nil
		},
	},
}

// mapper renders domain values as DTOs; now drives the relative times.
type mapper struct {
	now func() time.Time
}

func newMapper(now func() time.Time) mapper {
	if now == nil {
		now = time.Now
	}
	return mapper{now: now}
}

func (m mapper) human(t time.Time) string {
	return timex.DiffForHumans(t, m.now())
}

func (m mapper) user(u *domain.User) *dto.UserDTO {
	if u == nil {
		return nil
	}
	out := &dto.UserDTO{}
	_ = convert.Copy(out, u, enumConverters...)
	out.DisplayName = u.DisplayName()
	out.AvatarURL = u.AvatarURL()
	out.FallbackAvatar = u.FallbackAvatarURL()
	return out
}

func (m mapper) account(u *domain.User) *dto.AccountDTO {
	if u == nil {
		return nil
	}
	return &dto.AccountDTO{UserDTO: *m.user(u), Email: u.Email}
}

func (m mapper) link(l *domain.Link) *dto.LinkDTO {
	if l == nil {
		return nil
	}
	out := &dto.LinkDTO{}
	_ = convert.Copy(out, l, enumConverters...)
	out.Category = l.Category.String()
	out.CategoryLabel = l.Category.Label()
	out.SubmittedBy = l.SubmitterName()
	out.CreatedAtHuman = m.human(l.CreatedAt)
	return out
}

func (m mapper) note(n *domain.LinkNote) *dto.LinkNoteDTO {
	if n == nil {
		return nil
	}
	out := &dto.LinkNoteDTO{}
	_ = convert.Copy(out, n, enumConverters...)
	out.CreatedAtHuman = m.human(n.CreatedAt)
	return out
}

func (m mapper) notes(ns []*domain.LinkNote) []*dto.LinkNoteDTO {
	out := make([]*dto.LinkNoteDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, m.note(n))
	}
	return out
}

func (m mapper) userLink(ul *domain.UserLink) *dto.UserLinkDTO {
	if ul == nil {
		return nil
	}
	out := &dto.UserLinkDTO{}
	_ = convert.Copy(out, ul, enumConverters...)
	out.Category = ul.Category.String()
	out.CategoryLabel = ul.Category.Label()
	out.Status = ul.Status.String()
	out.StatusLabel = ul.Status.Label()
	out.IsActive = ul.Status.IsActive()
	out.Link = m.link(ul.Link)
	out.Notes = nil
	return out
}

func (m mapper) status(s *domain.UserStatus) *dto.StatusDTO {
	if s == nil {
		return nil
	}
	out := &dto.StatusDTO{}
	_ = convert.Copy(out, s, enumConverters...)
	out.User = m.user(s.User)
	out.Link = m.link(s.Link)
	out.CreatedAtHuman = m.human(s.CreatedAt)
	return out
}

func (m mapper) statuses(ss []*domain.UserStatus) []*dto.StatusDTO {
	out := make([]*dto.StatusDTO, 0, len(ss))
	for _, s := range ss {
		out = append(out, m.status(s))
	}
	return out
}

func (m mapper) token(t *domain.ApiToken) *dto.TokenDTO {
	if t == nil {
		return nil
	}
	out := &dto.TokenDTO{}
	_ = convert.Copy(out, t, enumConverters...)
	if out.Scopes == nil {
		out.Scopes = []string{}
	}
	return out
}

func categoryOptions() []dto.OptionDTO {
	out := make([]dto.OptionDTO, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, dto.OptionDTO{Value: c.String(), Label: c.Label(), Description: c.Description()})
	}
	return out
}

func statusOptions() []dto.OptionDTO {
	out := make([]dto.OptionDTO, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		out = append(out, dto.OptionDTO{Value: s.String(), Label: s.Label()})
	}
	return out
}
