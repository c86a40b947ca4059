package domain

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var transitionTable = map[Status][]Status{
	StatusUnread:    {StatusReading, StatusRead, StatusReference, StatusArchived},
	StatusReading:   {StatusRead, StatusReference, StatusArchived},
	StatusRead:      {StatusReference, StatusArchived},
	StatusReference: {StatusArchived},
	StatusArchived:  {StatusUnread},
}

func allowed(from, to Status) bool {
	for _, s := range transitionTable[from] {
		if s == to {
			return true
		}
	}
	return false
}

func TestProperty_StatusTransitions(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	// includes StatusInvalid and one out-of-range value
	statuses := gen.UInt8Range(0, uint8(StatusArchived)+1).Map(func(v uint8) Status { return Status(v) })

	properties.Property("transitionTo follows the table and leaves state alone on failure", prop.ForAll(
		func(from, to Status) bool {
			ul := &UserLink{ID: 1, Status: from, Category: CategoryRead}
			err := ul.TransitionTo(to)
			if allowed(from, to) {
				return err == nil && ul.Status == to
			}
			var te *TransitionError
			return errors.As(err, &te) && te.From == from && te.To == to && ul.Status == from
		},
		statuses, statuses,
	))

	properties.TestingRun(t)
}

func TestTransitionError_Message(t *testing.T) {
	ul := &UserLink{Status: StatusRead}
	err := ul.TransitionTo(StatusUnread)
	assert.EqualError(t, err, "Cannot transition from read to unread")
}

func TestStatus_ParseAndLabels(t *testing.T) {
	for _, s := range Statuses {
		parsed, ok := ParseStatus(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, parsed)
		assert.NotEmpty(t, s.Label())
	}
	_, ok := ParseStatus("done")
	assert.False(t, ok)
	assert.True(t, StatusReference.IsActive())
	assert.False(t, StatusArchived.IsActive())
	assert.False(t, StatusInvalid.IsActive())
}

func TestCategory_ParseAndLabels(t *testing.T) {
	assert.Equal(t, []string{"read", "reference", "watch", "tools"}, CategoryValues())
	c, ok := ParseCategory(" Watch ")
	assert.True(t, ok)
	assert.Equal(t, CategoryWatch, c)
	assert.Equal(t, "Read Later", CategoryRead.Label())
	assert.Equal(t, "Libraries, utilities, SaaS discoveries", CategoryTools.Description())
	_, ok = ParseCategory("video")
	assert.False(t, ok)
}

func TestUser_DisplayAndAvatar(t *testing.T) {
	u := &User{Name: "Alice", Email: " Alice@Example.com "}
	assert.Equal(t, "Alice", u.DisplayName())
	assert.Contains(t, u.AvatarURL(), "https://www.gravatar.com/avatar/")
	assert.Contains(t, u.AvatarURL(), "?s=128&d=404")
	assert.Equal(t, "https://ui-avatars.com/api/?name=Alice&background=random", u.FallbackAvatarURL())

	u.GithubUsername = "alice-gh"
	assert.Equal(t, "alice-gh", u.DisplayName())

	var nilUser *User
	assert.Equal(t, "Unknown", nilUser.DisplayName())

	l := &Link{}
	assert.Equal(t, "Anonymous", l.SubmitterName())
}
