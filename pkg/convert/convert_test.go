package convert

import (
	"testing"
	"time"

	"github.com/haierkeys/locket-service/pkg/timex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrTo(t *testing.T) {
	assert.Equal(t, int64(42), StrTo(" 42 ").MustInt64())
	_, err := StrTo("abc").Int64()
	assert.Error(t, err)
	assert.Equal(t, 0, StrTo("").MustInt())
}

type copySrc struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	SeenAt    *time.Time
}

func (s copySrc) Greeting() string { return "hi " + s.Name }

type copyDst struct {
	ID        int64
	Name      string
	Greeting  string
	CreatedAt timex.Time
	SeenAt    timex.Time
}

func TestCopy_TimeAndMethods(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var dst copyDst
	require.NoError(t, Copy(&dst, &copySrc{ID: 7, Name: "ann", CreatedAt: now, SeenAt: &now}))

	assert.Equal(t, int64(7), dst.ID)
	assert.Equal(t, "hi ann", dst.Greeting)
	assert.True(t, dst.CreatedAt.Time().Equal(now))
	assert.True(t, dst.SeenAt.Time().Equal(now))
}
