package limiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxFor(path string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", path, nil)
	return c
}

func TestMethodLimiter_KeyUsesLongestPrefix(t *testing.T) {
	l := NewMethodLimiter().AddBuckets(
		BucketRule{Key: "/api", FillInterval: time.Second, Capacity: 100, Quantum: 100},
		BucketRule{Key: "/api/links", FillInterval: time.Second, Capacity: 5, Quantum: 5},
	)

	assert.Equal(t, "/api/links", l.Key(ctxFor("/api/links/recent")))
	assert.Equal(t, "/api", l.Key(ctxFor("/api/statuses/recent")))
	assert.Equal(t, "/mcp", l.Key(ctxFor("/mcp")))

	_, ok := l.GetBucket("/mcp")
	assert.False(t, ok)
}

func TestMethodLimiter_BucketDrains(t *testing.T) {
	l := NewMethodLimiter().AddBuckets(BucketRule{Key: "/api/links", FillInterval: time.Hour, Capacity: 2, Quantum: 1})
	bucket, ok := l.GetBucket("/api/links")
	assert.True(t, ok)
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(1), bucket.TakeAvailable(1))
	assert.Equal(t, int64(0), bucket.TakeAvailable(1))
}

func TestMethodLimiter_SkipsInvalidRules(t *testing.T) {
	l := NewMethodLimiter().AddBuckets(BucketRule{Key: "/x", Capacity: 0, FillInterval: time.Second})
	_, ok := l.GetBucket("/x")
	assert.False(t, ok)
}
