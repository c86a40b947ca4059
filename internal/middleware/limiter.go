package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/code"
	"github.com/haierkeys/locket-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// RateLimiter answers 429 once the bucket for the request path prefix is empty.
// RateLimiter 创建限流中间件
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			count := bucket.TakeAvailable(1)
			if count == 0 {
				c.Header("Retry-After", strconv.Itoa(retryAfter(bucket)))
				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// retryAfter 补充一个令牌所需秒数, 至少 1
func retryAfter(b *ratelimit.Bucket) int {
	rate := b.Rate()
	if rate <= 0 || rate >= 1 {
		return 1
	}
	return int(math.Ceil(1 / rate))
}
