package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"blinkpay.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is how long a key stays locked while the first request runs.
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a successful response is replayed.
	RetentionDuration = 24 * time.Hour
)

const processingMarker = "__processing__"

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type bodyCapture struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency deduplicates payment submissions by the Idempotency-Key header.
// The first request with a key takes a redis lock, runs, and stores its
// response body on success; a retry with the same key gets the stored body
// back instead of moving money twice. A failed first attempt releases the
// key so the client can retry. Requests without the header pass through.
func Idempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storageKey := fmt.Sprintf("idempotency:%s:%s", c.Request.URL.Path, key)

		if val, err := redisGet(ctx, storageKey); err == nil {
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    "ERR_IDEMPOTENCY_CONFLICT",
					"message": "request with this key is still in progress",
				})
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Hit", "true")
			c.String(http.StatusOK, val)
			c.Abort()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil {
			// redis down: let the request through rather than blocking payments
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "ERR_IDEMPOTENCY_CONFLICT",
				"message": "request with this key is still in progress",
			})
			return
		}

		w := &bodyCapture{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			_ = redisSet(ctx, storageKey, w.body.String(), RetentionDuration)
		} else {
			_ = redisDel(ctx, storageKey)
		}
	}
}
