package app

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedRecorder struct {
	gws.BuiltinEventHandler
	mu   sync.Mutex
	msgs []string
}

func (r *feedRecorder) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	r.mu.Lock()
	r.msgs = append(r.msgs, message.Data.String())
	r.mu.Unlock()
}

func (r *feedRecorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func TestFeedServer_PublishReachesSubscribers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	feed := NewFeedServer(FeedServerConfig{}, nil)

	r := gin.New()
	r.GET("/stream", feed.Run())
	srv := httptest.NewServer(r)
	defer srv.Close()

	rec := &feedRecorder{}
	addr := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := gws.NewClient(rec, &gws.ClientOption{Addr: addr})
	require.NoError(t, err)
	go conn.ReadLoop()
	defer conn.WriteClose(1000, nil)

	require.Eventually(t, func() bool { return feed.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, feed.Publish("status.created", map[string]any{"id": 7, "status": "hello"}))

	require.Eventually(t, func() bool { return len(rec.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
	msg := rec.received()[0]
	assert.Contains(t, msg, `"event":"status.created"`)
	assert.Contains(t, msg, `"status":"hello"`)
}

func TestFeedServer_PublishWithoutClients(t *testing.T) {
	feed := NewFeedServer(FeedServerConfig{}, nil)
	assert.NoError(t, feed.Publish("status.created", nil))
	assert.Equal(t, 0, feed.Count())
}
