package app

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
)

// FeedEvent is the frame pushed to every feed subscriber.
type FeedEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type FeedServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// feedClient 存储每个 WebSocket 连接及其状态
type feedClient struct {
	conn *gws.Conn
	done chan struct{}
	once sync.Once
}

func (c *feedClient) stop() {
	c.once.Do(func() { close(c.done) })
}

// FeedServer is a read-only websocket fan-out: clients connect, the server pushes events.
// FeedServer 只读的 WebSocket 广播服务
type FeedServer struct {
	clients map[*gws.Conn]*feedClient
	mu      sync.RWMutex
	up      *gws.Upgrader
	config  FeedServerConfig
	logger  *zap.Logger
}

func NewFeedServer(c FeedServerConfig, logger *zap.Logger) *FeedServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &FeedServer{
		clients: make(map[*gws.Conn]*feedClient),
		config:  c,
		logger:  logger,
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Run upgrades the request and hands the socket to gws.
func (w *FeedServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("FeedServer upgrade err", zap.Error(err))
			return
		}
		client := &feedClient{conn: socket, done: make(chan struct{})}
		w.addClient(client)
		go w.pingLoop(client)
		go socket.ReadLoop()
	}
}

// Publish broadcasts one event to every connected client.
func (w *FeedServer) Publish(event string, data interface{}) error {
	payload, err := sonic.Marshal(FeedEvent{Event: event, Data: data})
	if err != nil {
		return err
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	w.mu.RLock()
	defer w.mu.RUnlock()
	for conn := range w.clients {
		_ = b.Broadcast(conn)
	}
	return nil
}

// Count returns the number of connected clients.
func (w *FeedServer) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

// Close disconnects every client.
func (w *FeedServer) Close() {
	w.mu.Lock()
	conns := make([]*gws.Conn, 0, len(w.clients))
	for conn := range w.clients {
		conns = append(conns, conn)
	}
	w.mu.Unlock()

	for _, conn := range conns {
		_ = conn.WriteClose(1001, []byte("ServerShutdown"))
	}
}

func (w *FeedServer) pingLoop(c *feedClient) {
	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				w.logger.Warn("FeedServer ping err", zap.Error(err))
				return
			}
		}
	}
}

func (w *FeedServer) addClient(c *feedClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *FeedServer) removeClient(conn *gws.Conn) *feedClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.clients[conn]
	delete(w.clients, conn)
	return c
}

func (w *FeedServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *FeedServer) OnClose(conn *gws.Conn, err error) {
	if c := w.removeClient(conn); c != nil {
		c.stop()
	}
	w.logger.Debug("FeedServer client leave", zap.Int("count", w.Count()), zap.Error(err))
}

func (w *FeedServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *FeedServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

// OnMessage ignores client frames except "close"; the feed is push-only.
func (w *FeedServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	if message.Opcode == gws.OpcodeText && message.Data.String() == "close" {
		_ = conn.WriteClose(1000, []byte("ClientClose"))
	}
}
