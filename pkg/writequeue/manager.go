// Package writequeue runs each user's writes one at a time, in arrival order.
// SQLite allows a single writer; serializing per user keeps one user's burst of
// intake requests from failing with "database is locked".
// Package writequeue 按用户串行化写操作
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 用户写队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 写队列已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 等待写操作超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	QueueCapacity int           // per-user pending operations, default 100
	WriteTimeout  time.Duration // how long a caller waits for its turn and result, default 30s
	IdleTimeout   time.Duration // an idle user's worker exits after this, default 10m
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// lane is one user's FIFO and the goroutine draining it.
type lane struct {
	ch chan writeOp
}

// Manager 管理所有用户的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool
	wg     sync.WaitGroup
}

// New 创建写队列管理器; cfg 为空时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		config: c,
		logger: logger,
		lanes:  make(map[int64]*lane),
	}
}

// Execute queues fn behind uid's earlier writes and waits for its result.
// A caller that gives up (ctx done or timeout) does not cancel an op already queued;
// the op sees its ctx and is skipped if it was cancelled before its turn.
func (m *Manager) Execute(ctx context.Context, uid int64, fn func() error) error {
	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrWriteQueueClosed
	}
	l, ok := m.lanes[uid]
	if !ok {
		l = &lane{ch: make(chan writeOp, m.config.QueueCapacity)}
		m.lanes[uid] = l
		m.wg.Add(1)
		go m.worker(uid, l)
	}
	select {
	case l.ch <- op:
	default:
		m.mu.Unlock()
		return ErrWriteQueueFull
	}
	m.mu.Unlock()

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func (m *Manager) worker(uid int64, l *lane) {
	defer m.wg.Done()

	idle := time.NewTimer(m.config.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case op, ok := <-l.ch:
			if !ok {
				return
			}
			m.execute(uid, op)
			idle.Reset(m.config.IdleTimeout)

		case <-idle.C:
			// sends happen under mu, so an empty channel here stays empty once removed
			m.mu.Lock()
			if len(l.ch) == 0 && m.lanes[uid] == l {
				delete(m.lanes, uid)
				m.mu.Unlock()
				m.logger.Debug("write queue idle, worker stopped", zap.Int64("uid", uid))
				return
			}
			m.mu.Unlock()
			idle.Reset(m.config.IdleTimeout)
		}
	}
}

func (m *Manager) execute(uid int64, op writeOp) {
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("write operation panic",
				zap.Int64("uid", uid),
				zap.Any("panic", r),
				zap.Stack("stack"))
			op.result <- fmt.Errorf("write operation panic: %v", r)
		}
	}()

	op.result <- op.fn()
}

// Shutdown stops accepting writes, lets queued ones finish and waits for the workers.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for uid, l := range m.lanes {
		close(l.ch)
		delete(m.lanes, uid)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueueCount 当前活跃的用户队列数
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}

// QueuedCount 指定用户等待中的操作数
func (m *Manager) QueuedCount(uid int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.lanes[uid]; ok {
		return len(l.ch)
	}
	return 0
}
