// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/haierkeys/locket-service/internal/dao"
	"github.com/haierkeys/locket-service/internal/domain"
	"github.com/haierkeys/locket-service/internal/service"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/workerpool"
	"github.com/haierkeys/locket-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config    *AppConfig
	logger    *zap.Logger
	DB        *gorm.DB
	Dao       *dao.Dao
	StartTime time.Time

	// 后台任务池 (标题抓取)
	workerPool *workerpool.Pool

	// 按用户串行化写操作
	writeQueue *writequeue.Manager

	// 实时动态推送
	Feed *pkgapp.FeedServer

	// Repository 层
	LinkRepo     domain.LinkRepository
	UserLinkRepo domain.UserLinkRepository
	NoteRepo     domain.LinkNoteRepository
	StatusRepo   domain.UserStatusRepository
	UserRepo     domain.UserRepository
	TokenRepo    domain.ApiTokenRepository

	// Service 层
	TitleFetcher  service.TitleFetcher
	TitleService  service.TitleService
	LinkService   service.LinkService
	QueryService  service.QueryService
	StatusService service.StatusService
	UserService   service.UserService
	TokenService  service.TokenService

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueue = writequeue.New(&wqConfig, logger)

	a.Dao = dao.New(db, logger)
	a.Feed = pkgapp.NewFeedServer(cfg.GetFeedConfig(), logger)
	a.TokenManager = pkgapp.NewTokenManager(cfg.GetTokenConfig())

	// 初始化 Repository 层
	a.LinkRepo = dao.NewLinkRepository(a.Dao)
	a.UserLinkRepo = dao.NewUserLinkRepository(a.Dao)
	a.NoteRepo = dao.NewLinkNoteRepository(a.Dao)
	a.StatusRepo = dao.NewUserStatusRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.TokenRepo = dao.NewApiTokenRepository(a.Dao)

	svcConfig := cfg.GetServiceConfig()

	var publisher service.StatusPublisher
	if cfg.Feed.Enabled {
		publisher = a.Feed
	}

	// 初始化 Service 层（依赖注入）
	a.TitleFetcher = service.NewTitleFetcher(&http.Client{}, svcConfig)
	a.TitleService = service.NewTitleService(a.LinkRepo, a.TitleFetcher, a.workerPool, logger)
	a.LinkService = service.NewSerialLinkService(
		service.NewLinkService(a.LinkRepo, a.UserLinkRepo, a.NoteRepo, a.StatusRepo, a.Dao, a.TitleService, publisher, logger),
		a.writeQueue)
	a.QueryService = service.NewQueryService(a.LinkRepo, a.UserLinkRepo, a.NoteRepo, a.StatusRepo, time.Now, logger)
	a.StatusService = service.NewSerialStatusService(
		service.NewStatusService(a.LinkRepo, a.UserLinkRepo, a.StatusRepo, publisher, logger),
		a.writeQueue)
	a.UserService = service.NewUserService(a.UserRepo, a.LinkRepo, a.UserLinkRepo, a.NoteRepo, a.StatusRepo, a.TokenRepo, a.Dao, logger)
	a.TokenService = service.NewTokenService(a.TokenRepo, a.UserRepo, a.TokenManager, logger, svcConfig)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Bool("feed", cfg.Feed.Enabled),
		zap.Bool("mcp", cfg.MCP.Enabled))

	return a, nil
}

// Close 释放数据库连接
func (a *App) Close() error {
	if a.Dao != nil {
		if err := a.Dao.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueue 获取按用户串行的写队列
func (a *App) WriteQueue() *writequeue.Manager {
	return a.writeQueue
}

// Ping checks the primary database connection.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Feed -> Write Queue -> Worker Pool -> 后台操作 -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 0. 断开所有动态订阅
	if a.Feed != nil {
		a.Feed.Close()
	}

	// 1. 等待排队中的写操作完成
	if a.writeQueue != nil {
		if err := a.writeQueue.Shutdown(ctx); err != nil {
			a.logger.Warn("Write queue shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue shutdown: %w", err))
		}
	}

	// 2. 关闭 Worker Pool（停止接受新任务，等待排队的标题抓取完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		} else {
			a.logger.Info("Worker pool shutdown completed")
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 4. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
