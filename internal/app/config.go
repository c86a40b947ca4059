// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/locket-service/internal/dao"
	"github.com/haierkeys/locket-service/internal/middleware"
	"github.com/haierkeys/locket-service/internal/service"
	pkgapp "github.com/haierkeys/locket-service/pkg/app"
	"github.com/haierkeys/locket-service/pkg/limiter"
	"github.com/haierkeys/locket-service/pkg/logger"
	"github.com/haierkeys/locket-service/pkg/util"
	"github.com/haierkeys/locket-service/pkg/workerpool"
	"github.com/haierkeys/locket-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultAuthTokenKey is the placeholder replaced with a random key when the config file is first written.
const DefaultAuthTokenKey = "locket-Auth-Token"

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Security SecurityConfig `yaml:"security"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	MCP      MCPConfig      `yaml:"mcp"`
	Feed     FeedConfig     `yaml:"feed"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Limiter  LimiterConfig  `yaml:"limiter"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空只输出到控制台
	File string `yaml:"file" default:"storage/logs/locket.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9100"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址 (metrics, pprof)
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9101"`
	// CorsOrigins 允许跨域的来源，* 表示全部
	CorsOrigins []string `yaml:"cors-origins"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"locket-Auth-Token"`
	// TokenExpiry 支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"365d"`
	TokenIssuer string `yaml:"token-issuer" default:"locket"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type sqlite, mysql, postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path     string `yaml:"path" default:"storage/database/locket.sqlite3"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	// Host host:port
	Host string `yaml:"host"`
	Name string `yaml:"name"`
	// SSLMode postgres only
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// Replicas 只读副本 host:port，账号与主库相同
	Replicas    []string `yaml:"replicas"`
	TablePrefix string   `yaml:"table-prefix" default:"locket_"`
	AutoMigrate bool     `yaml:"auto-migrate" default:"true"`
	Charset     string   `yaml:"charset" default:"utf8mb4"`
	ParseTime   bool     `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m、1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"30"`
	// DefaultLang 默认语言 en / zh_cn
	DefaultLang string `yaml:"default-lang" default:"en"`
	// TokenRetention 吊销或过期令牌的保留时间
	TokenRetention string `yaml:"token-retention" default:"30d"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"1000"`

	// 按用户串行化写操作 (SQLite 单写者)
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
}

// FetcherConfig 标题抓取配置
type FetcherConfig struct {
	Timeout      string `yaml:"timeout" default:"10s"`
	UserAgent    string `yaml:"user-agent" default:"Mozilla/5.0 (compatible; LocketBot/1.0)"`
	MaxBodyBytes int64  `yaml:"max-body-bytes" default:"2097152"`
}

// MCPConfig agent protocol server
type MCPConfig struct {
	Enabled      bool   `yaml:"enabled" default:"true"`
	Path         string `yaml:"path" default:"/mcp"`
	Name         string `yaml:"name" default:"Locket"`
	Version      string `yaml:"version" default:"0.0.1"`
	Instructions string `yaml:"instructions" default:"Used to interact with Locket, the social link sharing read later app for developers."`
}

// FeedConfig 实时动态推送
type FeedConfig struct {
	Enabled      bool   `yaml:"enabled" default:"true"`
	PingInterval string `yaml:"ping-interval" default:"25s"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LimiterConfig 限流规则
type LimiterConfig struct {
	Rules []LimiterRule `yaml:"rules"`
}

// LimiterRule one token bucket, keyed by path prefix
type LimiterRule struct {
	Key          string `yaml:"key"`
	FillInterval string `yaml:"fill-interval" default:"1s"`
	Capacity     int64  `yaml:"capacity" default:"10"`
	Quantum      int64  `yaml:"quantum" default:"10"`
}

// envOverrides LOCKET_* 环境变量, 优先级高于配置文件
type envOverrides struct {
	AuthTokenKey     string `envconfig:"AUTH_TOKEN_KEY"`
	HttpPort         string `envconfig:"HTTP_PORT"`
	LogLevel         string `envconfig:"LOG_LEVEL"`
	DatabaseType     string `envconfig:"DATABASE_TYPE"`
	DatabasePath     string `envconfig:"DATABASE_PATH"`
	DatabaseHost     string `envconfig:"DATABASE_HOST"`
	DatabaseName     string `envconfig:"DATABASE_NAME"`
	DatabaseUserName string `envconfig:"DATABASE_USERNAME"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// defaults 只在解析前设置一次, 否则显式的 false 会被改回默认值
	if err := c.applyEnv(); err != nil {
		return nil, realpath, err
	}

	return c, realpath, nil
}

// applyEnv loads .env when present, then LOCKET_* variables over the file values.
func (c *AppConfig) applyEnv() error {
	_ = godotenv.Load()

	var o envOverrides
	if err := envconfig.Process("locket", &o); err != nil {
		return errors.Wrap(err, "read LOCKET_* environment failed")
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Security.AuthTokenKey, o.AuthTokenKey)
	set(&c.Server.HttpPort, o.HttpPort)
	set(&c.Log.Level, o.LogLevel)
	set(&c.Database.Type, o.DatabaseType)
	set(&c.Database.Path, o.DatabasePath)
	set(&c.Database.Host, o.DatabaseHost)
	set(&c.Database.Name, o.DatabaseName)
	set(&c.Database.UserName, o.DatabaseUserName)
	set(&c.Database.Password, o.DatabasePassword)
	return nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// IsDefaultAuthTokenKey reports a key that must be rotated before production use.
func (c *AppConfig) IsDefaultAuthTokenKey() bool {
	return c.Security.AuthTokenKey == "" || c.Security.AuthTokenKey == DefaultAuthTokenKey
}

func durationOr(s string, def time.Duration) time.Duration {
	if d, err := util.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

// GetLoggerConfig 日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetDatabaseConfig 转换为 dao.DatabaseConfig
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		SSLMode:         c.Database.SSLMode,
		Replicas:        c.Database.Replicas,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 写队列配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()
	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	cfg.WriteTimeout = durationOr(c.App.WriteQueueTimeout, cfg.WriteTimeout)
	return cfg
}

// GetTokenConfig 令牌签名配置
func (c *AppConfig) GetTokenConfig() pkgapp.TokenConfig {
	return pkgapp.TokenConfig{
		SecretKey: c.Security.AuthTokenKey,
		Expiry:    durationOr(c.Security.TokenExpiry, pkgapp.DefaultTokenExpiry),
		Issuer:    c.Security.TokenIssuer,
	}
}

// GetServiceConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		Fetcher: service.FetcherConfig{
			Timeout:      durationOr(c.Fetcher.Timeout, service.DefaultFetchTimeout),
			UserAgent:    c.Fetcher.UserAgent,
			MaxBodyBytes: c.Fetcher.MaxBodyBytes,
		},
		Token: service.TokenConfig{
			Retention: durationOr(c.App.TokenRetention, service.DefaultTokenRetention),
		},
	}
}

// GetFeedConfig 实时推送配置
func (c *AppConfig) GetFeedConfig() pkgapp.FeedServerConfig {
	interval := durationOr(c.Feed.PingInterval, pkgapp.WebSocketServerPingInterval)
	return pkgapp.FeedServerConfig{
		PingInterval: interval,
		PingWait:     interval + interval/2,
	}
}

// GetTracerConfig trace id middleware settings
func (c *AppConfig) GetTracerConfig() middleware.TracerConfig {
	return middleware.TracerConfig{Enabled: c.Tracer.Enabled, Header: c.Tracer.Header}
}

// GetContextTimeout 请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetLimiterRules 限流规则; 未配置时限制链接接口和 agent 接口
func (c *AppConfig) GetLimiterRules() []limiter.BucketRule {
	if len(c.Limiter.Rules) == 0 {
		return []limiter.BucketRule{
			{Key: "/api/links", FillInterval: time.Second, Capacity: 10, Quantum: 10},
			{Key: "/mcp", FillInterval: time.Second, Capacity: 20, Quantum: 20},
		}
	}

	rules := make([]limiter.BucketRule, 0, len(c.Limiter.Rules))
	for _, r := range c.Limiter.Rules {
		if r.Key == "" {
			continue
		}
		rule := limiter.BucketRule{
			Key:          r.Key,
			FillInterval: durationOr(r.FillInterval, time.Second),
			Capacity:     r.Capacity,
			Quantum:      r.Quantum,
		}
		if rule.Capacity <= 0 {
			rule.Capacity = 10
		}
		if rule.Quantum <= 0 {
			rule.Quantum = rule.Capacity
		}
		rules = append(rules, rule)
	}
	return rules
}
