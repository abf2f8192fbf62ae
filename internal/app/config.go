// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/haierkeys/fast-note-pdf-link-service/internal/dao"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/util"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/workerpool"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
	PdfLink  PdfLinkConfig  `yaml:"pdf-link"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址，为空则不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
	// Gzip 是否压缩响应
	Gzip bool `yaml:"gzip" default:"true"`
	// Lang 默认响应语言
	Lang string `yaml:"lang" default:"en"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-note-pdf-link-Auth-Token"`
	// TokenExpiry Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"365d"`
	// MinClientVersion 支持的最低客户端版本（semver），为空不校验
	MinClientVersion string `yaml:"min-client-version" default:"v1.0.0"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型：sqlite、mysql、postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Port 端口（postgres）
	Port int `yaml:"port" default:"5432"`
	// Name 数据库名
	Name string `yaml:"name"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultPageSize 默认页面大小
	DefaultPageSize int `yaml:"default-page-size" default:"10"`
	// MaxPageSize 最大页面大小
	MaxPageSize int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// SoftDeleteRetentionTime 软删除笔记保留时间
	SoftDeleteRetentionTime string `yaml:"soft-delete-retention-time" default:"7d"`
	// CleanupSchedule 清理任务的 cron 表达式
	CleanupSchedule string `yaml:"cleanup-schedule" default:"@every 1h"`
	// RateLimitCapacity 每个接口的令牌桶容量
	RateLimitCapacity int64 `yaml:"rate-limit-capacity" default:"100"`
	// RateLimitInterval 令牌补充间隔
	RateLimitInterval string `yaml:"rate-limit-interval" default:"1s"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// PdfLinkConfig PDF 链接配置
type PdfLinkConfig struct {
	// Locale 日期显示语言：en、zh
	Locale string `yaml:"locale" default:"en"`
	// TimeZone 日期显示时区（IANA 名称）
	TimeZone string `yaml:"time-zone" default:"UTC"`
	// AcceptLegacySalt 是否识别旧版 salt 的链接节点
	AcceptLegacySalt bool `yaml:"accept-legacy-salt" default:"true"`
}

// LoadConfig 从文件加载配置
// 配置中的 ${VAR} 会从环境变量展开，同目录或工作目录下的 .env 会先被加载
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	loadDotEnv(filepath.Join(filepath.Dir(realpath), ".env"), ".env")

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(file))), c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	if _, err := c.Location(); err != nil {
		return nil, realpath, err
	}

	return c, realpath, nil
}

// loadDotEnv 加载存在的 .env 文件，已设置的环境变量不会被覆盖
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	return workerpool.Config{
		MaxWorkers: c.App.WorkerPoolMaxWorkers,
		QueueSize:  c.App.WorkerPoolQueueSize,
	}
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		return expiry
	}
	return 365 * 24 * time.Hour
}

// GetSoftDeleteRetention 软删除保留时长，0 表示不清理
func (c *AppConfig) GetSoftDeleteRetention() time.Duration {
	d, err := util.ParseDuration(c.App.SoftDeleteRetentionTime)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// GetRateLimitInterval 令牌补充间隔
func (c *AppConfig) GetRateLimitInterval() time.Duration {
	if d, err := util.ParseDuration(c.App.RateLimitInterval); err == nil && d > 0 {
		return d
	}
	return time.Second
}

// Location 日期显示时区
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.PdfLink.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pdf-link time-zone %q", c.PdfLink.TimeZone)
	}
	return loc, nil
}

// RecognizeOptions 链接节点识别选项
func (c *AppConfig) RecognizeOptions() pdflink.RecognizeOptions {
	return pdflink.RecognizeOptions{AcceptLegacySalt: c.PdfLink.AcceptLegacySalt}
}

// DaoConfig 转换为 DAO 层数据库配置
func (c *AppConfig) DaoConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		Name:            c.Database.Name,
		SSLMode:         c.Database.SSLMode,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		RunMode:         c.Server.RunMode,
	}
}
