package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config elderly-companion（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}

	// Env 运行环境（development / production），development 时 Debug = true
	Env   string
	Debug bool

	DBEnabled bool
	Database  DatabaseConfig

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	OpenAI OpenAIConfig

	Log struct {
		Level  string
		Format string
	}
}

// DatabaseConfig PostgreSQL 配置
// DATABASE_URL 优先；未设置时由离散变量拼 DSN
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// OpenAIConfig 外部反馈生成服务配置
// APIKey 为空时生成器不发起网络调用，直接返回 "not configured" 错误结果
type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// Load 从环境变量加载配置（带默认值）
func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Env = getEnv("APP_ENV", "development")
	cfg.Debug = cfg.Env == "development"

	// 默认开启 DB；连接失败时 main 会回退到内存 repo，便于本地 `go run`
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.URL = getEnv("DATABASE_URL", "")
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "elderly_companion")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", "gpt-3.5-turbo")
	cfg.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1")
	cfg.OpenAI.TimeoutSeconds = parseInt(getEnv("OPENAI_TIMEOUT_SECONDS", "30"), 30)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

// IsOpenAIConfigured AI 凭证是否已配置
func (c *Config) IsOpenAIConfigured() bool {
	return strings.TrimSpace(c.OpenAI.APIKey) != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
