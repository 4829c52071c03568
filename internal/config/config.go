package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Поддерживаемые драйверы локального хранилища
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Бэкенды кеша payload станций
const (
	CacheBackendSQL   = "sql"
	CacheBackendRedis = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	RiverAPI RiverAPIConfig
	Log      LogConfig
	Worker   WorkerConfig
	Offline  OfflineConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Backend          string
	StationMaxAge    time.Duration
	CoalesceInflight bool
	RedisKeyPrefix   string
}

type RiverAPIConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
	ClaimMinIdle  time.Duration
}

type OfflineConfig struct {
	RetryDelay time.Duration
}

// Load читает конфигурацию из .env и переменных окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom читает конфигурацию из указанного файла; отсутствие файла не ошибка
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_SQLITE_PATH", "data/rivr.db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("CACHE_BACKEND", CacheBackendSQL)
	v.SetDefault("CACHE_COALESCE_INFLIGHT", true)
	v.SetDefault("CACHE_REDIS_KEY_PREFIX", "station")
	v.SetDefault("RIVER_API_TIMEOUT", 15)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_CONSUMER_GROUP", "station-prefetch-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 20)
	v.SetDefault("WORKER_CLAIM_MIN_IDLE", 60)
	v.SetDefault("OFFLINE_RETRY_DELAY", 2000)

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("API_HOST"),
			Port:           v.GetInt("API_PORT"),
			Env:            v.GetString("API_ENV"),
			AllowedOrigins: v.GetString("API_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			SQLitePath:      v.GetString("DB_SQLITE_PATH"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Backend:          strings.ToLower(v.GetString("CACHE_BACKEND")),
			StationMaxAge:    time.Duration(v.GetInt("STATION_CACHE_MAX_AGE")) * time.Second,
			CoalesceInflight: v.GetBool("CACHE_COALESCE_INFLIGHT"),
			RedisKeyPrefix:   v.GetString("CACHE_REDIS_KEY_PREFIX"),
		},
		RiverAPI: RiverAPIConfig{
			BaseURL:        strings.TrimRight(v.GetString("RIVER_API_BASE_URL"), "/"),
			APIKey:         v.GetString("RIVER_API_KEY"),
			RequestTimeout: time.Duration(v.GetInt("RIVER_API_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
			ClaimMinIdle:  time.Duration(v.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Second,
		},
		Offline: OfflineConfig{
			RetryDelay: time.Duration(v.GetInt("OFFLINE_RETRY_DELAY")) * time.Millisecond,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Cache.Backend {
	case CacheBackendSQL, CacheBackendRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}

	if c.Cache.StationMaxAge < 0 {
		return fmt.Errorf("STATION_CACHE_MAX_AGE must not be negative")
	}

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseDSN возвращает DSN для выбранного драйвера
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
