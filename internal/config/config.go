package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Slug     SlugConfig
	Auth     AuthConfig
	Click    ClickConfig
}

type ServerConfig struct {
	Port            string
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	URL             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	MaxConnIdleTime time.Duration
	SQLitePath      string
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	Addr         string
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
}

type CacheConfig struct {
	LinkTTL    time.Duration
	SummaryTTL time.Duration
}

type SlugConfig struct {
	Length   int
	Reserved []string
}

type AuthConfig struct {
	JWTSecret string
}

type ClickConfig struct {
	RecordTimeout time.Duration
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, using environment and default values")
	}

	return build(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_BASE_URL", "http://localhost:8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT_PATH", "")
	v.SetDefault("LOG_MAX_SIZE", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE", 28)
	v.SetDefault("LOG_COMPRESS", true)

	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "root")
	v.SetDefault("DB_NAME", "slinkr")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 30*time.Minute)
	v.SetDefault("SQLITE_PATH", "./data/slinkr.db")

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_MAX_RETRIES", 3)

	v.SetDefault("CACHE_LINK_TTL", 24*time.Hour)
	v.SetDefault("CACHE_SUMMARY_TTL", 10*time.Minute)

	v.SetDefault("SLUG_LENGTH", 7)
	v.SetDefault("SLUG_RESERVED", "login,setup,dashboard,api,healthz,readyz")

	v.SetDefault("AUTH_JWT_SECRET", "")

	v.SetDefault("CLICK_RECORD_TIMEOUT", 5*time.Second)
}

func build(v *viper.Viper) (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetString("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		MaxConns:        v.GetInt("DB_MAX_CONNS"),
		MinConns:        v.GetInt("DB_MIN_CONNS"),
		ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		MaxConnIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
	}

	dbConfig.URL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.Name,
	)

	if dbConfig.Driver != DriverPostgres && dbConfig.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", dbConfig.Driver)
	}

	redisConfig := RedisConfig{
		Enabled:      v.GetBool("REDIS_ENABLED"),
		Host:         v.GetString("REDIS_HOST"),
		Port:         v.GetString("REDIS_PORT"),
		Password:     v.GetString("REDIS_PASSWORD"),
		DB:           v.GetInt("REDIS_DB"),
		PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
		MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
	}

	redisConfig.Addr = fmt.Sprintf("%s:%s", redisConfig.Host, redisConfig.Port)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			BaseURL:         strings.TrimRight(v.GetString("SERVER_BASE_URL"), "/"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT_PATH"),
			MaxSize:    v.GetInt("LOG_MAX_SIZE"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:     v.GetInt("LOG_MAX_AGE"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
		Database: dbConfig,
		Redis:    redisConfig,
		Cache: CacheConfig{
			LinkTTL:    v.GetDuration("CACHE_LINK_TTL"),
			SummaryTTL: v.GetDuration("CACHE_SUMMARY_TTL"),
		},
		Slug: SlugConfig{
			Length:   v.GetInt("SLUG_LENGTH"),
			Reserved: splitList(v.GetString("SLUG_RESERVED")),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
		},
		Click: ClickConfig{
			RecordTimeout: v.GetDuration("CLICK_RECORD_TIMEOUT"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
