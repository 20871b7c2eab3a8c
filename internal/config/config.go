package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvConfigFile names an optional YAML file holding the same keys as the environment.
const EnvConfigFile = "TALENT_MATCH_CONFIG"

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	JWT      JWTConfig
	Matching MatchingConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	RankingTTL time.Duration
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type MatchingConfig struct {
	Workers           int
	ParallelThreshold int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	ErrInvalidConfig      = errors.New("invalid config")
)

func Load() (Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

func LoadFile(path string) (Config, error) {
	return LoadWithViper(viper.New(), path)
}

// LoadWithViper reads configuration through v so callers can bind command-line flags first.
// Environment variables override the file.
func LoadWithViper(v *viper.Viper, path string) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Host:       opt("REDIS_HOST"),
		Port:       opt("REDIS_PORT"),
		Password:   v.GetString("REDIS_PASSWORD"),
		DB:         v.GetInt("REDIS_DB"),
		RankingTTL: v.GetDuration("RANKING_CACHE_TTL"),
	}

	cfg.RabbitMQ = RabbitMQConfig{
		URI:      opt("RABBITMQ_URI"),
		Exchange: opt("RABBITMQ_EXCHANGE"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: opt("JWT_ISSUER"),
	}

	cfg.Matching = MatchingConfig{
		Workers:           v.GetInt("MATCH_WORKERS"),
		ParallelThreshold: v.GetInt("MATCH_PARALLEL_THRESHOLD"),
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("LOG_JSON"),
		Debug: v.GetBool("LOG_DEBUG"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RANKING_CACHE_TTL", 5*time.Minute)
	v.SetDefault("RABBITMQ_EXCHANGE", "matching.events")
	v.SetDefault("MATCH_WORKERS", runtime.NumCPU())
	v.SetDefault("MATCH_PARALLEL_THRESHOLD", 64)
}

func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.App.Environment) {
	case "development", "dev", "local", "test":
		return true
	default:
		return false
	}
}

func (c Config) Validate() error {
	var problems []string

	if c.Matching.Workers <= 0 {
		problems = append(problems, "MATCH_WORKERS must be positive")
	}
	if c.Matching.ParallelThreshold < 0 {
		problems = append(problems, "MATCH_PARALLEL_THRESHOLD must not be negative")
	}
	if c.Redis.RankingTTL < 0 {
		problems = append(problems, "RANKING_CACHE_TTL must not be negative")
	}
	if c.Database.PoolMinConns > 0 && c.Database.PoolMaxConns > 0 && c.Database.PoolMinConns > c.Database.PoolMaxConns {
		problems = append(problems, "DB_POOL_MIN_CONNS exceeds DB_POOL_MAX_CONNS")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" && !c.IsDevelopment() {
		problems = append(problems, "JWT_SECRET is required outside development")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
