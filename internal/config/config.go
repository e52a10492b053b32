package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AI       AIConfig
	Telegram TelegramConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Seed     SeedConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	CompanyName string
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
	StatementTimeout      time.Duration

	// ApplicationName tags server-side sessions in pg_stat_activity.
	ApplicationName string
	MigrationsDir   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
	CacheTTL       time.Duration
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

type StorageConfig struct {
	Dir        string
	Bucket     string
	PublicBase string
	MaxBytes   int64
}

type PipelineConfig struct {
	FailurePolicy  string
	Workers        int
	QueueSize      int
	PersistTimeout time.Duration
}

type SeedConfig struct {
	JobsFile      string
	AdminUsername string
	AdminPassword string
	UserUsername  string
	UserPassword  string
}

const (
	FailurePolicyRollback  = "rollback"
	FailurePolicyMarkDirty = "mark_dirty"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing, invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		v := opt(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		v := opt(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		CompanyName: optDefault("COMPANY_NAME", "Senglao Group"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
		StatementTimeout:      optDuration("DB_STATEMENT_TIMEOUT", 15*time.Second),

		ApplicationName: cfg.App.AppName,
		MigrationsDir:   optDefault("MIGRATIONS_DIR", "migrations"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		CacheTTL: time.Duration(optInt("CACHE_DEFAULT_TTL_SECONDS", 600)) * time.Second,
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.AI = AIConfig{
		APIKey:         opt("AI_API_KEY"),
		BaseURL:        optDefault("AI_BASE_URL", "https://api.openai.com/v1"),
		Model:          optDefault("AI_MODEL", "gpt-4o-mini"),
		EmbeddingModel: optDefault("AI_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        optDuration("AI_TIMEOUT", 60*time.Second),
		CacheTTL:       optDuration("AI_CACHE_TTL", 24*time.Hour),
	}

	chatID := opt("TELEGRAM_CHAT_ID")
	cfg.Telegram = TelegramConfig{BotToken: opt("TELEGRAM_BOT_TOKEN")}
	if chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			invalid = append(invalid, "TELEGRAM_CHAT_ID")
		}
		cfg.Telegram.ChatID = id
	}

	cfg.Storage = StorageConfig{
		Dir:        optDefault("STORAGE_DIR", "uploads"),
		Bucket:     optDefault("STORAGE_BUCKET", "CV"),
		PublicBase: optDefault("STORAGE_PUBLIC_BASE", "/files"),
		MaxBytes:   int64(optInt("STORAGE_MAX_BYTES", 10<<20)),
	}

	cfg.Pipeline = PipelineConfig{
		FailurePolicy:  strings.ToLower(optDefault("PIPELINE_FAILURE_POLICY", FailurePolicyRollback)),
		Workers:        optInt("PIPELINE_WORKERS", 4),
		QueueSize:      optInt("PIPELINE_QUEUE_SIZE", 256),
		PersistTimeout: optDuration("PIPELINE_PERSIST_TIMEOUT", 10*time.Second),
	}
	switch cfg.Pipeline.FailurePolicy {
	case FailurePolicyRollback, FailurePolicyMarkDirty:
	default:
		invalid = append(invalid, "PIPELINE_FAILURE_POLICY")
	}

	cfg.Seed = SeedConfig{
		JobsFile:      optDefault("SEED_JOBS_FILE", "configs/jobs.yaml"),
		AdminUsername: optDefault("SEED_ADMIN_USERNAME", "admin"),
		AdminPassword: opt("SEED_ADMIN_PASSWORD"),
		UserUsername:  optDefault("SEED_USER_USERNAME", "user"),
		UserPassword:  opt("SEED_USER_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func (c RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return c.Host + ":" + c.Port
}
