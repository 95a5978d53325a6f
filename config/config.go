package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Reconciler ReconcilerConfig
	Scorer     ScorerConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// ReconcilerConfig tunes the due-date reconciliation batch.
// DedupWindowDays bounds the lookback used to suppress duplicate orders;
// LockTTL caps how long a per-candidate advisory lock may be held.
type ReconcilerConfig struct {
	DedupWindowDays int
	LockTTL         time.Duration
}

// ScorerConfig points at the external prediction model service.
type ScorerConfig struct {
	BaseURL string
	Timeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	dedupWindowDays := viper.GetInt("RECONCILER_DEDUP_WINDOW_DAYS")
	if dedupWindowDays <= 0 {
		dedupWindowDays = 7
	}

	lockTTL, err := time.ParseDuration(viper.GetString("RECONCILER_LOCK_TTL"))
	if err != nil {
		lockTTL = 30 * time.Second
	}

	scorerTimeout, err := time.ParseDuration(viper.GetString("SCORER_TIMEOUT"))
	if err != nil {
		scorerTimeout = 20 * time.Second
	}

	migrationsPath := viper.GetString("DB_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			Name:           viper.GetString("DB_NAME"),
			MigrationsPath: migrationsPath,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Reconciler: ReconcilerConfig{
			DedupWindowDays: dedupWindowDays,
			LockTTL:         lockTTL,
		},
		Scorer: ScorerConfig{
			BaseURL: viper.GetString("SCORER_BASE_URL"),
			Timeout: scorerTimeout,
		},
	}

	return config, nil
}
