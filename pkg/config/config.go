package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store driver names accepted by STORE_DRIVER.
const (
	StoreDriverFile     = "file"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Reminder ReminderConfig
	Notify   NotifyConfig
}

// StoreConfig selects and tunes the blob store backend.
type StoreConfig struct {
	Driver  string
	DataDir string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReminderConfig tunes the reminder engine.
type ReminderConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
	QueueWorkers    int
	QueueRetries    int
}

// NotifyConfig tunes the notification output channels.
type NotifyConfig struct {
	DesktopEnabled bool
	SpeechEnabled  bool
	SpeechCommand  string
	SpeechVoice    string
	SpeechRate     float64
	ToneEnabled    bool
	ToneFrequency  float64
	ToneDurationMs int
	BannerSize     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:  strings.ToLower(v.GetString("STORE_DRIVER")),
		DataDir: v.GetString("STORE_DATA_DIR"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reminder = ReminderConfig{
		Enabled:         v.GetBool("ENABLE_REMINDERS"),
		RefreshInterval: parseDuration(v.GetString("REMINDER_REFRESH_INTERVAL"), 24*time.Hour),
		QueueWorkers:    v.GetInt("REMINDER_QUEUE_WORKERS"),
		QueueRetries:    v.GetInt("REMINDER_QUEUE_RETRIES"),
	}

	cfg.Notify = NotifyConfig{
		DesktopEnabled: v.GetBool("NOTIFY_DESKTOP_ENABLED"),
		SpeechEnabled:  v.GetBool("NOTIFY_SPEECH_ENABLED"),
		SpeechCommand:  v.GetString("NOTIFY_SPEECH_COMMAND"),
		SpeechVoice:    v.GetString("NOTIFY_SPEECH_VOICE"),
		SpeechRate:     v.GetFloat64("NOTIFY_SPEECH_RATE"),
		ToneEnabled:    v.GetBool("NOTIFY_TONE_ENABLED"),
		ToneFrequency:  v.GetFloat64("NOTIFY_TONE_FREQUENCY"),
		ToneDurationMs: v.GetInt("NOTIFY_TONE_DURATION_MS"),
		BannerSize:     v.GetInt("NOTIFY_BANNER_SIZE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_DATA_DIR", "./data")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "habit_alert")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_REMINDERS", true)
	v.SetDefault("REMINDER_REFRESH_INTERVAL", "24h")
	v.SetDefault("REMINDER_QUEUE_WORKERS", 1)
	v.SetDefault("REMINDER_QUEUE_RETRIES", 2)

	v.SetDefault("NOTIFY_DESKTOP_ENABLED", true)
	v.SetDefault("NOTIFY_SPEECH_ENABLED", false)
	v.SetDefault("NOTIFY_SPEECH_COMMAND", "")
	v.SetDefault("NOTIFY_SPEECH_VOICE", "")
	v.SetDefault("NOTIFY_SPEECH_RATE", 1.0)
	v.SetDefault("NOTIFY_TONE_ENABLED", true)
	v.SetDefault("NOTIFY_TONE_FREQUENCY", 587.0)
	v.SetDefault("NOTIFY_TONE_DURATION_MS", 500)
	v.SetDefault("NOTIFY_BANNER_SIZE", 50)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
