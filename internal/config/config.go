// Package config loads spherecast settings from defaults, an optional
// spherecast.yaml and SPHERECAST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	Name      = "spherecast"
	EnvPrefix = "SPHERECAST"
)

const (
	KeyPort               = "port"
	KeyBaseURL            = "base_url"
	KeySessionSecret      = "session_secret"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
	KeyStorageBackend     = "storage.backend"
	KeyDatabaseURL        = "database_url"
	KeyRedisAddr          = "redis.addr"
	KeyRedisPassword      = "redis.password"
	KeyRedisDB            = "redis.db"
	KeyS3Endpoint         = "s3.endpoint"
	KeyS3Bucket           = "s3.bucket"
	KeyS3AccessKey        = "s3.access_key"
	KeyS3SecretKey        = "s3.secret_key"
	KeyS3Region           = "s3.region"
	KeyResolveTimeout     = "resolve.timeout"
	KeyResolveExpandHLS   = "resolve.expand_hls"
	KeyResolveYTDLP       = "resolve.ytdlp"
	KeyRateResolveRPS     = "ratelimit.resolve_rps"
	KeyRateResolveBurst   = "ratelimit.resolve_burst"
	KeyRateStorageRPS     = "ratelimit.storage_rps"
	KeyRateStorageBurst   = "ratelimit.storage_burst"
	KeyFrameAncestors     = "frame_ancestors"
	KeyFavoritesNamespace = "favorites.namespace"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

var Backends = []string{BackendMemory, BackendPostgres, BackendRedis, BackendS3}

// EnvKeyReplacer maps "storage.backend" to SPHERECAST_STORAGE_BACKEND.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

var defaults = map[string]any{
	KeyPort:               "8080",
	KeyBaseURL:            "http://localhost:8080",
	KeySessionSecret:      "",
	KeyLogLevel:           "info",
	KeyLogFormat:          "text",
	KeyStorageBackend:     BackendMemory,
	KeyDatabaseURL:        "",
	KeyRedisAddr:          "localhost:6379",
	KeyRedisPassword:      "",
	KeyRedisDB:            0,
	KeyS3Endpoint:         "",
	KeyS3Bucket:           "spherecast",
	KeyS3AccessKey:        "",
	KeyS3SecretKey:        "",
	KeyS3Region:           "eu-central-1",
	KeyResolveTimeout:     30 * time.Second,
	KeyResolveExpandHLS:   true,
	KeyResolveYTDLP:       false,
	KeyRateResolveRPS:     1.0,
	KeyRateResolveBurst:   5,
	KeyRateStorageRPS:     5.0,
	KeyRateStorageBurst:   20,
	KeyFrameAncestors:     "",
	KeyFavoritesNamespace: "cli",
}

type Config struct {
	Port          string
	BaseURL       string
	SessionSecret string
	Log           LogConfig
	Storage       StorageConfig
	Resolve       ResolveConfig
	RateLimit     RateLimitConfig
	// FrameAncestors lists extra origins allowed to embed the player.
	FrameAncestors string
	// FavoritesNamespace is the storage namespace the CLI edits.
	FavoritesNamespace string
}

type LogConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	Backend     string
	DatabaseURL string
	Redis       RedisConfig
	S3          S3Config
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
}

type ResolveConfig struct {
	Timeout   time.Duration
	ExpandHLS bool
	YTDLP     bool
}

type RateLimitConfig struct {
	ResolveRPS   float64
	ResolveBurst int
	StorageRPS   float64
	StorageBurst int
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/" + Name)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads the config file, if any, and returns the validated settings.
// An explicit file that cannot be read is an error; a missing default file
// is not.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:          v.GetString(KeyPort),
		BaseURL:       strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		SessionSecret: v.GetString(KeySessionSecret),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(v.GetString(KeyStorageBackend)),
			DatabaseURL: v.GetString(KeyDatabaseURL),
			Redis: RedisConfig{
				Addr:     v.GetString(KeyRedisAddr),
				Password: v.GetString(KeyRedisPassword),
				DB:       v.GetInt(KeyRedisDB),
			},
			S3: S3Config{
				Endpoint:  v.GetString(KeyS3Endpoint),
				Bucket:    v.GetString(KeyS3Bucket),
				AccessKey: v.GetString(KeyS3AccessKey),
				SecretKey: v.GetString(KeyS3SecretKey),
				Region:    v.GetString(KeyS3Region),
			},
		},
		Resolve: ResolveConfig{
			Timeout:   v.GetDuration(KeyResolveTimeout),
			ExpandHLS: v.GetBool(KeyResolveExpandHLS),
			YTDLP:     v.GetBool(KeyResolveYTDLP),
		},
		RateLimit: RateLimitConfig{
			ResolveRPS:   v.GetFloat64(KeyRateResolveRPS),
			ResolveBurst: v.GetInt(KeyRateResolveBurst),
			StorageRPS:   v.GetFloat64(KeyRateStorageRPS),
			StorageBurst: v.GetInt(KeyRateStorageBurst),
		},
		FrameAncestors:     v.GetString(KeyFrameAncestors),
		FavoritesNamespace: v.GetString(KeyFavoritesNamespace),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if !lo.Contains(Backends, c.Storage.Backend) {
		return fmt.Errorf("unknown storage backend %q (want one of %s)", c.Storage.Backend, strings.Join(Backends, ", "))
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.DatabaseURL == "" {
		return errors.New("database_url is required for the postgres backend")
	}
	if c.Storage.Backend == BackendRedis && c.Storage.Redis.Addr == "" {
		return errors.New("redis.addr is required for the redis backend")
	}
	if c.Storage.Backend == BackendS3 && c.Storage.S3.Bucket == "" {
		return errors.New("s3.bucket is required for the s3 backend")
	}
	if c.Resolve.Timeout <= 0 {
		return fmt.Errorf("resolve.timeout must be positive, got %s", c.Resolve.Timeout)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
