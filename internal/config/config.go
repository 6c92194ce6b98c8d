package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/constants"
)

const (
	CONCURRENCY_LOCK       = "lock"
	CONCURRENCY_OPTIMISTIC = "optimistic"

	CACHE_DRIVER_REDIS  = "redis"
	CACHE_DRIVER_MEMORY = "memory"
)

type Application struct {
	Env            string        `mapstructure:"env"             json:"env"`
	Host           string        `mapstructure:"host"            json:"host"`
	SecretKey      string        `mapstructure:"secret_key"      json:"-"`
	Port           int           `mapstructure:"port"            json:"port"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"       json:"token_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" json:"allowed_origins"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

func (d Database) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

type Cache struct {
	Driver   string        `mapstructure:"driver"   json:"driver"`
	Host     string        `mapstructure:"host"     json:"host"`
	Password string        `mapstructure:"password" json:"-"`
	Database int           `mapstructure:"database" json:"database"`
	Port     uint16        `mapstructure:"port"     json:"port"`
	TTL      time.Duration `mapstructure:"ttl"      json:"ttl"`
	Size     int           `mapstructure:"size"     json:"size"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Cart struct {
	Concurrency string `mapstructure:"concurrency" json:"concurrency"`
	MaxRetries  uint64 `mapstructure:"max_retries" json:"max_retries"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Cart        `mapstructure:"cart"        json:"cart"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", constants.ENV_DEVELOPMENT)
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.token_ttl", 30*time.Minute)
	v.SetDefault("application.allowed_origins", []string{"*"})
	v.SetDefault("db.migration_path", "file://migrations")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 2)
	v.SetDefault("cache.driver", CACHE_DRIVER_REDIS)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.size", 1024)
	v.SetDefault("cart.concurrency", CONCURRENCY_LOCK)
	v.SetDefault("cart.max_retries", 5)
}

func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "config Get").
			Str("filename", filename).
			Logger()

		logger = logger.With().Str(constants.KEY_PROCESS, "loading dotenv").Logger()
		logger.Info().Msg("loading dotenv")
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("failed loading dotenv with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("loaded dotenv")

		v := viper.New()
		v.SetConfigName(filename)
		v.AddConfigPath("./env")
		v.SetConfigType("yaml")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		setDefaults(v)

		logger = logger.With().Str(constants.KEY_PROCESS, "reading config").Logger()
		logger.Info().Msg("reading config")
		err = v.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("failed reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		cfg := Config{}
		err = v.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("failed unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger.Info().Any(constants.KEY_CONFIG, cfg).Msg("unmarshaled config")
	})
	return config
}
