package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Token store backends
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Server     ServerConfig
	API        APIConfig
	Consul     ConsulConfig
	TokenStore TokenStoreConfig
	CORS       CORSConfig
	App        AppConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// APIConfig points the console at the remote collaborator API. When
// ServiceName is set the base URL is discovered through Consul instead.
type APIConfig struct {
	BaseURL     string
	ServiceName string
	Timeout     time.Duration
}

type ConsulConfig struct {
	Addr     string
	Token    string
	Register bool

	// ServiceAddress is the address advertised when registering
	ServiceAddress string
}

type TokenStoreConfig struct {
	Backend       string
	Key           string
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	DatabaseURL   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
}

// Load reads the configuration from the environment. A .env file is applied
// beforehand by the godotenv autoload import in main.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         GetEnvOrDefault("CONSOLE_PORT", "3000"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		API: APIConfig{
			BaseURL:     GetEnvOrDefault("API_BASE_URL", "http://localhost:5500"),
			ServiceName: os.Getenv("API_SERVICE_NAME"),
			Timeout:     getEnvDuration("API_TIMEOUT", 0),
		},
		Consul: ConsulConfig{
			Addr:     GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500"),
			Token:    os.Getenv("CONSUL_HTTP_TOKEN"),
			Register: getEnvBool("CONSUL_REGISTER", false),

			ServiceAddress: GetEnvOrDefault("CONSUL_SERVICE_ADDRESS", "localhost"),
		},
		TokenStore: TokenStoreConfig{
			Backend:       GetEnvOrDefault("TOKEN_STORE", StoreFile),
			Key:           GetEnvOrDefault("TOKEN_KEY", "token"),
			Dir:           GetEnvOrDefault("TOKEN_DIR", defaultTokenDir()),
			RedisAddr:     GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisPrefix:   GetEnvOrDefault("REDIS_KEY_PREFIX", "folio-console:"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		},
		App: AppConfig{
			Environment: GetEnvOrDefault("APP_ENV", "development"),
			LogLevel:    GetEnvOrDefault("LOG_LEVEL", "info"),
			LogFormat:   GetEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	// a registered instance must advertise an address the agent can reach
	if cfg.Consul.Register {
		if err := ValidateEnv([]string{"CONSUL_SERVICE_ADDRESS"}); err != nil {
			return nil, fmt.Errorf("CONSUL_REGISTER is set: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("CONSOLE_PORT is required")
	}
	if c.API.BaseURL == "" && c.API.ServiceName == "" {
		return errors.New("one of API_BASE_URL or API_SERVICE_NAME is required")
	}
	if c.API.Timeout < 0 {
		return errors.New("API_TIMEOUT must not be negative")
	}
	if c.TokenStore.Key == "" {
		return errors.New("TOKEN_KEY is required")
	}

	switch c.TokenStore.Backend {
	case StoreFile:
		if c.TokenStore.Dir == "" {
			return errors.New("TOKEN_DIR is required for the file token store")
		}
	case StoreRedis:
		if c.TokenStore.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis token store")
		}
	case StorePostgres:
		if c.TokenStore.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres token store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q", c.TokenStore.Backend)
	}

	for _, origin := range c.CORS.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}

	return nil
}

// IsProduction reports whether the console runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func defaultTokenDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".folio-console"
	}
	return filepath.Join(home, ".folio-console")
}
