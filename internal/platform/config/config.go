// Package config loads application configuration from an optional YAML file
// plus environment overrides, so main stays lean.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure. Every field maps to a YAML key
// and can be overridden by the corresponding environment variable.
type Config struct {
	// Env controls log format and verbosity. Valid values: "dev", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	HTTPServer `yaml:"http_server"`
	Auth       Auth  `yaml:"auth"`
	Redis      Redis `yaml:"redis"`
	Store      Store `yaml:"store"`
}

// HTTPServer holds listener settings. Embedded so cfg.Addr works directly.
type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
	MetricsAddr     string        `yaml:"metrics_address" env:"METRICS_ADDR" env-default:":9090"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Auth holds the token salts. The defaults match the historical contract the
// deployed clients sign their tokens against; override them per environment.
type Auth struct {
	Salt      string `yaml:"salt" env:"AUTH_SALT" env-default:"Otus"`
	AdminSalt string `yaml:"admin_salt" env:"AUTH_ADMIN_SALT" env-default:"42"`
}

// Redis holds connection settings for the backing key-value store.
type Redis struct {
	Addr         string        `yaml:"address" env:"REDIS_ADDR" env-default:"localhost:6379"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	PoolSize     int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"2s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"REDIS_READ_TIMEOUT" env-default:"2s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"REDIS_WRITE_TIMEOUT" env-default:"2s"`
}

// Store holds the retry policy for hard reads and writes.
type Store struct {
	RetryAttempts int           `yaml:"retry_attempts" env:"STORE_RETRY_ATTEMPTS" env-default:"5"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" env:"STORE_RETRY_BACKOFF" env-default:"10ms"`
}

// MustLoad reads, validates, and returns the application config. The path
// comes from CONFIG_PATH or the --config flag; with neither set, the config is
// built from environment variables and defaults alone.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		path := flag.String("config", "", "path to the configuration YAML file")
		flag.Parse()
		configPath = *path
	}

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
