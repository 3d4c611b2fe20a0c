package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env    string `yaml:"env" validate:"oneof=development production test"`
	Server struct {
		Port           string   `yaml:"port" validate:"required,numeric"`
		ReadTimeout    string   `yaml:"read_timeout"`
		WriteTimeout   string   `yaml:"write_timeout"`
		RequestTimeout string   `yaml:"request_timeout"`
		CORSOrigins    []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" validate:"required,min=8"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"min=0,max=15"`
		TTL      string `yaml:"ttl"`
		LockTTL  string `yaml:"lock_ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
	Quiz struct {
		MinWords           int    `yaml:"min_words" validate:"min=1"`
		StrictAnswerCount  bool   `yaml:"strict_answer_count"`
		DictionaryCacheTTL string `yaml:"dictionary_cache_ttl"`
	} `yaml:"quiz"`
}

// Development reports whether the service runs with developer-friendly defaults.
func (c Config) Development() bool {
	return c.Env == "" || c.Env == "development"
}

// Load reads YAML config from path, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		cfg.RabbitMQ.URL = v
	}
	if v := os.Getenv("QUIZ_STRICT_ANSWER_COUNT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUIZ_STRICT_ANSWER_COUNT: %w", err)
		}
		cfg.Quiz.StrictAnswerCount = strict
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Quiz.MinWords == 0 {
		cfg.Quiz.MinWords = 2
	}
}

// HTTPTimeouts returns the server read and write timeouts and the timeout for
// API handlers, which is clamped below the write timeout.
func (c Config) HTTPTimeouts() (read, write, request time.Duration) {
	read = TTLDuration(c.Server.ReadTimeout, 15*time.Second)
	write = TTLDuration(c.Server.WriteTimeout, 15*time.Second)
	request = TTLDuration(c.Server.RequestTimeout, 10*time.Second)
	if request >= write {
		request = write * 4 / 5
	}
	return read, write, request
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
