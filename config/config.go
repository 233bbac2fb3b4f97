package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

type Auth struct {
	Secret   string `yaml:"secret"`   // overridden by SECRET_KEY
	TokenTTL string `yaml:"tokenTtl"` // e.g. "1h"
}

type Push struct {
	VAPIDPublicKey  string `yaml:"vapidPublicKey"`  // overridden by VAPID_PUBLIC_KEY
	VAPIDPrivateKey string `yaml:"vapidPrivateKey"` // overridden by VAPID_PRIVATE_KEY
	Subscriber      string `yaml:"subscriber"`      // mailto: contact for push services
	MessagesURL     string `yaml:"messagesUrl"`     // link embedded in chat notifications
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Auth     Auth     `yaml:"auth"`
	Push     Push     `yaml:"push"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Secrets come from the environment when present; yaml holds dev defaults.
func (c *Config) applyEnv() {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("VAPID_PUBLIC_KEY"); v != "" {
		c.Push.VAPIDPublicKey = v
	}
	if v := os.Getenv("VAPID_PRIVATE_KEY"); v != "" {
		c.Push.VAPIDPrivateKey = v
	}
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required (or SECRET_KEY)")
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Push.Subscriber == "" {
		c.Push.Subscriber = "mailto:admin@linkinpurry.local"
	}
	if c.Push.MessagesURL == "" {
		c.Push.MessagesURL = "/messages"
	}
	return nil
}

// TokenTTLDuration parses auth.tokenTtl, falling back to one hour.
func (c *Config) TokenTTLDuration() time.Duration {
	return parseDurationOr(time.Hour, c.Auth.TokenTTL)
}

func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
