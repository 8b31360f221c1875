package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

type Directory struct {
	Host string `yaml:"host" env:"ONION_DIRECTORY_HOST" env-default:"localhost"`
	Port int    `yaml:"port" env:"ONION_DIRECTORY_PORT" env-default:"8080"`
}

type Metrics struct {
	Enabled       bool `yaml:"enabled" env:"ONION_METRICS_ENABLED" env-default:"false"`
	DirectoryPort int  `yaml:"directory_port" env:"ONION_METRICS_DIRECTORY_PORT" env-default:"9080"`
	BaseRelayPort int  `yaml:"base_relay_port" env:"ONION_METRICS_BASE_RELAY_PORT" env-default:"9400"`
	BaseUserPort  int  `yaml:"base_user_port" env:"ONION_METRICS_BASE_USER_PORT" env-default:"9300"`
}

type Config struct {
	Host           string        `yaml:"host" env:"ONION_HOST" env-default:"localhost"`
	Directory      Directory     `yaml:"directory"`
	BaseRelayPort  int           `yaml:"base_relay_port" env:"ONION_BASE_RELAY_PORT" env-default:"4000"`
	BaseUserPort   int           `yaml:"base_user_port" env:"ONION_BASE_USER_PORT" env-default:"3000"`
	ForwardTimeout time.Duration `yaml:"forward_timeout" env:"ONION_FORWARD_TIMEOUT" env-default:"30s"`
	LogLevel       string        `yaml:"log_level" env:"ONION_LOG_LEVEL" env-default:"info"`
	Metrics        Metrics       `yaml:"metrics"`
}

// Default returns the configuration used when no file is present: directory on 8080, relays on 4000+id, users on 3000+id.
func Default() *Config {
	return &Config{
		Host:           "localhost",
		Directory:      Directory{Host: "localhost", Port: 8080},
		BaseRelayPort:  4000,
		BaseUserPort:   3000,
		ForwardTimeout: 30 * time.Second,
		LogLevel:       "info",
		Metrics: Metrics{
			DirectoryPort: 9080,
			BaseRelayPort: 9400,
			BaseUserPort:  9300,
		},
	}
}

// Load reads the configuration at path. With an empty path it looks for config/config.yml under the working
// directory, then next to this source file, and otherwise falls back to environment variables and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, errors.Wrap(err, "config.Load(): failed to read environment")
		}
		return cfg, cfg.validate()
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "config.Load(): failed to read %s", path)
	}
	return cfg, cfg.validate()
}

func findConfigFile() string {
	if dir, err := os.Getwd(); err == nil {
		p := filepath.Join(dir, "config", "config.yml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if _, currentFile, _, ok := runtime.Caller(0); ok {
		p := filepath.Join(filepath.Dir(currentFile), "config.yml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) validate() error {
	if c.BaseRelayPort <= 0 || c.BaseUserPort <= 0 || c.Directory.Port <= 0 {
		return errors.Wrap(models.ErrValidation, "ports must be positive")
	}
	if c.ForwardTimeout < 0 {
		return errors.Wrap(models.ErrValidation, "forward_timeout must not be negative")
	}
	return nil
}

func (c *Config) DirectoryURL() string {
	return fmt.Sprintf("http://%s:%d", c.Directory.Host, c.Directory.Port)
}

// RelayPort is the port relay id listens on.
func (c *Config) RelayPort(id int) int {
	return c.BaseRelayPort + id
}

// UserPort is the port user id listens on.
func (c *Config) UserPort(id int) int {
	return c.BaseUserPort + id
}

func (c *Config) RelayAddress(id int) models.Address {
	return models.EncodeAddress(c.RelayPort(id))
}

func (c *Config) UserAddress(id int) models.Address {
	return models.EncodeAddress(c.UserPort(id))
}

// URLFor resolves an address to the base URL of the component listening on it.
func (c *Config) URLFor(address models.Address) (string, error) {
	port := address.Port()
	if port <= 0 || port > 65535 {
		return "", errors.Wrapf(models.ErrValidation, "address %s is not a usable port", address)
	}
	return fmt.Sprintf("http://%s:%d", c.Host, port), nil
}

func (c *Config) RelayMetricsPort(id int) int {
	return c.Metrics.BaseRelayPort + id
}

func (c *Config) UserMetricsPort(id int) int {
	return c.Metrics.BaseUserPort + id
}
