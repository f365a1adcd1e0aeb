package configuration

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type SMTPConfig struct {
	From      string        `yaml:"from"`
	Host      string        `yaml:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port      int           `yaml:"port" validate:"gte=1,lte=65535"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	TLSPolicy string        `yaml:"tls_policy" validate:"oneof=mandatory opportunistic none"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Output string `yaml:"output"`
}

type ClientConfig struct {
	Prompt        string        `yaml:"prompt" validate:"required"`
	HistoryFile   string        `yaml:"history_file"`
	FrameInterval time.Duration `yaml:"frame_interval" validate:"gt=0"`
}

type Config struct {
	SMTP    SMTPConfig    `yaml:"smtp"`
	Logging LoggingConfig `yaml:"logging"`
	Client  ClientConfig  `yaml:"client"`
}

const (
	ConfigPathEnv     = "CONFIG_FILEPATH"
	DefaultConfigPath = "config.yaml"
)

var (
	ErrConfigFileMissing = errors.New("no config file path provided")
	ErrInvalidConfig     = errors.New("invalid config")
)

var validate = validator.New()

// DefaultConfig returns the settings used when no config file is available.
func DefaultConfig() *Config {
	return &Config{
		SMTP: SMTPConfig{
			Port:      587,
			TLSPolicy: "opportunistic",
			Timeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
		},
		Client: ClientConfig{
			Prompt:        "smtp> ",
			HistoryFile:   "/tmp/smtp-client-history.tmp",
			FrameInterval: 100 * time.Millisecond,
		},
	}
}

// NewConfig loads the file named by CONFIG_FILEPATH.
func NewConfig() (*Config, error) {
	configFilePath := os.Getenv(ConfigPathEnv)
	if configFilePath == "" {
		return nil, ErrConfigFileMissing
	}
	return Load(configFilePath)
}

// Load reads a YAML (or JSON) config file on top of DefaultConfig and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrConfigFileMissing
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	if path == "" {
		return ErrConfigFileMissing
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("unable to encode config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("unable to write config: %w", err)
	}
	return nil
}
