// Package config supplies validated configuration to both programs.
// Values come from an optional YAML config file (the same shape the
// original ini files had: a client section with the web service URL,
// an rds section with database parameters), overridden by flags, then
// by environment variables.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
)

// ClientConfig configures the photoapp API client.
type ClientConfig struct {
	BaseURL     string        `env:"PHOTOAPP_WEBSERVICE"`
	Timeout     time.Duration `env:"PHOTOAPP_TIMEOUT"`
	MaxAttempts int           `env:"PHOTOAPP_MAX_ATTEMPTS"`
	Debug       bool          `env:"PHOTOAPP_DEBUG"`
}

// ServerConfig configures the shorten service.
type ServerConfig struct {
	RunAddr       string `env:"SERVER_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_DSN"`
	Secret        string `env:"SECRET"`
	TrustedSubnet string `env:"TRUSTED_SUBNET"`
	ProfileMode   bool   `env:"PROFILE_MODE"`
	Debug         bool   `env:"SHORTEN_DEBUG"`
}

// fileConfig is the on-disk shape, carried over from the original
// client/rds ini sections.
type fileConfig struct {
	Client struct {
		Webservice string `yaml:"webservice"`
	} `yaml:"client"`
	RDS struct {
		Endpoint   string `yaml:"endpoint"`
		PortNumber int    `yaml:"port_number"`
		UserName   string `yaml:"user_name"`
		UserPwd    string `yaml:"user_pwd"`
		DBName     string `yaml:"db_name"`
	} `yaml:"rds"`
}

func readFile(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return &fc, nil
}

// dsnFromRDS assembles a postgres DSN out of the rds config section.
func (fc *fileConfig) dsnFromRDS() string {
	if fc.RDS.Endpoint == "" {
		return ""
	}
	port := fc.RDS.PortNumber
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		fc.RDS.UserName, fc.RDS.UserPwd, fc.RDS.Endpoint, port, fc.RDS.DBName)
}

// LoadClientConfig builds the client configuration: defaults, then the
// config file when path is non-empty, then environment variables.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{
		Timeout:     DefaultTimeout,
		MaxAttempts: DefaultMaxAttempts,
	}

	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if fc.Client.Webservice != "" {
			cfg.BaseURL = fc.Client.Webservice
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the base URL is an absolute http(s) URL.
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("web service URL is required (config file or PHOTOAPP_WEBSERVICE)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("error parsing web service URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("web service URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}

var serverConfig ServerConfig

// ParseServerFlags builds the shorten service configuration from
// flags, an optional config file, and environment variables, in
// ascending precedence.
func ParseServerFlags() (*ServerConfig, error) {
	var configPath string
	flag.StringVar(&configPath, "c", "", "path to YAML config file")
	flag.StringVar(&serverConfig.RunAddr, "a", ":8080", "address and port to run server")
	flag.StringVar(&serverConfig.DatabaseDSN, "d", "", "Data Source Name (DSN)")
	flag.StringVar(&serverConfig.Secret, "s", "", "secret for signing visitor cookies")
	flag.StringVar(&serverConfig.TrustedSubnet, "t", "", "trusted subnet (CIDR) for admin endpoints")
	flag.BoolVar(&serverConfig.ProfileMode, "p", false, "enable pprof endpoints")
	flag.BoolVar(&serverConfig.Debug, "debug", false, "enable debug logging")
	flag.Parse()

	if configPath != "" && serverConfig.DatabaseDSN == "" {
		fc, err := readFile(configPath)
		if err != nil {
			return nil, err
		}
		serverConfig.DatabaseDSN = fc.dsnFromRDS()
	}

	if err := env.Parse(&serverConfig); err != nil {
		return nil, fmt.Errorf("error parsing env variables: %w", err)
	}

	return &serverConfig, nil
}
