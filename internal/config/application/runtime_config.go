package application

import (
	"context"
	"net"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"hyperion-agent/internal/infrastructure/logger"
	metricsdomain "hyperion-agent/internal/metrics/domain"
	"hyperion-agent/internal/shared/validation"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment variables, and .env file
type RuntimeConfig struct {
	// Node identity reported in every snapshot
	NodeName string `env:"MY_NODE_NAME" envDefault:"unknown-node"`

	// HTTP listener
	ListenAddr string `env:"HYPERION_LISTEN_ADDR" envDefault:"0.0.0.0:9090"`

	// Development Mode
	DevMode bool `env:"HYPERION_DEV_MODE" envDefault:"false"`

	// Logging Configuration
	LogLevel  string `env:"HYPERION_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"HYPERION_LOG_FORMAT" envDefault:"text"`
	LogOutput string `env:"HYPERION_LOG_OUTPUT" envDefault:"stdout"`
}

// Overrides carries values set explicitly on the command line.
// Empty strings and a false DevMode leave the environment value in place.
type Overrides struct {
	NodeName   string
	ListenAddr string
	LogLevel   string
	LogFormat  string
	LogOutput  string
	DevMode    bool
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env vars > .env file > defaults.
// The .env file must already have been loaded into the process environment.
func LoadRuntimeConfig(o Overrides) (*RuntimeConfig, error) {
	return loadRuntimeConfig(nil, o)
}

// loadRuntimeConfig reads environ instead of the process environment when it is non-nil
func loadRuntimeConfig(environ map[string]string, o Overrides) (*RuntimeConfig, error) {
	cfg, err := env.ParseAsWithOptions[RuntimeConfig](env.Options{Environment: environ})
	if err != nil {
		return nil, &ConfigError{Field: "env", Message: err.Error()}
	}

	cfg.NodeName = getValue(o.NodeName, cfg.NodeName)
	cfg.ListenAddr = getValue(o.ListenAddr, cfg.ListenAddr)
	cfg.LogLevel = getValue(o.LogLevel, cfg.LogLevel)
	cfg.LogFormat = getValue(o.LogFormat, cfg.LogFormat)
	cfg.LogOutput = getValue(o.LogOutput, cfg.LogOutput)
	cfg.DevMode = o.DevMode || cfg.DevMode

	if strings.TrimSpace(cfg.NodeName) == "" {
		cfg.NodeName = metricsdomain.DefaultNodeName
	}

	return &cfg, nil
}

// getValue returns the CLI value when set, otherwise the resolved env value
func getValue(cliValue, envValue string) string {
	if v := strings.TrimSpace(cliValue); v != "" {
		return v
	}
	return strings.TrimSpace(envValue)
}

// Valid implements validation.Validator
func (c *RuntimeConfig) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string)

	if err := checkListenAddr(c.ListenAddr); err != "" {
		problems["listen_addr"] = err
	}

	if !logger.KnownLevel(c.LogLevel) {
		problems["log_level"] = "unknown log level " + strconv.Quote(c.LogLevel) + " (want debug, info, warn or error)"
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems["log_format"] = "unknown log format " + strconv.Quote(c.LogFormat) + " (want text or json)"
	}

	if c.LogOutput == "" {
		problems["log_output"] = "log output cannot be empty"
	}

	return problems
}

func checkListenAddr(addr string) string {
	if addr == "" {
		return "listen address cannot be empty"
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "invalid listen address: " + err.Error()
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return "invalid port " + strconv.Quote(port)
	}
	return ""
}

// Validate checks that the configuration is usable
func (c *RuntimeConfig) Validate() error {
	return validation.Check(context.Background(), c, "config")
}

// LoggerOptions returns the logging part of the configuration
func (c *RuntimeConfig) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: c.LogOutput,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
