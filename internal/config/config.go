package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const HardcodedVersion string = "V0.3"

type Config struct {
	Server            string
	Database          string
	User              string
	Password          string
	TrustedConnection bool
	ConnectRetries    int
	ConnectRetryDelay time.Duration
	ConnectMaxJitter  time.Duration
	TopQueries        int
	ToolVersion       string
	LogJSON           bool
	LogLevel          string
	UplinkEnabled     bool
	UplinkGRPCAddr    string
	UplinkToken       string
	UplinkMethod      string
	TLSEnabled        bool
	TLSSkipVerify     bool
	TLSCAPath         string
	TLSCertPath       string
	TLSKeyPath        string
}

// Load builds the configuration from SNITCH_* environment variables,
// overlays the optional YAML file named by SNITCH_CONFIG_FILE, and
// validates the result.
func Load() (Config, error) {
	cfg := Config{
		Server:            env("SNITCH_SERVER", ""),
		Database:          env("SNITCH_DATABASE", "master"),
		User:              env("SNITCH_USER", ""),
		Password:          env("SNITCH_PASSWORD", ""),
		TrustedConnection: envBool("SNITCH_TRUSTED_CONNECTION", true),
		ConnectRetries:    envInt("SNITCH_CONNECT_RETRIES", 3),
		ConnectRetryDelay: envDuration("SNITCH_CONNECT_RETRY_DELAY", 5*time.Second),
		ConnectMaxJitter:  envDuration("SNITCH_CONNECT_MAX_JITTER", 0),
		TopQueries:        envInt("SNITCH_TOP_QUERIES", 5),
		ToolVersion:       HardcodedVersion,
		LogJSON:           envBool("SNITCH_LOG_JSON", false),
		LogLevel:          strings.ToLower(env("SNITCH_LOG_LEVEL", "info")),
		UplinkEnabled:     envBool("SNITCH_UPLINK_ENABLED", false),
		UplinkGRPCAddr:    env("SNITCH_UPLINK_GRPC_ADDR", "127.0.0.1:3001"),
		UplinkToken:       env("SNITCH_UPLINK_TOKEN", ""),
		UplinkMethod:      env("SNITCH_UPLINK_REPORT_METHOD", "/snitch.reports.v1.ReportService/PublishReport"),
		TLSEnabled:        envBool("SNITCH_TLS_ENABLED", false),
		TLSSkipVerify:     envBool("SNITCH_TLS_SKIP_VERIFY", false),
		TLSCAPath:         env("SNITCH_TLS_CA_PATH", ""),
		TLSCertPath:       env("SNITCH_TLS_CERT_PATH", ""),
		TLSKeyPath:        env("SNITCH_TLS_KEY_PATH", ""),
	}

	if path := env("SNITCH_CONFIG_FILE", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("SNITCH_DATABASE is required")
	}
	if strings.TrimSpace(c.ToolVersion) == "" {
		return errors.New("tool version must not be empty")
	}
	if c.ConnectRetries < 1 {
		return errors.New("SNITCH_CONNECT_RETRIES must be >= 1")
	}
	if c.ConnectRetryDelay < 0 {
		return errors.New("SNITCH_CONNECT_RETRY_DELAY must be >= 0")
	}
	if c.ConnectMaxJitter < 0 {
		return errors.New("SNITCH_CONNECT_MAX_JITTER must be >= 0")
	}
	if c.TopQueries < 1 {
		return errors.New("SNITCH_TOP_QUERIES must be >= 1")
	}
	if !c.TrustedConnection && c.User == "" {
		return errors.New("SNITCH_USER is required when trusted connection is disabled")
	}
	if c.UplinkEnabled {
		if strings.TrimSpace(c.UplinkGRPCAddr) == "" {
			return errors.New("SNITCH_UPLINK_GRPC_ADDR is required when uplink is enabled")
		}
		if strings.TrimSpace(c.UplinkMethod) == "" {
			return errors.New("SNITCH_UPLINK_REPORT_METHOD is required when uplink is enabled")
		}
	}
	return nil
}

func (c Config) TLSConfig() (*tls.Config, error) {
	if !c.TLSEnabled {
		return nil, nil
	}
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: c.TLSSkipVerify}
	if c.TLSCAPath != "" {
		caBytes, err := os.ReadFile(c.TLSCAPath)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, errors.New("append CA cert failed")
		}
		tlsCfg.RootCAs = pool
	}
	if c.TLSCertPath != "" || c.TLSKeyPath != "" {
		if c.TLSCertPath == "" || c.TLSKeyPath == "" {
			return nil, errors.New("both TLS cert and key are required")
		}
		crt, err := tls.LoadX509KeyPair(c.TLSCertPath, c.TLSKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load mTLS cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{crt}
	}
	return tlsCfg, nil
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
