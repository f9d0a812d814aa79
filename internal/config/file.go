package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML overlay schema. Every field is a pointer so that
// only keys present in the file override the environment-derived values.
// Durations are Go duration strings ("5s", "750ms").
type fileConfig struct {
	Server            *string           `yaml:"server"`
	Database          *string           `yaml:"database"`
	User              *string           `yaml:"user"`
	Password          *string           `yaml:"password"`
	TrustedConnection *bool             `yaml:"trusted_connection"`
	ConnectRetries    *int              `yaml:"connect_retries"`
	ConnectRetryDelay *string           `yaml:"connect_retry_delay"`
	ConnectMaxJitter  *string           `yaml:"connect_max_jitter"`
	TopQueries        *int              `yaml:"top_queries"`
	LogJSON           *bool             `yaml:"log_json"`
	LogLevel          *string           `yaml:"log_level"`
	Uplink            *uplinkFileConfig `yaml:"uplink"`
}

type uplinkFileConfig struct {
	Enabled       *bool   `yaml:"enabled"`
	GRPCAddr      *string `yaml:"grpc_addr"`
	Token         *string `yaml:"token"`
	ReportMethod  *string `yaml:"report_method"`
	TLSEnabled    *bool   `yaml:"tls_enabled"`
	TLSSkipVerify *bool   `yaml:"tls_skip_verify"`
	TLSCAPath     *string `yaml:"tls_ca_path"`
	TLSCertPath   *string `yaml:"tls_cert_path"`
	TLSKeyPath    *string `yaml:"tls_key_path"`
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Server, fc.Server)
	setString(&c.Database, fc.Database)
	setString(&c.User, fc.User)
	setString(&c.Password, fc.Password)
	setBool(&c.TrustedConnection, fc.TrustedConnection)
	setInt(&c.ConnectRetries, fc.ConnectRetries)
	if err := setDuration(&c.ConnectRetryDelay, fc.ConnectRetryDelay); err != nil {
		return fmt.Errorf("config file %s: connect_retry_delay: %w", path, err)
	}
	if err := setDuration(&c.ConnectMaxJitter, fc.ConnectMaxJitter); err != nil {
		return fmt.Errorf("config file %s: connect_max_jitter: %w", path, err)
	}
	setInt(&c.TopQueries, fc.TopQueries)
	setBool(&c.LogJSON, fc.LogJSON)
	setString(&c.LogLevel, fc.LogLevel)

	if u := fc.Uplink; u != nil {
		setBool(&c.UplinkEnabled, u.Enabled)
		setString(&c.UplinkGRPCAddr, u.GRPCAddr)
		setString(&c.UplinkToken, u.Token)
		setString(&c.UplinkMethod, u.ReportMethod)
		setBool(&c.TLSEnabled, u.TLSEnabled)
		setBool(&c.TLSSkipVerify, u.TLSSkipVerify)
		setString(&c.TLSCAPath, u.TLSCAPath)
		setString(&c.TLSCertPath, u.TLSCertPath)
		setString(&c.TLSKeyPath, u.TLSKeyPath)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
