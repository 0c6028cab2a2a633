package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration: defaults, then the optional YAML file at
// path (with ${VAR} expansion), then environment variable overrides.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand ${VAR} environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields from the process environment.
// Variable names follow the original deployment (APP_PORT, ROOT_PATH, DB_*).
func (c *Config) applyEnv() error {
	setString("APP_HOST", &c.Server.Host)
	setString("ROOT_PATH", &c.Server.RootPath)
	setString("API_TOKEN", &c.GRPC.APIToken)
	setString("IPCA_SOURCE", &c.Source.Kind)
	setString("IPCA_SERIES_START", &c.Source.SeriesStart)
	setString("IPEA_BASE_URL", &c.Source.IPEA.BaseURL)
	setString("DB_CONN_STR", &c.Source.Postgres.ConnStr)
	setString("DB_HOST", &c.Source.Postgres.Host)
	setString("DB_USER", &c.Source.Postgres.User)
	setString("DB_PASSWORD", &c.Source.Postgres.Password)
	setString("DB_NAME", &c.Source.Postgres.Name)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)
	setList("CORS_ORIGINS", &c.Server.CORSOrigins)

	ints := []struct {
		name string
		dst  *int
	}{
		{"APP_PORT", &c.Server.Port},
		{"GRPC_PORT", &c.GRPC.Port},
		{"DB_PORT", &c.Source.Postgres.Port},
		{"IPCA_LOAD_ATTEMPTS", &c.Source.LoadAttempts},
		{"RATE_LIMIT_PER_MINUTE", &c.RateLimit.RequestsPerMinute},
	}
	for _, v := range ints {
		if err := setInt(v.name, v.dst); err != nil {
			return err
		}
	}

	if err := setBool("GRPC_ENABLED", &c.GRPC.Enabled); err != nil {
		return err
	}
	return setBool("COMPRESSION", &c.Server.Compression)
}

func setString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func setList(name string, dst *[]string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func setInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = n
	return nil
}

func setBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = b
	return nil
}
