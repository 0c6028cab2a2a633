package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/simaogato/ipca-api/internal/domain"
)

// Validate checks the configuration for values the process cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RootPath != "" && !strings.HasPrefix(c.Server.RootPath, "/") {
		errs = append(errs, fmt.Errorf("server.root_path %q must start with /", c.Server.RootPath))
	}
	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		errs = append(errs, fmt.Errorf("grpc.port %d out of range", c.GRPC.Port))
	}
	if c.GRPC.Enabled && c.GRPC.Port == c.Server.Port {
		errs = append(errs, errors.New("grpc.port must differ from server.port"))
	}

	switch c.Source.Kind {
	case SourceIPEA:
		if c.Source.IPEA.BaseURL == "" {
			errs = append(errs, errors.New("source.ipea.base_url is required"))
		}
	case SourcePostgres:
		if c.Source.Postgres.ConnStr == "" && c.Source.Postgres.Host == "" {
			errs = append(errs, errors.New("source.postgres needs conn_str or host"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q must be %q or %q", c.Source.Kind, SourceIPEA, SourcePostgres))
	}
	if c.Source.LoadAttempts < 1 {
		errs = append(errs, errors.New("source.load_attempts must be at least 1"))
	}
	if _, err := c.Source.StartPeriod(); err != nil {
		errs = append(errs, err)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("rate_limit.requests_per_minute must not be negative"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	return errors.Join(errs...)
}

// StartPeriod parses SeriesStart. An empty value means no lower bound.
func (s SourceConfig) StartPeriod() (domain.Period, error) {
	if s.SeriesStart == "" {
		return domain.Period{}, nil
	}
	monthStr, yearStr, ok := strings.Cut(s.SeriesStart, "/")
	if !ok {
		return domain.Period{}, fmt.Errorf("source.series_start %q must be MM/YYYY", s.SeriesStart)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return domain.Period{}, fmt.Errorf("source.series_start %q has an invalid month", s.SeriesStart)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		return domain.Period{}, fmt.Errorf("source.series_start %q has an invalid year", s.SeriesStart)
	}
	return domain.NewPeriod(month, year), nil
}

// DSN returns the lib/pq connection string
func (p PostgresConfig) DSN() string {
	if p.ConnStr != "" {
		return p.ConnStr
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SSLMode)
}

// Addr returns the HTTP listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Addr returns the gRPC listen address
func (g GRPCConfig) Addr() string {
	return fmt.Sprintf(":%d", g.Port)
}

// SlogLevel maps the configured level name to a slog.Level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}
