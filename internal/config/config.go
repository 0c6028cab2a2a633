package config

import "time"

// Source kinds
const (
	SourceIPEA     = "ipea"
	SourcePostgres = "postgres"
)

// Config is the root configuration for the API process
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Source    SourceConfig    `yaml:"source"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RootPath        string        `yaml:"root_path"` // Prefix when served behind a reverse proxy
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Compression     bool          `yaml:"compression"`
	CORSOrigins     []string      `yaml:"cors_origins"` // Empty disables CORS headers
}

// GRPCConfig holds the gRPC listener settings
type GRPCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Port     int    `yaml:"port"`
	APIToken string `yaml:"api_token"` // Empty disables the auth interceptor
}

// SourceConfig selects and configures the series provider
type SourceConfig struct {
	Kind         string         `yaml:"kind"`
	SeriesStart  string         `yaml:"series_start"` // MM/YYYY; earlier points are dropped
	LoadAttempts int            `yaml:"load_attempts"`
	LoadDelay    time.Duration  `yaml:"load_delay"`
	LoadMaxDelay time.Duration  `yaml:"load_max_delay"`
	IPEA         IPEAConfig     `yaml:"ipea"`
	Postgres     PostgresConfig `yaml:"postgres"`
}

// IPEAConfig holds IPEA data service settings
type IPEAConfig struct {
	BaseURL    string        `yaml:"base_url"`
	SeriesCode string        `yaml:"series_code"`
	Timeout    time.Duration `yaml:"timeout"`
}

// PostgresConfig holds the connection for the postgres source
type PostgresConfig struct {
	ConnStr  string `yaml:"conn_str"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RateLimitConfig holds the per-client request limit
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"` // 0 disables limiting
	Burst             int `yaml:"burst"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}
