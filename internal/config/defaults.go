package config

import "time"

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Compression:     true,
			CORSOrigins:     []string{"*"},
		},
		GRPC: GRPCConfig{
			Enabled: true,
			Port:    8080,
		},
		Source: SourceConfig{
			Kind:         SourceIPEA,
			SeriesStart:  "12/1993",
			LoadAttempts: 5,
			LoadDelay:    2 * time.Second,
			LoadMaxDelay: 30 * time.Second,
			IPEA: IPEAConfig{
				BaseURL:    "http://www.ipeadata.gov.br/api/odata4",
				SeriesCode: "PRECOS12_IPCA12",
				Timeout:    60 * time.Second,
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Password: "postgres",
				Name:     "ipca",
				SSLMode:  "disable",
			},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
