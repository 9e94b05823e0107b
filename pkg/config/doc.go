// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//	type Config struct {
//		Endpoint string        `env:"ENDPOINT_URL,required"`
//		Timeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("WAITLIST_")); err != nil {
//		log.Fatal(err)
//	}
//
// Load parses each configuration type once and caches the value copy; use
// Parse for an uncached read and ResetCache in tests. A struct implementing
// Validator is checked after parsing, and a failure is reported as
// ErrInvalidConfig.
package config
