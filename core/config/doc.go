// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/SinArtur/Sstu-DB/core/config"
//
//	type Config struct {
//		BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
//		Timeout time.Duration `env:"API_TIMEOUT" envDefault:"60s"`
//	}
//
//	func main() {
//		var cfg Config
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process:
//
//	var cfg1 client.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 client.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Nested structs are parsed recursively, so a command can compose the Config types
// exported by the packages it wires (client.Config, redis.Config, pg.Config...).
package config
