package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings normalizes driver names

	"github.com/joho/godotenv" // godotenv loads an optional .env file
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database settings that do not apply to the
// selected driver are left empty.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	LogLevel string // zap log level
	DBDriver string // sqlite | mysql | postgres
	DBPath   string // sqlite database file
	DBUser   string // database username
	DBPass   string // database password (optional)
	DBHost   string // database host address
	DBPort   string // database port number
	DBName   string // database name
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is loaded first when it
// exists; variables already set in the environment win.  Server databases
// require their connection variables and missing values cause the program
// to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:      envStr("APP_ENV", "dev"),
		Port:     envStr("APP_PORT", "3000"),
		LogLevel: envStr("LOG_LEVEL", "info"),
		DBDriver: strings.ToLower(envStr("DB_DRIVER", "sqlite")),
	}
	switch cfg.DBDriver {
	case "sqlite":
		cfg.DBPath = envStr("DB_PATH", "cafes.db")
	case "mysql", "postgres":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// IsProd reports whether the application runs in production.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
