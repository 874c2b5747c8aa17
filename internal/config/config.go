package config

import (
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/3Titanes/playclips-sample/internal/constants"
	"github.com/3Titanes/playclips-sample/internal/domain"
	"github.com/3Titanes/playclips-sample/internal/util"
	"github.com/3Titanes/playclips-sample/pkg/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	Catalog        CatalogConfig
	HTTP           HTTPConfig
	CircuitBreaker CircuitBreakerConfig
	Verify         VerifyConfig
	Logging        LoggingConfig
}

type CatalogConfig struct {
	BaseURL string
	Quality domain.Quality
	// Seed of the selection source; 0 seeds from the clock.
	Seed uint64
}

type HTTPConfig struct {
	Timeout time.Duration
}

type CircuitBreakerConfig struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}

type VerifyConfig struct {
	Concurrency int
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads an optional .env file, then the environment. The result is not
// validated; callers apply their overrides first and then call Validate.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Catalog: CatalogConfig{
			BaseURL: getEnv("PLAYCLIPS_BASE_URL", constants.CatalogConfig.DefaultBaseURL),
			Quality: domain.Quality(util.Normalize(getEnv("PLAYCLIPS_QUALITY", constants.CatalogConfig.DefaultQuality))),
			Seed:    getEnvUint("PLAYCLIPS_SEED", 0),
		},
		HTTP: HTTPConfig{
			Timeout: getEnvSeconds("PLAYCLIPS_HTTP_TIMEOUT_SECONDS", constants.HTTPConfig.Timeout),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvInt("PLAYCLIPS_CIRCUIT_FAILURE_THRESHOLD", constants.CircuitBreakerConfig.FailureThreshold),
			ResetTimeout:     getEnvSeconds("PLAYCLIPS_CIRCUIT_RESET_SECONDS", constants.CircuitBreakerConfig.ResetTimeout),
		},
		Verify: VerifyConfig{
			Concurrency: getEnvInt("PLAYCLIPS_VERIFY_CONCURRENCY", constants.VerifyConfig.Concurrency),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "warn"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return errors.NewValidationError("PLAYCLIPS_BASE_URL is required", "PLAYCLIPS_BASE_URL", c.Catalog.BaseURL)
	}
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewValidationError("PLAYCLIPS_BASE_URL must be an absolute URL", "PLAYCLIPS_BASE_URL", c.Catalog.BaseURL)
	}
	if !c.Catalog.Quality.IsValid() {
		return errors.NewValidationError("PLAYCLIPS_QUALITY must be one of high, medium, low", "PLAYCLIPS_QUALITY", c.Catalog.Quality)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.NewValidationError("PLAYCLIPS_HTTP_TIMEOUT_SECONDS must be positive", "PLAYCLIPS_HTTP_TIMEOUT_SECONDS", c.HTTP.Timeout)
	}
	if c.CircuitBreaker.FailureThreshold < 0 {
		return errors.NewValidationError("PLAYCLIPS_CIRCUIT_FAILURE_THRESHOLD must not be negative", "PLAYCLIPS_CIRCUIT_FAILURE_THRESHOLD", c.CircuitBreaker.FailureThreshold)
	}
	if c.Verify.Concurrency <= 0 {
		return errors.NewValidationError("PLAYCLIPS_VERIFY_CONCURRENCY must be positive", "PLAYCLIPS_VERIFY_CONCURRENCY", c.Verify.Concurrency)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal) * time.Second
		}
	}
	return defaultValue
}
