package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by VOXTRAL_BACKEND.
const (
	BackendExec    = "exec"
	BackendMistral = "mistral"
)

// ServerConfig holds everything the serve command needs. CLI flags take
// priority over environment variables, which take priority over the
// defaults below.
type ServerConfig struct {
	Host     string
	Port     int
	Reload   bool
	LogLevel string
	LogFile  string

	Backend    string
	RunnerPath string
	ModelID    string

	MistralAPIKey  string
	MistralBaseURL string

	TempDir string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are fine; system-wide environment variables may already
// be set.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// FromEnv builds a ServerConfig from environment variables with defaults
// matching the original deployment.
func FromEnv() *ServerConfig {
	return &ServerConfig{
		Host:     getEnvOrDefault("VOXTRAL_HOST", "0.0.0.0"),
		Port:     8080,
		LogLevel: getEnvOrDefault("VOXTRAL_LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("VOXTRAL_LOG_FILE", "voxtral_server.log"),

		Backend:    getEnvOrDefault("VOXTRAL_BACKEND", BackendExec),
		RunnerPath: getEnvOrDefault("VOXTRAL_RUNNER", "voxtral-runner"),
		ModelID:    getEnvOrDefault("VOXTRAL_MODEL_ID", "mistralai/Voxtral-Mini-3B-2507"),

		MistralAPIKey:  strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")),
		MistralBaseURL: os.Getenv("MISTRAL_BASE_URL"),

		TempDir: os.Getenv("VOXTRAL_TEMP_DIR"),

		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
}

// Validate fails fast on configuration the process cannot start with.
// This is the fatal startup class of errors; a backend that validates
// here can still fail to initialize later without killing the process.
func (c *ServerConfig) Validate() error {
	switch c.Backend {
	case BackendExec:
		if c.RunnerPath == "" {
			return fmt.Errorf("VOXTRAL_RUNNER must not be empty for the exec backend")
		}
	case BackendMistral:
		// API key absence is an initialization failure, not a config error.
	default:
		return fmt.Errorf("unknown backend %q: must be one of %s, %s", c.Backend, BackendExec, BackendMistral)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warning, error", c.LogLevel)
	}

	return nil
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
