package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"VOXTRAL_HOST", "VOXTRAL_LOG_LEVEL", "VOXTRAL_LOG_FILE",
		"VOXTRAL_BACKEND", "VOXTRAL_RUNNER", "VOXTRAL_MODEL_ID",
		"MISTRAL_API_KEY", "MISTRAL_BASE_URL", "VOXTRAL_TEMP_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "voxtral_server.log", cfg.LogFile)
	assert.Equal(t, BackendExec, cfg.Backend)
	assert.Equal(t, "voxtral-runner", cfg.RunnerPath)
	assert.Equal(t, "mistralai/Voxtral-Mini-3B-2507", cfg.ModelID)
	assert.Empty(t, cfg.MistralAPIKey)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("VOXTRAL_HOST", "127.0.0.1")
	t.Setenv("VOXTRAL_LOG_LEVEL", "debug")
	t.Setenv("VOXTRAL_BACKEND", BackendMistral)
	t.Setenv("MISTRAL_API_KEY", "  sk-test  ")

	cfg := FromEnv()

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendMistral, cfg.Backend)
	assert.Equal(t, "sk-test", cfg.MistralAPIKey, "API key should be trimmed")
}

func TestValidate(t *testing.T) {
	valid := func() *ServerConfig {
		return &ServerConfig{
			Port:       8080,
			LogLevel:   "info",
			Backend:    BackendExec,
			RunnerPath: "voxtral-runner",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid exec", func(c *ServerConfig) {}, ""},
		{"valid mistral without key", func(c *ServerConfig) {
			c.Backend = BackendMistral
			c.RunnerPath = ""
		}, ""},
		{"unknown backend", func(c *ServerConfig) { c.Backend = "whisper" }, "unknown backend"},
		{"empty runner for exec", func(c *ServerConfig) { c.RunnerPath = "" }, "VOXTRAL_RUNNER"},
		{"port too low", func(c *ServerConfig) { c.Port = 0 }, "invalid port"},
		{"port too high", func(c *ServerConfig) { c.Port = 70000 }, "invalid port"},
		{"bad log level", func(c *ServerConfig) { c.LogLevel = "verbose" }, "invalid log level"},
		{"warning level accepted", func(c *ServerConfig) { c.LogLevel = "warning" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
