package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var llmEnvVars = []string{
	"SKILLBUILDER_LLM_PROVIDER",
	"SKILLBUILDER_ANTHROPIC_API_KEY", "SKILLBUILDER_ANTHROPIC_MODEL",
	"SKILLBUILDER_OPENAI_API_KEY", "SKILLBUILDER_OPENAI_MODEL", "SKILLBUILDER_OPENAI_BASE_URL",
	"SKILLBUILDER_GEMINI_API_KEY", "SKILLBUILDER_GEMINI_MODEL",
	"SKILLBUILDER_OPENROUTER_API_KEY", "SKILLBUILDER_OPENROUTER_MODEL",
	"SKILLBUILDER_LLM_TIMEOUT", "SKILLBUILDER_LLM_RETRIES",
	"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "API_KEY",
}

// clearLLMEnv blanks every variable the config reads so tests do not pick
// up the developer's real keys.
func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range llmEnvVars {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig_SingleAttempt(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "gemini", cfg.Provider)
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("SKILLBUILDER_LLM_PROVIDER", "openai")
	t.Setenv("SKILLBUILDER_OPENAI_API_KEY", "sk-test")
	t.Setenv("SKILLBUILDER_OPENAI_MODEL", "gpt-4o")
	t.Setenv("SKILLBUILDER_LLM_TIMEOUT", "5s")
	t.Setenv("SKILLBUILDER_LLM_RETRIES", "3")

	cfg := ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_IgnoresBadValues(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("SKILLBUILDER_LLM_TIMEOUT", "soon")
	t.Setenv("SKILLBUILDER_LLM_RETRIES", "0")

	cfg := ConfigFromEnv()
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
}

func TestDiscoverConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
		found    bool
	}{
		{"nothing set", nil, "", false},
		{"gemini", map[string]string{"GEMINI_API_KEY": "g"}, "gemini", true},
		{"openai", map[string]string{"OPENAI_API_KEY": "o"}, "openai", true},
		{"anthropic", map[string]string{"ANTHROPIC_API_KEY": "a"}, "anthropic", true},
		{"openrouter", map[string]string{"OPENROUTER_API_KEY": "r"}, "openrouter", true},
		{"bare API_KEY is gemini", map[string]string{"API_KEY": "k"}, "gemini", true},
		{"gemini wins over openai", map[string]string{"OPENAI_API_KEY": "o", "GEMINI_API_KEY": "g"}, "gemini", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLLMEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, ok := DiscoverConfig()
			require.Equal(t, tt.found, ok)
			assert.Equal(t, tt.provider, cfg.Provider)
			if ok {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("explicit settings win", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("SKILLBUILDER_LLM_PROVIDER", "mock")
		t.Setenv("GEMINI_API_KEY", "g")

		cfg, ok := ResolveConfig()
		require.True(t, ok)
		assert.Equal(t, "mock", cfg.Provider)
	})

	t.Run("falls back to discovery", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("SKILLBUILDER_LLM_TIMEOUT", "2s")

		cfg, ok := ResolveConfig()
		require.True(t, ok)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, "k", cfg.Gemini.APIKey)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
	})

	t.Run("explicit provider without key is not discovered around", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("SKILLBUILDER_LLM_PROVIDER", "anthropic")
		t.Setenv("GEMINI_API_KEY", "g")

		_, ok := ResolveConfig()
		assert.False(t, ok)
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearLLMEnv(t)
		_, ok := ResolveConfig()
		assert.False(t, ok)
	})
}
