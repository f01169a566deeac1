package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/riddler/internal/completion"
)

var envKeys = []string{
	"RIDDLER_SAVE_FILE", "RIDDLER_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"RIDDLER_OPENAI_MODEL", "GEMINI_API_KEY", "RIDDLER_GEMINI_MODEL", "RIDDLER_TEMPERATURE",
	"RIDDLER_TIMEOUT", "RIDDLER_PROMPTS_FILE", "RIDDLER_RECORDS_DB", "PORT", "CLIENT_ORIGIN", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "riddler_save.json", cfg.SaveFile)
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	require.InDelta(t, 0.9, cfg.Temperature, 1e-9)
	require.True(t, cfg.RecordsEnabled())

	require.Error(t, cfg.Validate(), "openai without a key")
	cfg.Provider = ProviderScripted
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "riddler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
save_file: from-file.json
provider: gemini
gemini:
  api_key: file-key
temperature: 0.5
timeout: 5s
records_db: "off"
`), 0o644))

	t.Setenv("RIDDLER_SAVE_FILE", "from-env.json")
	t.Setenv("RIDDLER_TEMPERATURE", "1.2")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env.json", cfg.SaveFile)
	require.Equal(t, ProviderGemini, cfg.Provider)
	require.Equal(t, "file-key", cfg.Gemini.APIKey)
	require.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model, "unset fields keep defaults")
	require.InDelta(t, 1.2, cfg.Temperature, 1e-9)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.False(t, cfg.RecordsEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("RIDDLER_TIMEOUT", "soon")
	_, err = Load("")
	require.ErrorContains(t, err, "RIDDLER_TIMEOUT")
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Provider = ProviderScripted

	cases := map[string]func(c *Config){
		"unknown provider": func(c *Config) { c.Provider = "llama" },
		"temperature":      func(c *Config) { c.Temperature = 3 },
		"timeout":          func(c *Config) { c.Timeout = 0 },
		"save file":        func(c *Config) { c.SaveFile = "" },
		"port":             func(c *Config) { c.Port = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

func TestCompleter(t *testing.T) {
	cfg := Default()
	p, err := cfg.Prompts()
	require.NoError(t, err)

	cfg.Provider = ProviderScripted
	c, err := cfg.Completer(context.Background(), p)
	require.NoError(t, err)
	require.IsType(t, &completion.Scripted{}, c)

	cfg.Provider = ProviderOpenAI
	cfg.OpenAI.APIKey = "k"
	c, err = cfg.Completer(context.Background(), p)
	require.NoError(t, err)
	require.IsType(t, &completion.OpenAI{}, c)

	cfg.Provider = "nope"
	_, err = cfg.Completer(context.Background(), p)
	require.Error(t, err)
}
