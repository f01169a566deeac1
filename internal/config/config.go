// internal/config/config.go
//
// Runtime configuration for every riddler command.
//
// Layering (later wins):
//   1. Built-in defaults (Default).
//   2. Optional YAML file passed with --config.
//   3. Environment variables (a .env file is loaded by main first).
//   4. Command-line flags, applied by the cobra commands.
//
// Environment variables:
//   RIDDLER_SAVE_FILE      save slot path (default riddler_save.json)
//   RIDDLER_PROVIDER       openai | gemini | scripted (default openai)
//   OPENAI_API_KEY         required for the openai provider
//   OPENAI_BASE_URL        any OpenAI-compatible endpoint
//   RIDDLER_OPENAI_MODEL   default gpt-4o
//   GEMINI_API_KEY         required for the gemini provider
//   RIDDLER_GEMINI_MODEL   default gemini-2.0-flash
//   RIDDLER_TEMPERATURE    default 0.9
//   RIDDLER_TIMEOUT        per-request timeout (default 60s)
//   RIDDLER_PROMPTS_FILE   YAML overlay for the guardian prompts
//   RIDDLER_RECORDS_DB     SQLite ledger path, "off" disables it
//   PORT                   HTTP port for `riddler serve` (default 5175)
//   CLIENT_ORIGIN          CORS origin for `riddler serve` (unset = no CORS)
//   LOG_LEVEL              zerolog level (default warn)
package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/riddler/internal/completion"
	"github.com/robalobadob/riddler/internal/prompts"
)

const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderScripted = "scripted"

	// RecordsOff disables the solve ledger.
	RecordsOff = "off"
)

type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type Gemini struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Config holds all application configuration.
type Config struct {
	SaveFile    string        `yaml:"save_file"`
	Provider    string        `yaml:"provider"`
	OpenAI      OpenAI        `yaml:"openai"`
	Gemini      Gemini        `yaml:"gemini"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	PromptsFile string        `yaml:"prompts_file"`
	RecordsDB   string        `yaml:"records_db"`
	Port        string        `yaml:"port"`
	Origin      string        `yaml:"client_origin"`
	LogLevel    string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		SaveFile:    "riddler_save.json",
		Provider:    ProviderOpenAI,
		OpenAI:      OpenAI{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o"},
		Gemini:      Gemini{Model: "gemini-2.0-flash"},
		Temperature: 0.9,
		Timeout:     60 * time.Second,
		RecordsDB:   "riddler_records.db",
		Port:        "5175",
		LogLevel:    "warn",
	}
}

// Load builds a Config from defaults, the optional YAML file at path and the
// environment. It does not validate; commands call Validate after applying
// their flags.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "config: read %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "config: parse %s", path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.SaveFile = getEnv("RIDDLER_SAVE_FILE", c.SaveFile)
	c.Provider = strings.ToLower(getEnv("RIDDLER_PROVIDER", c.Provider))
	c.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.Model = getEnv("RIDDLER_OPENAI_MODEL", c.OpenAI.Model)
	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = getEnv("RIDDLER_GEMINI_MODEL", c.Gemini.Model)
	c.PromptsFile = getEnv("RIDDLER_PROMPTS_FILE", c.PromptsFile)
	c.RecordsDB = getEnv("RIDDLER_RECORDS_DB", c.RecordsDB)
	c.Port = getEnv("PORT", c.Port)
	c.Origin = getEnv("CLIENT_ORIGIN", c.Origin)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if v := getEnv("RIDDLER_TEMPERATURE", ""); v != "" {
		t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return errors.Wrap(err, "config: RIDDLER_TEMPERATURE")
		}
		c.Temperature = t
	}
	if v := getEnv("RIDDLER_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(err, "config: RIDDLER_TIMEOUT")
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.SaveFile == "" {
		return errors.New("RIDDLER_SAVE_FILE cannot be empty")
	}
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY must be set for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return errors.New("GEMINI_API_KEY must be set for the gemini provider")
		}
	case ProviderScripted:
	default:
		return errors.Errorf("unknown provider %q (want openai, gemini or scripted)", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.Errorf("temperature %.2f out of range [0,2]", c.Temperature)
	}
	if c.Timeout <= 0 {
		return errors.New("RIDDLER_TIMEOUT must be > 0")
	}
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	return nil
}

// RecordsEnabled reports whether the solve ledger should be opened.
func (c *Config) RecordsEnabled() bool {
	return c.RecordsDB != "" && !strings.EqualFold(c.RecordsDB, RecordsOff)
}

// Prompts loads the guardian prompt set, overlaying PromptsFile if set.
func (c *Config) Prompts() (*prompts.Set, error) {
	return prompts.Load(c.PromptsFile)
}

// Completer builds the backend selected by Provider.
func (c *Config) Completer(ctx context.Context, p *prompts.Set) (completion.Completer, error) {
	switch c.Provider {
	case ProviderOpenAI:
		return completion.NewOpenAI(completion.OpenAIConfig{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			Temperature: c.Temperature,
			Timeout:     c.Timeout,
			Preamble:    p.Preamble,
		}), nil
	case ProviderGemini:
		return completion.NewGemini(ctx, completion.GeminiConfig{
			APIKey:      c.Gemini.APIKey,
			Model:       c.Gemini.Model,
			Temperature: c.Temperature,
			Timeout:     c.Timeout,
			Preamble:    p.Preamble,
		})
	case ProviderScripted:
		return completion.NewOffline(p.HintCode), nil
	}
	return nil, errors.Errorf("unknown provider %q", c.Provider)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
