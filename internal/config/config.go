package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Backend names accepted by LLM_BACKEND.
const (
	BackendGroq   = "groq"
	BackendOllama = "ollama"
)

// Generation modes accepted by GEN_MODE. The strings mirror the generator
// package's mode constants; config stays at the bottom of the import graph.
const (
	ModeSingle = "single"
	ModeStaged = "staged"
)

type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type LLMConfig struct {
	Backend     string
	APIKey      string
	BaseURL     string
	VisionModel string
	TextModel   string
	Mode        string
	Platform    string
}

type AppConfig struct {
	MaxUploadSize  int64
	SendMaxSide    int
	SendQuality    int
	PreviewSide    int
	PreviewQuality int
}

// Load reads configuration from environment variables with sensible
// defaults. The API key has no default; Validate rejects a missing key for
// the hosted backend so the process fails at startup rather than on the
// first upload.
func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LLM_BACKEND", BackendGroq)
	viper.SetDefault("LLM_BASE_URL", "")
	viper.SetDefault("LLM_VISION_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct")
	viper.SetDefault("LLM_TEXT_MODEL", "")
	viper.SetDefault("GEN_MODE", ModeSingle)
	viper.SetDefault("PLATFORM", "Instagram")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("APP_SEND_MAX_SIDE", 1536)
	viper.SetDefault("APP_SEND_QUALITY", 85)
	viper.SetDefault("APP_PREVIEW_SIDE", 640)
	viper.SetDefault("APP_PREVIEW_QUALITY", 80)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		LLM: LLMConfig{
			Backend:     viper.GetString("LLM_BACKEND"),
			APIKey:      viper.GetString("GROQ_API_KEY"),
			BaseURL:     viper.GetString("LLM_BASE_URL"),
			VisionModel: viper.GetString("LLM_VISION_MODEL"),
			TextModel:   viper.GetString("LLM_TEXT_MODEL"),
			Mode:        viper.GetString("GEN_MODE"),
			Platform:    viper.GetString("PLATFORM"),
		},
		App: AppConfig{
			MaxUploadSize:  viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			SendMaxSide:    viper.GetInt("APP_SEND_MAX_SIDE"),
			SendQuality:    viper.GetInt("APP_SEND_QUALITY"),
			PreviewSide:    viper.GetInt("APP_PREVIEW_SIDE"),
			PreviewQuality: viper.GetInt("APP_PREVIEW_QUALITY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	switch c.LLM.Backend {
	case BackendGroq:
		if c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
			return fmt.Errorf("GROQ_API_KEY is not set; the hosted backend cannot be used without it")
		}
	case BackendOllama:
		// Local backend, no key required.
	default:
		return fmt.Errorf("unknown LLM_BACKEND %q (use %q or %q)", c.LLM.Backend, BackendGroq, BackendOllama)
	}

	if c.LLM.Mode != ModeSingle && c.LLM.Mode != ModeStaged {
		return fmt.Errorf("GEN_MODE must be %q or %q, got %q", ModeSingle, ModeStaged, c.LLM.Mode)
	}

	if c.App.MaxUploadSize < 1 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive")
	}

	if c.App.SendQuality < 1 || c.App.SendQuality > 100 {
		return fmt.Errorf("APP_SEND_QUALITY must be between 1 and 100")
	}

	if c.App.PreviewQuality < 1 || c.App.PreviewQuality > 100 {
		return fmt.Errorf("APP_PREVIEW_QUALITY must be between 1 and 100")
	}

	return nil
}
