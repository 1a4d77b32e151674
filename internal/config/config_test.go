package config

import (
	"testing"

	"github.com/tkaric/postgen/pkg/generator"
)

func TestModeStringsMatchGenerator(t *testing.T) {
	if ModeSingle != generator.ModeSingle {
		t.Errorf("ModeSingle %q diverged from generator.ModeSingle %q", ModeSingle, generator.ModeSingle)
	}
	if ModeStaged != generator.ModeStaged {
		t.Errorf("ModeStaged %q diverged from generator.ModeStaged %q", ModeStaged, generator.ModeStaged)
	}
}

func TestLoadRequiresAPIKeyForHostedBackend(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LLM_BACKEND", BackendGroq)
	t.Setenv("LLM_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("expected Load to fail without GROQ_API_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.LLM.Backend != BackendGroq {
		t.Errorf("expected default backend %s, got %s", BackendGroq, cfg.LLM.Backend)
	}
	if cfg.LLM.Mode != ModeSingle {
		t.Errorf("expected default mode %s, got %s", ModeSingle, cfg.LLM.Mode)
	}
	if cfg.LLM.Platform != "Instagram" {
		t.Errorf("expected default platform Instagram, got %s", cfg.LLM.Platform)
	}
	if cfg.App.MaxUploadSize != 10*1024*1024 {
		t.Errorf("expected 10MB upload limit, got %d", cfg.App.MaxUploadSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GEN_MODE", ModeStaged)
	t.Setenv("PLATFORM", "LinkedIn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.LLM.Mode != ModeStaged {
		t.Errorf("expected staged mode, got %s", cfg.LLM.Mode)
	}
	if cfg.LLM.Platform != "LinkedIn" {
		t.Errorf("expected LinkedIn, got %s", cfg.LLM.Platform)
	}
}

func TestLoadOllamaBackendNeedsNoKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LLM_BACKEND", BackendOllama)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed for ollama backend: %v", err)
	}
	if cfg.LLM.Backend != BackendOllama {
		t.Errorf("expected ollama backend, got %s", cfg.LLM.Backend)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LLM: LLMConfig{
				Backend: BackendGroq,
				APIKey:  "k",
				Mode:    ModeSingle,
			},
			App: AppConfig{
				MaxUploadSize:  1024,
				SendQuality:    85,
				PreviewQuality: 80,
			},
		}
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c := base()
	c.LLM.Backend = "something-else"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}

	c = base()
	c.LLM.Mode = "parallel"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}

	c = base()
	c.App.SendQuality = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for quality out of range")
	}

	c = base()
	c.App.PreviewQuality = 101
	if err := c.Validate(); err == nil {
		t.Error("expected error for preview quality out of range")
	}

	c = base()
	c.App.MaxUploadSize = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for non-positive upload size")
	}
}
