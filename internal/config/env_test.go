package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.APIBaseURL == "" {
		t.Error("APIBaseURL should have a default")
	}
	if cfg.OCRBaseURL != cfg.APIBaseURL {
		t.Errorf("OCR url should fall back to the API url, got %q vs %q", cfg.OCRBaseURL, cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("default timeout %s, want 30s", cfg.HTTPTimeout)
	}
	if cfg.SessionDBPath == "" {
		t.Error("session db path should have a default")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("EXPENSYNC_API_URL", "https://api.example.com/")
	t.Setenv("EXPENSYNC_OCR_URL", "https://ocr.example.com")
	t.Setenv("EXPENSYNC_HTTP_TIMEOUT", "5s")

	cfg := LoadConfig()
	if cfg.APIBaseURL != "https://api.example.com/" {
		t.Errorf("APIBaseURL %q", cfg.APIBaseURL)
	}
	if cfg.OCRBaseURL != "https://ocr.example.com" {
		t.Errorf("OCRBaseURL %q", cfg.OCRBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("timeout %s, want 5s", cfg.HTTPTimeout)
	}
}

func TestGetEnvDuration_BadValue(t *testing.T) {
	t.Setenv("EXPENSYNC_HTTP_TIMEOUT", "soon")
	if d := getEnvDuration("EXPENSYNC_HTTP_TIMEOUT", 30*time.Second); d != 30*time.Second {
		t.Errorf("bad duration should fall back to default, got %s", d)
	}
}
