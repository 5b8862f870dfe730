package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3001" {
		t.Fatalf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("mode/level = %q/%q", cfg.GinMode, cfg.LogLevel)
	}
	if cfg.Scanner.PollInterval != time.Second || cfg.Scanner.MaxWait != 60*time.Second {
		t.Fatalf("scan bounds = %v/%v", cfg.Scanner.PollInterval, cfg.Scanner.MaxWait)
	}
	if cfg.WriteTimeout <= cfg.Scanner.MaxWait {
		t.Fatalf("default WriteTimeout %v must exceed MaxWait %v", cfg.WriteTimeout, cfg.Scanner.MaxWait)
	}
	if cfg.Email.ReceiptTTL != 24*time.Hour {
		t.Fatalf("ReceiptTTL = %v", cfg.Email.ReceiptTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("GIN_MODE", "bogus")    // normalized to release
	t.Setenv("SCAN_POLL_INTERVAL", "250ms")
	t.Setenv("SCAN_MAX_WAIT", "10s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "warn" || cfg.GinMode != "release" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Scanner.PollInterval != 250*time.Millisecond || cfg.Scanner.MaxWait != 10*time.Second {
		t.Fatalf("scan bounds = %v/%v", cfg.Scanner.PollInterval, cfg.Scanner.MaxWait)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("CORS origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_WriteTimeoutMustCoverScans(t *testing.T) {
	t.Setenv("WRITE_TIMEOUT", "30s")
	t.Setenv("SCAN_MAX_WAIT", "60s")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "WRITE_TIMEOUT") {
		t.Fatalf("expected WRITE_TIMEOUT validation error, got %v", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct{ key, val string }{
		{"LOG_LEVEL", "verbose"},
		{"READ_TIMEOUT", "-1s"},
		{"SCAN_POLL_INTERVAL", "-1s"},
		{"RATE_BURST", "0"},
		{"OTEL_TRACES_SAMPLER_ARG", "2"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.key, tc.val)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustLoad()
}
