package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "APP_HOST", "APP_PORT", "LOG_LEVEL", "LOG_DIR",
		"CAMERA_CONNECT_TIMEOUT", "CAMERA_READ_TIMEOUT", "SNAPSHOT_TIMEOUT", "STREAM_TIMEOUT", "PROBE_TIMEOUT", "ANALYZE_TIMEOUT",
		"MAX_FRAME_SIZE", "PREVIEW_MAX_WIDTH", "PREVIEW_QUALITY", "LIVE_INTERVAL", "RATE_LIMIT", "RATE_BURST",
		"SMTP_HOST", "SMTP_PORT", "SMTP_MAIL", "SMTP_PASSWORD", "REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "PROBE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadAppConfig()
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg != DefaultAppConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if cfg.MaxFrameSize != 8*1024*1024 || cfg.PreviewQuality != 80 || cfg.ProbeTimeout != 6*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadAppConfig_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "8081")
	t.Setenv("ANALYZE_TIMEOUT", "3s")
	t.Setenv("MAX_FRAME_SIZE", "1024")
	t.Setenv("RATE_LIMIT", "0.5")
	t.Setenv("SMTP_MAIL", "ops@example.com")
	t.Setenv("PROBE_CACHE_TTL", "1h")

	cfg, err := LoadAppConfig()
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Port != "8081" || cfg.AnalyzeTimeout != 3*time.Second || cfg.MaxFrameSize != 1024 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.RateLimit != 0.5 || cfg.SMTPUser != "ops@example.com" || cfg.ProbeCacheTTL != time.Hour {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Address() != "0.0.0.0:8081" {
		t.Errorf("Address = %s", cfg.Address())
	}
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"ANALYZE_TIMEOUT", "soon", "ANALYZE_TIMEOUT"},
		{"MAX_FRAME_SIZE", "big", "MAX_FRAME_SIZE"},
		{"MAX_FRAME_SIZE", "-1", "MAX_FRAME_SIZE"},
		{"PREVIEW_QUALITY", "101", "PREVIEW_QUALITY"},
		{"LIVE_INTERVAL", "500ms", "LIVE_INTERVAL"},
		{"RATE_LIMIT", "fast", "RATE_LIMIT"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadAppConfig()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}
