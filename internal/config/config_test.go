package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8080" {
					t.Errorf("expected port 8080, got %s", cfg.Port)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected log level info, got %s", cfg.LogLevel)
				}
				if cfg.DrainTickInterval != time.Second {
					t.Errorf("expected drain tick 1s, got %v", cfg.DrainTickInterval)
				}
				if cfg.DefaultMaxQueueSize != 25 {
					t.Errorf("expected default max queue size 25, got %d", cfg.DefaultMaxQueueSize)
				}
				if cfg.WSReadTimeout != 60*time.Second {
					t.Errorf("expected WSReadTimeout 60s, got %v", cfg.WSReadTimeout)
				}
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"PORT":                   "9000",
				"LOG_LEVEL":              "debug",
				"DRAIN_TICK_MS":          "250",
				"SNAPSHOT_INTERVAL_MS":   "5000",
				"DEFAULT_MAX_QUEUE_SIZE": "10",
				"WS_READ_TIMEOUT":        "30",
				"WS_WRITE_TIMEOUT":       "5",
				"ALLOWED_ORIGINS":        "http://example.com, http://test.com",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("expected port 9000, got %s", cfg.Port)
				}
				if cfg.DrainTickInterval != 250*time.Millisecond {
					t.Errorf("expected drain tick 250ms, got %v", cfg.DrainTickInterval)
				}
				if cfg.SnapshotInterval != 5*time.Second {
					t.Errorf("expected snapshot interval 5s, got %v", cfg.SnapshotInterval)
				}
				if cfg.DefaultMaxQueueSize != 10 {
					t.Errorf("expected default max queue size 10, got %d", cfg.DefaultMaxQueueSize)
				}
				if len(cfg.AllowedOrigins) != 2 {
					t.Fatalf("expected 2 allowed origins, got %d", len(cfg.AllowedOrigins))
				}
				if cfg.AllowedOrigins[1] != "http://test.com" {
					t.Errorf("expected trimmed origin, got %q", cfg.AllowedOrigins[1])
				}
			},
		},
		{
			name: "invalid DRAIN_TICK_MS",
			env: map[string]string{
				"DRAIN_TICK_MS": "abc",
			},
			wantErr: true,
		},
		{
			name: "invalid WS_READ_TIMEOUT",
			env: map[string]string{
				"WS_READ_TIMEOUT": "not-a-number",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer func() {
				for k := range tt.env {
					os.Unsetenv(k)
				}
			}()

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
