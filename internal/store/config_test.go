package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, "video:\n  channel_id: UCtest\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Video.Query != "PRE MERCADO |" {
		t.Errorf("expected default query 'PRE MERCADO |', got %q", cfg.Video.Query)
	}
	if cfg.Video.MaxResults != 5 {
		t.Errorf("expected default max_results 5, got %d", cfg.Video.MaxResults)
	}
	if cfg.Market.LookbackDays != 30 {
		t.Errorf("expected default lookback_days 30, got %d", cfg.Market.LookbackDays)
	}
	if cfg.Storage.Bucket != "portfolio-files" {
		t.Errorf("expected default bucket 'portfolio-files', got %q", cfg.Storage.Bucket)
	}
	if cfg.Storage.BasePrefix != "Informes" {
		t.Errorf("expected default base_prefix 'Informes', got %q", cfg.Storage.BasePrefix)
	}
	if cfg.Delays.TickerSeconds != 15 || cfg.Delays.ClientSeconds != 30 {
		t.Errorf("expected default delays 15/30, got %d/%d",
			cfg.Delays.TickerSeconds, cfg.Delays.ClientSeconds)
	}
}

func TestLoadConfigInvalidWeekday(t *testing.T) {
	path := writeTempConfig(t, "video:\n  channel_id: UCtest\n  weekly_weekdays: [funday]\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid weekday, got nil")
	}
}

func TestWeeklyWeekdaySet(t *testing.T) {
	var cfg Config
	cfg.Video.WeeklyWeekdays = []string{"fri", "MON"}

	set := cfg.WeeklyWeekdaySet()
	if !set[time.Friday] || !set[time.Monday] {
		t.Errorf("expected Friday and Monday enabled, got %v", set)
	}
	if set[time.Tuesday] {
		t.Error("Tuesday should not be enabled")
	}
}

func TestCredentialsMissing(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		requireDB bool
		want      int
	}{
		{"all present", Credentials{
			YouTubeAPIKey: "y", GeminiAPIKey: "g",
			SupabaseURL: "https://x.supabase.co", SupabaseAnonKey: "k",
			DatabaseURL: "postgres://",
		}, true, 0},
		{"everything absent", Credentials{}, true, 5},
		{"db optional in demo mode", Credentials{
			YouTubeAPIKey: "y", GeminiAPIKey: "g",
			SupabaseURL: "https://x.supabase.co", SupabaseServiceRole: "k",
		}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing := tt.creds.Missing(tt.requireDB)
			if len(missing) != tt.want {
				t.Errorf("expected %d missing, got %d: %v", tt.want, len(missing), missing)
			}
		})
	}
}

func TestStorageKeyPrefersServiceRole(t *testing.T) {
	cr := Credentials{SupabaseAnonKey: "anon", SupabaseServiceRole: "service"}
	if got := cr.StorageKey(); got != "service" {
		t.Errorf("expected service role key, got %q", got)
	}
	cr.SupabaseServiceRole = ""
	if got := cr.StorageKey(); got != "anon" {
		t.Errorf("expected anon key, got %q", got)
	}
}
