package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.WriteTimeout != 120*time.Second {
		t.Errorf("WriteTimeout = %v, want 120s", cfg.WriteTimeout)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want 30s", cfg.FetchTimeout)
	}
	if cfg.FetchRetries != 2 {
		t.Errorf("FetchRetries = %d, want 2", cfg.FetchRetries)
	}
	if cfg.FetchWorkers != 4 {
		t.Errorf("FetchWorkers = %d, want 4", cfg.FetchWorkers)
	}
	if cfg.RegistryURL != "https://www3.hkexnews.hk/sdw/search/searchsdw.aspx" {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
	if cfg.Location.String() != "Asia/Hong_Kong" {
		t.Errorf("Location = %v, want Asia/Hong_Kong", cfg.Location)
	}
	if cfg.Cache != CacheMemory {
		t.Errorf("Cache = %q, want %q", cfg.Cache, CacheMemory)
	}
	if cfg.CacheTTL != 168*time.Hour {
		t.Errorf("CacheTTL = %v, want 168h", cfg.CacheTTL)
	}
	if cfg.KafkaBrokers != nil {
		t.Errorf("KafkaBrokers = %v, want none", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != "ccass-transactions" {
		t.Errorf("KafkaTopic = %q, want ccass-transactions", cfg.KafkaTopic)
	}
	if cfg.WebhookTimeout != 5*time.Second {
		t.Errorf("WebhookTimeout = %v, want 5s", cfg.WebhookTimeout)
	}
	if cfg.WarmAt != "19:30" {
		t.Errorf("WarmAt = %q, want 19:30", cfg.WarmAt)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FETCH_RETRIES", "0")
	t.Setenv("FETCH_BACKOFF", "250ms")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CACHE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("WEBHOOK_URL", "http://hooks.local/ccass")
	t.Setenv("WARM_STOCKS", "5,700, 00001")
	t.Setenv("WARM_AT", "07:05")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.FetchRetries != 0 {
		t.Errorf("FetchRetries = %d, want 0", cfg.FetchRetries)
	}
	if cfg.FetchBackoff != 250*time.Millisecond {
		t.Errorf("FetchBackoff = %v, want 250ms", cfg.FetchBackoff)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
	if cfg.Cache != CacheRedis || cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Errorf("redis = %q %q %d, want redis localhost:6379 3", cfg.Cache, cfg.RedisAddr, cfg.RedisDB)
	}
	if diff := cmp.Diff([]string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers); diff != "" {
		t.Errorf("KafkaBrokers mismatch (-want +got):\n%s", diff)
	}
	if cfg.WebhookURL != "http://hooks.local/ccass" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if diff := cmp.Diff([]string{"00005", "00700", "00001"}, cfg.WarmStocks); diff != "" {
		t.Errorf("WarmStocks mismatch (-want +got):\n%s", diff)
	}
	if cfg.WarmAt != "07:05" {
		t.Errorf("WarmAt = %q, want 07:05", cfg.WarmAt)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port", map[string]string{"PORT": "not-a-number"}},
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"negative retries", map[string]string{"FETCH_RETRIES": "-1"}},
		{"zero workers", map[string]string{"FETCH_WORKERS": "0"}},
		{"timezone", map[string]string{"TIMEZONE": "Mars/Olympus_Mons"}},
		{"cache", map[string]string{"CACHE": "memcached"}},
		{"redis without address", map[string]string{"CACHE": "redis"}},
		{"redis db", map[string]string{"REDIS_DB": "one"}},
		{"warm stock", map[string]string{"WARM_STOCKS": "5,HSBC"}},
		{"warm at", map[string]string{"WARM_AT": "7pm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", tt.env)
			}
		})
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	for _, key := range durationEnvKeys {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, "not-a-duration")

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for invalid %s", key)
			}
		})
	}
}

func TestLoadColumnMap_Default(t *testing.T) {
	m, err := LoadColumnMap("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field, ok := m.Field("Participant ID"); !ok || field != domain.FieldParticipantID {
		t.Errorf("Field(Participant ID) = %q, %v, want %q, true", field, ok, domain.FieldParticipantID)
	}
}

func TestLoadColumnMap_File(t *testing.T) {
	t.Setenv("CCASS_PCT_LABEL", "% of Issued Shares")
	path := filepath.Join(t.TempDir(), "columns.yaml")
	data := `columns:
  "Participant ID": participant_id
  "Name of CCASS Participant": participant_name
  "Shareholding": shares
  "${CCASS_PCT_LABEL}": shares_pct
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	m, err := LoadColumnMap(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field, ok := m.Field("% of Issued Shares"); !ok || field != domain.FieldSharesPct {
		t.Errorf("Field(%% of Issued Shares) = %q, %v, want %q, true", field, ok, domain.FieldSharesPct)
	}
	if _, ok := m.Field("Address"); ok {
		t.Error("Address is mapped, want unmapped")
	}
}

func TestLoadColumnMap_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatalf("write file: %v", err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"bad yaml", write("bad.yaml", "columns: [participant_id")},
		{"unknown field", write("unknown.yaml", "columns:\n  \"Participant ID\": broker\n")},
		{"missing required field", write("partial.yaml", "columns:\n  \"Participant ID\": participant_id\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadColumnMap(tt.path); err == nil {
				t.Fatalf("expected error loading %s", tt.path)
			}
		})
	}
}
