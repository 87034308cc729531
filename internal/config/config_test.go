package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestViperConfigGetString(t *testing.T) {
	v := viper.New()
	v.Set("name", "test")
	cfg := New(v)

	if got := cfg.GetString("name"); got != "test" {
		t.Errorf("GetString('name') = %q, want %q", got, "test")
	}
}

func TestViperConfigGetInt(t *testing.T) {
	v := viper.New()
	v.Set("port", 8080)
	cfg := New(v)

	if got := cfg.GetInt("port"); got != 8080 {
		t.Errorf("GetInt('port') = %d, want %d", got, 8080)
	}
}

func TestViperConfigGetBool(t *testing.T) {
	v := viper.New()
	v.Set("enabled", true)
	cfg := New(v)

	if got := cfg.GetBool("enabled"); !got {
		t.Error("GetBool('enabled') = false, want true")
	}
}

func TestViperConfigGetFloat64(t *testing.T) {
	v := viper.New()
	v.Set("threshold", 0.25)
	cfg := New(v)

	if got := cfg.GetFloat64("threshold"); got != 0.25 {
		t.Errorf("GetFloat64('threshold') = %v, want %v", got, 0.25)
	}
}

func TestViperConfigGetDuration(t *testing.T) {
	v := viper.New()
	v.Set("timeout", "5s")
	cfg := New(v)

	want := 5 * time.Second
	if got := cfg.GetDuration("timeout"); got != want {
		t.Errorf("GetDuration('timeout') = %v, want %v", got, want)
	}
}

func TestViperConfigIsSet(t *testing.T) {
	v := viper.New()
	v.Set("exists", true)
	cfg := New(v)

	if !cfg.IsSet("exists") {
		t.Error("IsSet('exists') = false, want true")
	}
	if cfg.IsSet("missing") {
		t.Error("IsSet('missing') = true, want false")
	}
}

func TestViperConfigSub(t *testing.T) {
	v := viper.New()
	v.Set("sink.mqtt.retained", true)
	v.Set("sink.mqtt.qos", 1)
	cfg := New(v)

	sub := cfg.Sub("sink.mqtt")
	if sub == nil {
		t.Fatal("Sub('sink.mqtt') = nil")
	}
	if got := sub.GetBool("retained"); !got {
		t.Error("sub.GetBool('retained') = false, want true")
	}
	if got := sub.GetInt("qos"); got != 1 {
		t.Errorf("sub.GetInt('qos') = %d, want %d", got, 1)
	}
}

func TestViperConfigSubMissing(t *testing.T) {
	v := viper.New()
	cfg := New(v)

	sub := cfg.Sub("nonexistent")
	if sub == nil {
		t.Fatal("Sub('nonexistent') should return empty Config, not nil")
	}
	if got := sub.GetString("anything"); got != "" {
		t.Errorf("empty config GetString() = %q, want empty", got)
	}
}

func TestViperConfigUnmarshal(t *testing.T) {
	v := viper.New()
	v.Set("host", "localhost")
	v.Set("port", 9090)
	cfg := New(v)

	var target struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	}
	if err := cfg.Unmarshal(&target); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if target.Host != "localhost" {
		t.Errorf("Host = %q, want %q", target.Host, "localhost")
	}
	if target.Port != 9090 {
		t.Errorf("Port = %d, want %d", target.Port, 9090)
	}
}

func TestNilViper(t *testing.T) {
	cfg := New(nil)
	// Should not panic and return zero values.
	if got := cfg.GetString("key"); got != "" {
		t.Errorf("nil viper GetString() = %q, want empty", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	s, cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", s.Server.Port)
	}
	if s.Source.Kind != SourceEmbedded {
		t.Errorf("Source.Kind = %q, want %q", s.Source.Kind, SourceEmbedded)
	}
	if s.Source.Timeout != 10*time.Second {
		t.Errorf("Source.Timeout = %v, want 10s", s.Source.Timeout)
	}
	if s.Search.Threshold != 0.4 {
		t.Errorf("Search.Threshold = %v, want 0.4", s.Search.Threshold)
	}
	if s.Search.Distance != 100 {
		t.Errorf("Search.Distance = %d, want 100", s.Search.Distance)
	}

	sink := cfg.Sub("sink")
	if got := sink.GetString("kind"); got != SinkLog {
		t.Errorf("Sub(sink).GetString(kind) = %q, want %q", got, SinkLog)
	}
	if got := sink.GetDuration("timeout"); got != 5*time.Second {
		t.Errorf("Sub(sink).GetDuration(timeout) = %v, want 5s", got)
	}
	if !sink.IsSet("topic") {
		t.Error("Sub(sink).IsSet(topic) = false, want true")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopfind.yaml")
	content := `server:
  port: 9000
source:
  kind: http
  url: http://backend.local/api/products
  timeout: 3s
search:
  threshold: 0.3
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SHOPFIND_SERVER_PORT", "9100")

	s, cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", s.Server.Port)
	}
	if s.Source.Kind != SourceHTTP || s.Source.URL != "http://backend.local/api/products" {
		t.Errorf("Source = %+v, want http source from file", s.Source)
	}
	if s.Source.Timeout != 3*time.Second {
		t.Errorf("Source.Timeout = %v, want 3s", s.Source.Timeout)
	}
	if s.Search.Threshold != 0.3 {
		t.Errorf("Search.Threshold = %v, want 0.3", s.Search.Threshold)
	}
	if got := cfg.Sub("search").GetFloat64("threshold"); got != 0.3 {
		t.Errorf("Sub(search).GetFloat64(threshold) = %v, want 0.3", got)
	}
	if got := cfg.Sub("server").GetInt("port"); got != 9100 {
		t.Errorf("Sub(server).GetInt(port) = %d, want env override 9100", got)
	}
	if got := s.Server.Addr(); got != "0.0.0.0:9100" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:9100")
	}
}

func TestSubKeepsDefaultsUnderPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopfind.yaml")
	if err := os.WriteFile(path, []byte("search:\n  threshold: 0.2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	search := cfg.Sub("search")
	if got := search.GetFloat64("threshold"); got != 0.2 {
		t.Errorf("threshold = %v, want 0.2 from file", got)
	}
	if got := search.GetInt("distance"); got != 100 {
		t.Errorf("distance = %d, want default 100", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "defaults valid", mutate: func(*Settings) {}},
		{name: "http without url", mutate: func(s *Settings) { s.Source.Kind = SourceHTTP }, wantErr: "source.url"},
		{name: "file without path", mutate: func(s *Settings) { s.Source.Kind = SourceFile }, wantErr: "source.path"},
		{name: "unknown source", mutate: func(s *Settings) { s.Source.Kind = "ftp" }, wantErr: "unknown source.kind"},
		{name: "mqtt without broker", mutate: func(s *Settings) { s.Sink.Kind = SinkMQTT }, wantErr: "sink.broker"},
		{name: "threshold too high", mutate: func(s *Settings) { s.Search.Threshold = 1.5 }, wantErr: "search.threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(s)
			err = s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
