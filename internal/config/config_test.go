package config

import (
	"reflect"
	"sort"
	"testing"
)

type fakeBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (b *fakeBackend) GetString(key string) (string, bool, error) {
	v, ok := b.strings[key]
	return v, ok, nil
}

func (b *fakeBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.ints[key]
	return v, ok, nil
}

func (b *fakeBackend) SetString(key, val string) error {
	b.strings[key] = val
	return nil
}

func (b *fakeBackend) SetInt(key string, val int) error {
	b.ints[key] = val
	return nil
}

func emptyBackend() *fakeBackend {
	return &fakeBackend{strings: map[string]string{}, ints: map[string]int{}}
}

func TestDefaults(t *testing.T) {
	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Port = %d, want 4600", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir should have a default")
	}
}

func TestBackendOverridesDefaults(t *testing.T) {
	b := emptyBackend()
	b.ints["server.port"] = 9999
	b.strings["log.level"] = "debug"

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestEnvOverridesBackend(t *testing.T) {
	b := emptyBackend()
	b.ints["server.port"] = 9999

	t.Setenv("LOSTFOUND_SERVER_PORT", "4700")
	t.Setenv("LOSTFOUND_STORAGE_DATA_DIR", "/tmp/lostfound-test")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4700 {
		t.Errorf("Port = %d, want env override 4700", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/lostfound-test" {
		t.Errorf("DataDir = %q, want env override", cfg.Storage.DataDir)
	}
}

func TestEnvOverrideBadIntIgnored(t *testing.T) {
	t.Setenv("LOSTFOUND_SERVER_PORT", "not-a-number")

	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Port = %d, want default 4600", cfg.Server.Port)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := SetKey("server.port", "5001"); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if err := SetKey("log.level", "debug"); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5001 {
		t.Errorf("Port = %d, want 5001", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestSetKeyRejectsUnknownKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := SetKey("bogus.key", "x"); err == nil {
		t.Error("SetKey with unknown key should fail")
	}
}

func TestSetKeyRejectsBadInt(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := SetKey("server.port", "not-a-number"); err == nil {
		t.Error("SetKey with non-integer port should fail")
	}
}

func TestShowAllCoversEveryKey(t *testing.T) {
	cfg, err := loadWith(emptyBackend())
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	var shown []string
	for _, k := range ShowAll(cfg) {
		shown = append(shown, k.Key)
	}
	sort.Strings(shown)

	want := append([]string{}, ValidKeys()...)
	sort.Strings(want)

	if !reflect.DeepEqual(shown, want) {
		t.Errorf("ShowAll keys = %v, want %v", shown, want)
	}
}
