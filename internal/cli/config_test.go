package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pylinks/pkg/errors"
	"github.com/matzehuels/pylinks/pkg/integrations"
	"github.com/matzehuels/pylinks/pkg/integrations/simple"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
user_agent = "pylinks-test"
timeout_seconds = 20

[[index]]
name = "internal"
url = "https://pypi.example.com/simple/"

[[index]]
url = "https://www.example.org/simple/"
`)

	cfg, err := loadConfig(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.UserAgent != "pylinks-test" || cfg.TimeoutSeconds != 20 {
		t.Errorf("cfg = %+v", cfg)
	}
	want := []IndexConfig{
		{Name: "internal", URL: "https://pypi.example.com/simple/"},
		{Name: "example.org", URL: "https://www.example.org/simple/"},
	}
	if len(cfg.Indexes) != len(want) {
		t.Fatalf("Indexes = %+v, want %+v", cfg.Indexes, want)
	}
	for i := range want {
		if cfg.Indexes[i] != want[i] {
			t.Errorf("Indexes[%d] = %+v, want %+v", i, cfg.Indexes[i], want[i])
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", "user_agent = ", errors.ErrCodeInvalidConfig},
		{"negative timeout", "timeout_seconds = -1", errors.ErrCodeInvalidConfig},
		{"bad index url", "[[index]]\nurl = \"pypi.org/simple\"", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body), log.New(io.Discard))
			if !errors.Is(err, tt.code) {
				t.Errorf("loadConfig() error = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), log.New(io.Discard))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigWarnsOnUnknownKeys(t *testing.T) {
	var buf bytes.Buffer
	if _, err := loadConfig(writeConfig(t, `colour = "blue"`), log.New(&buf)); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !strings.Contains(buf.String(), "colour") {
		t.Errorf("log output = %q, want unknown key warning", buf.String())
	}
}

func TestSettingsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := New(io.Discard, LogInfo).settings()
	if err != nil {
		t.Fatalf("settings() error: %v", err)
	}
	if len(s.indexes) != 1 || s.indexes[0].URL != simple.DefaultIndexURL {
		t.Errorf("indexes = %+v, want PyPI", s.indexes)
	}
	if s.timeout != integrations.DefaultTimeout {
		t.Errorf("timeout = %v, want %v", s.timeout, integrations.DefaultTimeout)
	}
	if !strings.HasPrefix(s.userAgent, appName+"/") {
		t.Errorf("userAgent = %q", s.userAgent)
	}
}

func TestSettingsFlagsOverrideFile(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.configPath = writeConfig(t, `
timeout_seconds = 20

[[index]]
name = "internal"
url = "https://pypi.example.com/simple/"
`)

	s, err := c.settings()
	if err != nil {
		t.Fatalf("settings() error: %v", err)
	}
	if s.timeout != 20*time.Second || len(s.indexes) != 1 || s.indexes[0].Name != "internal" {
		t.Errorf("file settings = %+v", s)
	}

	c.index.urls = []string{"https://a.example.com/simple/", "https://b.example.com/simple/"}
	c.index.timeout = 3 * time.Second
	s, err = c.settings()
	if err != nil {
		t.Fatalf("settings() error: %v", err)
	}
	if s.timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", s.timeout)
	}
	if len(s.indexes) != 2 || s.indexes[0].Name != "a.example.com" || s.indexes[1].Name != "b.example.com" {
		t.Errorf("indexes = %+v", s.indexes)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	if _, err := c.settings(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("settings() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestConfigDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestConfigShowCommand(t *testing.T) {
	out, err := runCLI(t, "config", "show", "--index", "https://pypi.example.com/simple/", "--timeout", "5s")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	assertContains(t, out, "https://pypi.example.com/simple/", "5s", "index pypi.example.com")
}
