// Package config loads checklist settings from defaults, an optional YAML
// file and CHECKLIST_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "CHECKLIST_"
	FileName  = "checklist.yml"
)

type Config struct {
	Content string        `json:"content" yaml:"content" koanf:"content"`
	Storage StorageConfig `json:"storage" yaml:"storage" koanf:"storage"`
	Web     WebConfig     `json:"web" yaml:"web" koanf:"web"`
	TUI     TUIConfig     `json:"tui" yaml:"tui" koanf:"tui"`
	Log     LogConfig     `json:"log" yaml:"log" koanf:"log"`
}

type StorageConfig struct {
	// Backend is file, sqlite or memory.
	Backend string `json:"backend" yaml:"backend" koanf:"backend"`
	// Dir empty means the default state directory.
	Dir       string `json:"dir" yaml:"dir,omitempty" koanf:"dir"`
	Namespace string `json:"namespace" yaml:"namespace" koanf:"namespace"`
}

type WebConfig struct {
	Addr            string `json:"addr" yaml:"addr" koanf:"addr"`
	AllowAllOrigins bool   `json:"allow_all_origins" yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

type TUIConfig struct {
	// Theme is auto, light or dark.
	Theme string `json:"theme" yaml:"theme" koanf:"theme"`
	// Glyphs is unicode or ascii.
	Glyphs string `json:"glyphs" yaml:"glyphs" koanf:"glyphs"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" koanf:"level"`
	File  string `json:"file" yaml:"file,omitempty" koanf:"file"`
}

func Default() *Config {
	return &Config{
		Content: "nm_data.json",
		Storage: StorageConfig{
			Backend:   "file",
			Namespace: "atomic-checklist-state-v1",
		},
		Web: WebConfig{Addr: "127.0.0.1:8787"},
		TUI: TUIConfig{Theme: "auto", Glyphs: "unicode"},
		Log: LogConfig{Level: "info"},
	}
}

// Dir is the config directory. CHECKLIST_CONFIG_DIR overrides it, which also
// keeps tests away from the real home directory.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("CHECKLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); v != "" {
		return filepath.Join(v, "atomic-checklist"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "atomic-checklist"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path if it exists and overlays CHECKLIST_* variables.
// A double underscore separates nesting: CHECKLIST_STORAGE__BACKEND sets
// storage.backend.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps CHECKLIST_STORAGE__BACKEND to storage.backend. Variables that
// belong to other concerns (CHECKLIST_CONFIG_DIR, CHECKLIST_TUI_THEME) map to
// keys no field reads.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var (
	validBackends = map[string]bool{"file": true, "sqlite": true, "memory": true}
	validThemes   = map[string]bool{"auto": true, "light": true, "dark": true}
	validGlyphs   = map[string]bool{"unicode": true, "ascii": true}
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
)

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		return fmt.Errorf("invalid storage.backend %q: must be one of file, sqlite, memory", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Namespace) == "" {
		return fmt.Errorf("storage.namespace is required")
	}
	if strings.TrimSpace(c.Web.Addr) == "" {
		return fmt.Errorf("web.addr is required")
	}
	if c.TUI.Theme != "" && !validThemes[strings.ToLower(c.TUI.Theme)] {
		return fmt.Errorf("invalid tui.theme %q: must be one of auto, light, dark", c.TUI.Theme)
	}
	if c.TUI.Glyphs != "" && !validGlyphs[strings.ToLower(c.TUI.Glyphs)] {
		return fmt.Errorf("invalid tui.glyphs %q: must be one of unicode, ascii", c.TUI.Glyphs)
	}
	if c.Log.Level != "" && !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// Save writes c as YAML. The previous file, if any, is kept as <path>.bak.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, FileName+".bak.*.tmp", path+".bak", prev, 0o644)
	}
	if err := atomicWriteFile(dir, FileName+".*.tmp", path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
