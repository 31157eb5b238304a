// Package config loads the optional .ensureline.yaml settings file and batch task files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/ensureline/pkg/domain"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = ".ensureline.yaml"

// Config holds process-wide defaults. Flags override it.
type Config struct {
	Encoding domain.Encoding `yaml:"encoding" json:"encoding"`
	Dialect  string          `yaml:"dialect" json:"dialect"`
	// Catalog is the dataset catalog directory; empty means ensureline.DefaultCatalog.
	Catalog  string       `yaml:"catalog" json:"catalog"`
	LogLevel string       `yaml:"log_level" json:"log_level"`
	Redis    RedisConfig  `yaml:"redis" json:"redis"`
	Server   ServerConfig `yaml:"server" json:"server"`
}

// RedisConfig enables the distributed lock when Addr is set.
type RedisConfig struct {
	Addr    string        `yaml:"addr" json:"addr"`
	Prefix  string        `yaml:"prefix" json:"prefix"`
	LockTTL time.Duration `yaml:"lock_ttl" json:"lock_ttl"`
}

// ServerConfig configures `ensureline serve`.
type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Encoding: domain.DefaultEncoding(),
		Dialect:  string(domain.DialectRE2),
		LogLevel: "info",
		Redis: RedisConfig{
			Prefix:  "ensureline:",
			LockTTL: 30 * time.Second,
		},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads path (YAML, or JSON by extension) over the defaults. When path is empty
// DefaultFile is tried and its absence is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := unmarshal(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// LoadTasks reads a batch file: a list of parameter maps, or a document with a
// top-level "tasks" list.
func LoadTasks(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	var list []map[string]any
	if err := unmarshal(path, data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Tasks []map[string]any `yaml:"tasks" json:"tasks"`
	}
	if err := unmarshal(path, data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc.Tasks, nil
}

func unmarshal(path string, data []byte, v any) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}
