// Package config loads the YAML configuration for the testdoc CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // zone names are validated without a system tz database

	"gopkg.in/yaml.v3"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/remote"
)

// DefaultPath is where the CLI looks for a config file.
const DefaultPath = "testdoc.yaml"

type Config struct {
	// Workbook is the local workbook path.
	Workbook    string        `yaml:"workbook"`
	MasterSheet string        `yaml:"master_sheet"`
	TimeZone    string        `yaml:"timezone"`
	Server      ServerConfig  `yaml:"server"`
	Remote      RemoteConfig  `yaml:"remote"`
	Logging     LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxUploadMB bounds multipart submissions.
	MaxUploadMB int64 `yaml:"max_upload_mb"`
}

type RemoteConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BaseURL       string        `yaml:"base_url"`
	Owner         string        `yaml:"owner"`
	Repo          string        `yaml:"repo"`
	Path          string        `yaml:"path"`
	Branch        string        `yaml:"branch"`
	Token         string        `yaml:"token"`
	CommitMessage string        `yaml:"commit_message"`
	Conflict      string        `yaml:"conflict"`
	MaxAttempts   int           `yaml:"max_attempts"`
	Timeout       time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Workbook:    "Test_Results.xlsx",
		MasterSheet: "Sheet1",
		TimeZone:    testdoc.DefaultTimeZone,
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 32,
		},
		Remote: RemoteConfig{
			BaseURL:       remote.DefaultBaseURL,
			Branch:        remote.DefaultBranch,
			CommitMessage: testdoc.DefaultCommitMessage,
			Conflict:      string(testdoc.ConflictFail),
			MaxAttempts:   testdoc.DefaultMaxAttempts,
			Timeout:       remote.DefaultTimeout,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads path over the defaults and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	for _, key := range []string{"TESTDOC_GITHUB_TOKEN", "GITHUB_TOKEN"} {
		if v := os.Getenv(key); v != "" {
			c.Remote.Token = v
			break
		}
	}
	if v := os.Getenv("TESTDOC_WORKBOOK"); v != "" {
		c.Workbook = v
	}
	if v := os.Getenv("TESTDOC_TIMEZONE"); v != "" {
		c.TimeZone = v
	}
	if v := os.Getenv("TESTDOC_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks field combinations that cannot work.
func (c *Config) Validate() error {
	switch testdoc.ConflictPolicy(c.Remote.Conflict) {
	case testdoc.ConflictFail, testdoc.ConflictRetry:
	default:
		return fmt.Errorf("remote.conflict: unknown policy %q (want fail or retry)", c.Remote.Conflict)
	}
	if c.Remote.MaxAttempts < 1 {
		return fmt.Errorf("remote.max_attempts must be at least 1, got %d", c.Remote.MaxAttempts)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.TimeZone, err)
	}
	if c.Remote.Enabled {
		var missing []string
		for name, v := range map[string]string{"owner": c.Remote.Owner, "repo": c.Remote.Repo, "path": c.Remote.Path} {
			if strings.TrimSpace(v) == "" {
				missing = append(missing, "remote."+name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf("remote sync enabled but %s not set", strings.Join(missing, ", "))
		}
	}
	return nil
}

// Options converts the config into submission options.
func (c *Config) Options() testdoc.Options {
	opts := testdoc.DefaultOptions()
	opts.MasterSheet = c.MasterSheet
	opts.Location = testdoc.LoadLocation(c.TimeZone)
	opts.CommitMessage = c.Remote.CommitMessage
	opts.Conflict = testdoc.ConflictPolicy(c.Remote.Conflict)
	opts.MaxAttempts = c.Remote.MaxAttempts
	return opts
}

// RemoteClient builds the contents API client, or nil when sync is disabled.
func (c *Config) RemoteClient(opts ...remote.Option) *remote.Client {
	if !c.Remote.Enabled {
		return nil
	}
	base := []remote.Option{
		remote.WithBaseURL(c.Remote.BaseURL),
		remote.WithBranch(c.Remote.Branch),
		remote.WithTimeout(c.Remote.Timeout),
	}
	return remote.New(c.Remote.Owner, c.Remote.Repo, c.Remote.Path, c.Remote.Token, append(base, opts...)...)
}
