package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pylinks/pkg/buildinfo"
	"github.com/matzehuels/pylinks/pkg/errors"
	"github.com/matzehuels/pylinks/pkg/integrations"
	"github.com/matzehuels/pylinks/pkg/integrations/simple"
)

// Config is the optional config.toml file:
//
//	user_agent = "pylinks (ci)"
//	timeout_seconds = 20
//
//	[[index]]
//	name = "pypi"
//	url = "https://pypi.org/simple/"
type Config struct {
	UserAgent      string        `toml:"user_agent"`
	TimeoutSeconds int           `toml:"timeout_seconds"`
	Indexes        []IndexConfig `toml:"index"`
}

// IndexConfig names one simple repository.
type IndexConfig struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// configDir returns the config directory using the XDG standard
// (~/.config/pylinks/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// loadConfig reads and validates the config file at path. Keys it does not
// recognise are logged as warnings.
func loadConfig(path string, logger *log.Logger) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	for _, key := range md.Undecoded() {
		logger.Warn("ignoring unknown config key", "key", key.String(), "file", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", cfg.TimeoutSeconds)
	}
	for i := range cfg.Indexes {
		ix := &cfg.Indexes[i]
		if err := errors.ValidateIndexURL(ix.URL); err != nil {
			return fmt.Errorf("index %d: %w", i+1, err)
		}
		if ix.Name == "" {
			ix.Name = indexName(ix.URL)
		}
	}
	return nil
}

// config loads the file named by --config, or the default file if it exists.
func (c *CLI) config() (Config, error) {
	if c.configPath != "" {
		return loadConfig(c.configPath, c.Logger)
	}
	path, err := defaultConfigPath()
	if err != nil {
		return Config{}, nil
	}
	cfg, err := loadConfig(path, c.Logger)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Config{}, nil
	}
	return cfg, err
}

// settings is the effective configuration after flags override the file.
type settings struct {
	indexes   []IndexConfig
	timeout   time.Duration
	userAgent string
}

func (c *CLI) settings() (settings, error) {
	cfg, err := c.config()
	if err != nil {
		return settings{}, err
	}

	s := settings{
		indexes:   cfg.Indexes,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		userAgent: cfg.UserAgent,
	}
	if len(c.index.urls) > 0 {
		s.indexes = s.indexes[:0:0]
		for _, u := range c.index.urls {
			if err := errors.ValidateIndexURL(u); err != nil {
				return settings{}, err
			}
			s.indexes = append(s.indexes, IndexConfig{Name: indexName(u), URL: u})
		}
	}
	if len(s.indexes) == 0 {
		s.indexes = []IndexConfig{{Name: "pypi", URL: simple.DefaultIndexURL}}
	}
	if c.index.timeout > 0 {
		s.timeout = c.index.timeout
	}
	if s.timeout <= 0 {
		s.timeout = integrations.DefaultTimeout
	}
	if s.userAgent == "" {
		s.userAgent = appName + "/" + buildinfo.Version
	}
	return s, nil
}

// indexName derives a display name from an index URL.
func indexName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// =============================================================================
// config command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := defaultConfigPath()
				if err != nil {
					return fmt.Errorf("get config dir: %w", err)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings after flags and config file are merged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "user agent", s.userAgent)
			printKeyValue(w, "timeout", s.timeout.String())
			for _, ix := range s.indexes {
				printKeyValue(w, "index "+ix.Name, ix.URL)
			}
			return nil
		},
	}
}
