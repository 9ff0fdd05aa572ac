package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zhubert/tokenlens/internal/errors"
)

// View names accepted by the view setting.
const (
	ViewInline = "inline"
	ViewGrid   = "grid"
	ViewList   = "list"
)

// Views lists the view names in cycling order.
var Views = []string{ViewInline, ViewGrid, ViewList}

// Backends and chat templates accepted by the config.
var (
	Backends      = []string{"tiktoken", "codec"}
	ChatTemplates = []string{"plain", "chatml"}
)

// Defaults.
const (
	DefaultModel          = "gpt-4o"
	DefaultView           = ViewInline
	DefaultTheme          = "dark-purple"
	DefaultBackend        = "tiktoken"
	DefaultChatTemplate   = "plain"
	DefaultDebounce       = 150 * time.Millisecond
	DefaultResizeDebounce = 100 * time.Millisecond
	DefaultChunkThreshold = 20000
	DefaultMaxFileBytes   = 5 * 1024 * 1024
)

// EnvPrefix prefixes every environment override, e.g. TOKENLENS_MODEL.
const EnvPrefix = "TOKENLENS"

// Config holds the application configuration
type Config struct {
	Model          string        `mapstructure:"model"`
	View           string        `mapstructure:"view"`
	Theme          string        `mapstructure:"theme"`
	Backend        string        `mapstructure:"backend"`
	ChatTemplate   string        `mapstructure:"chat_template"`
	Debounce       time.Duration `mapstructure:"debounce"`
	ResizeDebounce time.Duration `mapstructure:"resize_debounce"`
	ChunkThreshold int           `mapstructure:"chunk_threshold"`
	MaxFileBytes   int64         `mapstructure:"max_file_bytes"`
	Notifications  bool          `mapstructure:"notifications"`
	Debug          bool          `mapstructure:"debug"`
	LogFile        string        `mapstructure:"log_file"`

	mu       sync.RWMutex
	filePath string
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"model":          "model",
	"view":           "view",
	"theme":          "theme",
	"backend":        "backend",
	"chat-template":  "chat_template",
	"debounce":       "debounce",
	"chunk-size":     "chunk_threshold",
	"max-file-bytes": "max_file_bytes",
	"notify":         "notifications",
	"debug":          "debug",
	"log-file":       "log_file",
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tokenlens"), nil
}

// DefaultPath returns ~/.tokenlens/config.yaml.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadOptions select where configuration comes from.
type LoadOptions struct {
	// File is an explicit config file. It must exist when set.
	File string
	// Flags, when set, override file and environment values for flags the
	// user actually passed.
	Flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model", DefaultModel)
	v.SetDefault("view", DefaultView)
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("chat_template", DefaultChatTemplate)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("resize_debounce", DefaultResizeDebounce)
	v.SetDefault("chunk_threshold", DefaultChunkThreshold)
	v.SetDefault("max_file_bytes", DefaultMaxFileBytes)
	v.SetDefault("notifications", false)
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")
}

// Default returns a config holding only default values.
func Default() *Config {
	return &Config{
		Model:          DefaultModel,
		View:           DefaultView,
		Theme:          DefaultTheme,
		Backend:        DefaultBackend,
		ChatTemplate:   DefaultChatTemplate,
		Debounce:       DefaultDebounce,
		ResizeDebounce: DefaultResizeDebounce,
		ChunkThreshold: DefaultChunkThreshold,
		MaxFileBytes:   DefaultMaxFileBytes,
	}
}

// Load merges defaults, the config file, TOKENLENS_* environment variables
// and flags, in increasing order of precedence. A missing default config file
// is not an error.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.ConfigLoadFailed(name, err)
				}
			}
		}
	}

	path := opts.File
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.ConfigLoadFailed("home directory", err)
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, errors.ConfigLoadFailed(path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	cfg.filePath = path
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.View = strings.ToLower(strings.TrimSpace(c.View))
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.ChatTemplate = strings.ToLower(strings.TrimSpace(c.ChatTemplate))
	c.Model = strings.TrimSpace(c.Model)
}

// Validate rejects unknown enum values and non-positive sizes and delays.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Model == "" {
		return errors.ConfigInvalid("model must not be empty")
	}
	if !slices.Contains(Views, c.View) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown view %q (want one of %s)", c.View, strings.Join(Views, ", ")))
	}
	if !slices.Contains(Backends, c.Backend) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown backend %q (want one of %s)", c.Backend, strings.Join(Backends, ", ")))
	}
	if !slices.Contains(ChatTemplates, c.ChatTemplate) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown chat template %q (want one of %s)", c.ChatTemplate, strings.Join(ChatTemplates, ", ")))
	}
	if c.Debounce <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("debounce must be positive, got %s", c.Debounce))
	}
	if c.ResizeDebounce <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("resize_debounce must be positive, got %s", c.ResizeDebounce))
	}
	if c.ChunkThreshold <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("chunk_threshold must be positive, got %d", c.ChunkThreshold))
	}
	if c.MaxFileBytes <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("max_file_bytes must be positive, got %d", c.MaxFileBytes))
	}
	return nil
}

// Path returns the file the config was loaded from and is saved to.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// Save persists the user-facing choices (model, view, theme, backend, chat
// template, notifications) to the config file.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return errors.ConfigSaveFailed("home directory", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.ConfigSaveFailed(path, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("model", c.Model)
	v.Set("view", c.View)
	v.Set("theme", c.Theme)
	v.Set("backend", c.Backend)
	v.Set("chat_template", c.ChatTemplate)
	v.Set("notifications", c.Notifications)
	if err := v.WriteConfigAs(path); err != nil {
		return errors.ConfigSaveFailed(path, err)
	}
	return nil
}

// GetModel returns the selected model or encoding.
func (c *Config) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Model
}

// SetModel sets the selected model or encoding.
func (c *Config) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Model = model
}

// GetView returns the token view name.
func (c *Config) GetView() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.View
}

// SetView sets the token view name.
func (c *Config) SetView(view string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.View = view
}

// GetTheme returns the UI theme name.
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the UI theme name.
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled reports whether desktop notifications are on.
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications
}

// SetNotificationsEnabled toggles desktop notifications.
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications = enabled
}

// GetBackend returns the encoder backend name.
func (c *Config) GetBackend() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Backend
}

// SetBackend sets the encoder backend name.
func (c *Config) SetBackend(backend string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Backend = backend
}

// GetChatTemplate returns the chat framing template name.
func (c *Config) GetChatTemplate() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ChatTemplate
}

// SetChatTemplate sets the chat framing template name.
func (c *Config) SetChatTemplate(tmpl string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ChatTemplate = tmpl
}
