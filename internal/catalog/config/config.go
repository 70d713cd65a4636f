package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile            = ".env"
	defaultHTTPAddr           = ":8080"
	defaultSource             = "products.csv"
	defaultImagesDir          = "images"
	defaultLanguage           = "de"
	defaultScrollDelay        = time.Second
	defaultScrollTopThreshold = 300
	defaultHeaderOffset       = 70
	defaultWatchDebounce      = 500 * time.Millisecond
	defaultReadTimeout        = 15 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultIdleTimeout        = 120 * time.Second
	defaultLogLevel           = "info"
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	UI      UIConfig
	Log     LogConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CatalogConfig configures where the catalog data comes from.
type CatalogConfig struct {
	// Source is a file path or an http(s):// or gs:// reference to the CSV.
	Source       string
	ImagesDir    string
	FetchTimeout time.Duration
	// Watch reloads file sources on change.
	Watch         bool
	WatchDebounce time.Duration
	LocalesFile   string
}

// UIConfig configures the rendered page.
type UIConfig struct {
	DefaultLanguage    string
	PageSize           int
	ScrollDelay        time.Duration
	ScrollTopThreshold int
	HeaderOffset       int
	ShellFile          string
	IntroFile          string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map. Values in the map take precedence over
// system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, the .env file, environment
// variables and the explicit map, in increasing precedence.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	p := parser{lookup: lookup}
	cfg := Config{
		Server: ServerConfig{
			Addr:         p.str("CATALOG_HTTP_ADDR", defaultHTTPAddr),
			ReadTimeout:  p.duration("CATALOG_READ_TIMEOUT", "Server.ReadTimeout", defaultReadTimeout),
			WriteTimeout: p.duration("CATALOG_WRITE_TIMEOUT", "Server.WriteTimeout", defaultWriteTimeout),
			IdleTimeout:  p.duration("CATALOG_IDLE_TIMEOUT", "Server.IdleTimeout", defaultIdleTimeout),
		},
		Catalog: CatalogConfig{
			Source:        p.str("CATALOG_SOURCE", defaultSource),
			ImagesDir:     p.str("CATALOG_IMAGES_DIR", defaultImagesDir),
			FetchTimeout:  p.duration("CATALOG_FETCH_TIMEOUT", "Catalog.FetchTimeout", 0),
			Watch:         p.boolean("CATALOG_WATCH", "Catalog.Watch", false),
			WatchDebounce: p.duration("CATALOG_WATCH_DEBOUNCE", "Catalog.WatchDebounce", defaultWatchDebounce),
			LocalesFile:   p.str("CATALOG_LOCALES_FILE", ""),
		},
		UI: UIConfig{
			DefaultLanguage:    strings.ToLower(p.str("CATALOG_DEFAULT_LANG", defaultLanguage)),
			PageSize:           p.integer("CATALOG_PAGE_SIZE", "UI.PageSize", 0),
			ScrollDelay:        p.duration("CATALOG_SCROLL_DELAY", "UI.ScrollDelay", defaultScrollDelay),
			ScrollTopThreshold: p.integer("CATALOG_SCROLL_TOP_THRESHOLD", "UI.ScrollTopThreshold", defaultScrollTopThreshold),
			HeaderOffset:       p.integer("CATALOG_HEADER_OFFSET", "UI.HeaderOffset", defaultHeaderOffset),
			ShellFile:          p.str("CATALOG_SHELL_FILE", ""),
			IntroFile:          p.str("CATALOG_INTRO_FILE", ""),
		},
		Log: LogConfig{
			Level: strings.ToLower(p.str("LOG_LEVEL", defaultLogLevel)),
		},
	}

	if err := validateConfig(cfg, p.invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		missing = append(missing, "Server.Addr")
	}
	if strings.TrimSpace(cfg.Catalog.Source) == "" {
		missing = append(missing, "Catalog.Source")
	}
	if strings.TrimSpace(cfg.UI.DefaultLanguage) == "" {
		missing = append(missing, "UI.DefaultLanguage")
	}
	if cfg.UI.PageSize < 0 {
		missing = append(missing, "UI.PageSize")
	}
	if cfg.UI.ScrollDelay < 0 {
		missing = append(missing, "UI.ScrollDelay")
	}
	if cfg.UI.ScrollTopThreshold < 0 {
		missing = append(missing, "UI.ScrollTopThreshold")
	}
	if cfg.UI.HeaderOffset < 0 {
		missing = append(missing, "UI.HeaderOffset")
	}
	if cfg.Catalog.FetchTimeout < 0 {
		missing = append(missing, "Catalog.FetchTimeout")
	}
	if cfg.Catalog.Watch && cfg.Catalog.WatchDebounce <= 0 {
		missing = append(missing, "Catalog.WatchDebounce")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		missing = append(missing, "Log.Level")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

// parser records fields whose values are present but malformed.
type parser struct {
	lookup  func(string) (string, bool)
	invalid []string
}

func (p *parser) raw(key string) (string, bool) {
	value, ok := p.lookup(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func (p *parser) str(key, fallback string) string {
	if value, ok := p.raw(key); ok {
		return value
	}
	return fallback
}

func (p *parser) duration(key, field string, fallback time.Duration) time.Duration {
	value, ok := p.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.invalid = append(p.invalid, field)
		return fallback
	}
	return d
}

func (p *parser) integer(key, field string, fallback int) int {
	value, ok := p.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.invalid = append(p.invalid, field)
		return fallback
	}
	return n
}

func (p *parser) boolean(key, field string, fallback bool) bool {
	value, ok := p.raw(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	p.invalid = append(p.invalid, field)
	return fallback
}
