// Package config loads the finmemo YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-finmemo/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir.
const AppDir = "go-finmemo"

// Field length limits.
const (
	MaxAddrLength        = 255
	MaxPathLength        = 4096
	MaxEngineLength      = 20
	MaxDurationLength    = 20
	MaxPageSizeLength    = 10
	MaxCoverFieldLength  = 200
	MaxCompanyLineLength = 1000
	MaxTypesetArgs       = 32
	MaxTypesetArgLength  = 256
	MaxWorkers           = 64
)

// Defaults.
const (
	DefaultPort            = 10000
	DefaultEngine          = "rod"
	DefaultTimeout         = "60s"
	DefaultImageWait       = "5s"
	DefaultShutdownTimeout = "15s"
	DefaultPageSize        = "a4"
	DefaultFitTolerance    = 0.02
	DefaultTypesetBinary   = "tectonic"
	DefaultMaxPayloadBytes = yamlutil.MaxDocumentSize
	DefaultMaxUploadBytes  = 64 << 20
)

// Config holds all configuration for the server and the CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Render  RenderConfig  `yaml:"render"`
	Typeset TypesetConfig `yaml:"typeset"`
	Cover   CoverConfig   `yaml:"cover"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"` // host part, empty = all interfaces
	Port            int    `yaml:"port"`
	MaxPayloadBytes int64  `yaml:"maxPayloadBytes"`
	MaxUploadBytes  int64  `yaml:"maxUploadBytes"` // whole multipart request
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

// ListenAddr returns host:port.
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Addr, s.Port)
}

// RenderConfig defines body rendering and pooling.
type RenderConfig struct {
	Engine       string  `yaml:"engine"`    // "rod" or "chromedp"
	BrowserPath  string  `yaml:"browserPath"`
	Timeout      string  `yaml:"timeout"`   // per document, Go duration
	ImageWait    string  `yaml:"imageWait"` // per image, Go duration
	Workers      int     `yaml:"workers"`   // 0 = auto
	PageSize     string  `yaml:"pageSize"`
	FitTolerance float64 `yaml:"fitTolerance"`
}

// TimeoutDuration parses Timeout.
func (r RenderConfig) TimeoutDuration() time.Duration {
	d, _ := parseDuration(r.Timeout, DefaultTimeout)
	return d
}

// ImageWaitDuration parses ImageWait.
func (r RenderConfig) ImageWaitDuration() time.Duration {
	d, _ := parseDuration(r.ImageWait, DefaultImageWait)
	return d
}

// ShutdownDuration parses ShutdownTimeout.
func (s ServerConfig) ShutdownDuration() time.Duration {
	d, _ := parseDuration(s.ShutdownTimeout, DefaultShutdownTimeout)
	return d
}

// TypesetConfig defines the cover compiler command.
type TypesetConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"` // "{outdir}" expands to the workspace
}

// CoverConfig overrides the cover fallbacks used when the payload leaves a
// field blank.
type CoverConfig struct {
	MainTitle       string `yaml:"mainTitle"`
	Subheadline1    string `yaml:"subheadline1"`
	Subheadline2    string `yaml:"subheadline2"`
	Headline        string `yaml:"headline"`
	ProjectName     string `yaml:"projectName"`
	LoanAmount      string `yaml:"loanAmount"`
	ReferenceNumber string `yaml:"referenceNumber"`
	CompanyWebsite  string `yaml:"companyWebsite"`
	CompanyLine     string `yaml:"companyLine"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 0 and 65535, got %d", ErrInvalidValue, c.Server.Port)
	}
	if c.Server.MaxPayloadBytes < 0 || c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("%w: server size limits cannot be negative", ErrInvalidValue)
	}
	if _, err := parseDuration(c.Server.ShutdownTimeout, DefaultShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdownTimeout: %w", err)
	}

	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateTypeset(); err != nil {
		return err
	}

	coverFields := []struct {
		name  string
		value string
		max   int
	}{
		{"cover.mainTitle", c.Cover.MainTitle, MaxCoverFieldLength},
		{"cover.subheadline1", c.Cover.Subheadline1, MaxCoverFieldLength},
		{"cover.subheadline2", c.Cover.Subheadline2, MaxCoverFieldLength},
		{"cover.headline", c.Cover.Headline, MaxCoverFieldLength},
		{"cover.projectName", c.Cover.ProjectName, MaxCoverFieldLength},
		{"cover.loanAmount", c.Cover.LoanAmount, MaxCoverFieldLength},
		{"cover.referenceNumber", c.Cover.ReferenceNumber, MaxCoverFieldLength},
		{"cover.companyWebsite", c.Cover.CompanyWebsite, MaxCoverFieldLength},
		{"cover.companyLine", c.Cover.CompanyLine, MaxCompanyLineLength},
	}
	for _, f := range coverFields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

func (c *Config) validateRender() error {
	r := c.Render
	if err := validateFieldLength("render.engine", r.Engine, MaxEngineLength); err != nil {
		return err
	}
	switch strings.ToLower(r.Engine) {
	case "", "rod", "chromedp":
	default:
		return fmt.Errorf("%w: render.engine %q (must be rod or chromedp)", ErrInvalidValue, r.Engine)
	}
	if err := validateFieldLength("render.browserPath", r.BrowserPath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.timeout", r.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if _, err := parseDuration(r.Timeout, DefaultTimeout); err != nil {
		return fmt.Errorf("render.timeout: %w", err)
	}
	if err := validateFieldLength("render.imageWait", r.ImageWait, MaxDurationLength); err != nil {
		return err
	}
	if _, err := parseDuration(r.ImageWait, DefaultImageWait); err != nil {
		return fmt.Errorf("render.imageWait: %w", err)
	}
	if r.Workers < 0 || r.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, r.Workers)
	}
	if err := validateFieldLength("render.pageSize", r.PageSize, MaxPageSizeLength); err != nil {
		return err
	}
	switch strings.ToLower(r.PageSize) {
	case "", "a4", "letter", "legal":
	default:
		return fmt.Errorf("%w: render.pageSize %q (must be a4, letter, or legal)", ErrInvalidValue, r.PageSize)
	}
	if r.FitTolerance < 0 || r.FitTolerance > 1 {
		return fmt.Errorf("%w: render.fitTolerance must be between 0 and 1, got %.3f", ErrInvalidValue, r.FitTolerance)
	}
	return nil
}

func (c *Config) validateTypeset() error {
	if err := validateFieldLength("typeset.binary", c.Typeset.Binary, MaxPathLength); err != nil {
		return err
	}
	if len(c.Typeset.Args) > MaxTypesetArgs {
		return fmt.Errorf("%w: typeset.args has %d entries (max %d)", ErrInvalidValue, len(c.Typeset.Args), MaxTypesetArgs)
	}
	for i, arg := range c.Typeset.Args {
		if err := validateFieldLength(fmt.Sprintf("typeset.args[%d]", i), arg, MaxTypesetArgLength); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// parseDuration parses a positive Go duration; empty means fallback.
func parseDuration(value, fallback string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidValue, value)
	}
	return d, nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			MaxPayloadBytes: DefaultMaxPayloadBytes,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Render: RenderConfig{
			Engine:       DefaultEngine,
			Timeout:      DefaultTimeout,
			ImageWait:    DefaultImageWait,
			PageSize:     DefaultPageSize,
			FitTolerance: DefaultFitTolerance,
		},
		Typeset: TypesetConfig{Binary: DefaultTypesetBinary},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-finmemo/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
