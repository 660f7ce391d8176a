package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/travel-expense-print/internal/fonts"
	"github.com/garyjia/travel-expense-print/internal/models"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	PDF      PDFConfig      `mapstructure:"pdf"`
	Printer  PrinterConfig  `mapstructure:"printer"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds job-history database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// PDFConfig holds document generation configuration
type PDFConfig struct {
	OutputDir string      `mapstructure:"output_dir"` // empty = os.TempDir()
	Author    string      `mapstructure:"author"`
	FontCache string      `mapstructure:"font_cache"` // shared or per-call
	Verify    bool        `mapstructure:"verify"`     // reopen written files to check the page count
	Fonts     FontsConfig `mapstructure:"fonts"`
}

// FontsConfig replaces the built-in candidate chain of a role when non-empty
type FontsConfig struct {
	Body    []string `mapstructure:"body"`
	Heading []string `mapstructure:"heading"`
}

// PrinterConfig holds print dispatch configuration
type PrinterConfig struct {
	ExecutablePath string `mapstructure:"executable_path"`
	Name           string `mapstructure:"name"` // empty = OS default
	Headless       bool   `mapstructure:"headless"`
	Style          string `mapstructure:"style"` // sumatra, lp, or empty for platform default
}

// LedgerConfig holds the optional xlsx export
type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"` // empty = next to the PDF
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configPath (skipped when empty), a .env file in the working
// directory if present, and environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, models.NewError(models.KindConfig, "failed to load .env", err)
	}

	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, models.NewError(models.KindConfig, "failed to read config file", err)
		}
	}

	// anything but "false" keeps the print window hidden
	v.Set("printer.headless", strings.ToLower(strings.TrimSpace(v.GetString("printer.headless"))) != "false")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, models.NewError(models.KindConfig, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, models.NewError(models.KindConfig, "invalid configuration", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)

	// Database defaults
	v.SetDefault("database.path", "data/print_jobs.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// PDF defaults
	v.SetDefault("pdf.output_dir", "./output")
	v.SetDefault("pdf.font_cache", string(fonts.CacheShared))
	v.SetDefault("pdf.verify", true)

	// Printer defaults
	v.SetDefault("printer.headless", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("pdf.output_dir", "PDF_OUTPUT_PATH")
	v.BindEnv("printer.executable_path", "SUMATRA_PDF_PATH")
	v.BindEnv("printer.name", "PRINTER_NAME")
	v.BindEnv("printer.headless", "PDF_HEADLESS")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	switch fonts.CachePolicy(c.PDF.FontCache) {
	case fonts.CacheShared, fonts.CachePerCall:
	default:
		return fmt.Errorf("pdf.font_cache must be %q or %q, got %q", fonts.CacheShared, fonts.CachePerCall, c.PDF.FontCache)
	}
	for _, p := range append(append([]string{}, c.PDF.Fonts.Body...), c.PDF.Fonts.Heading...) {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("pdf.fonts contains an empty path")
		}
	}

	switch c.Printer.Style {
	case "", "sumatra", "lp":
	default:
		return fmt.Errorf("printer.style must be sumatra or lp, got %q", c.Printer.Style)
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	return nil
}

// FontChains returns the platform defaults with configured roles replaced
func (c *PDFConfig) FontChains() fonts.Chains {
	chains := fonts.DefaultChains().Clone()
	if len(c.Fonts.Body) > 0 {
		chains[fonts.RoleBody] = append([]string(nil), c.Fonts.Body...)
	}
	if len(c.Fonts.Heading) > 0 {
		chains[fonts.RoleHeading] = append([]string(nil), c.Fonts.Heading...)
	}
	return chains
}
