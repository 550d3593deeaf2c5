package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the application settings shared by the CLI and the HTTP server
type AppConfig struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Tax    TaxConfig    `mapstructure:"tax"`
	Report ReportConfig `mapstructure:"report"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TaxConfig selects the tax tables and how strictly input is checked
type TaxConfig struct {
	TablesPath  string `mapstructure:"tables_path"`
	DefaultYear int    `mapstructure:"default_year"`
	Strict      bool   `mapstructure:"strict"`
}

// ReportConfig holds report output settings
type ReportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// EnvPrefix is prepended to every environment variable, e.g. TAXCALC_SERVER_PORT
const EnvPrefix = "TAXCALC"

// NewViper returns a viper instance with defaults and environment bindings applied.
// The CLI binds its flags to the same instance before calling LoadApp.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Tax defaults
	v.SetDefault("tax.tables_path", "")
	v.SetDefault("tax.default_year", 0)
	v.SetDefault("tax.strict", true)

	// Report defaults
	v.SetDefault("report.dir", ".")
	v.SetDefault("report.format", "console")

	// Bind environment variables explicitly for nested keys
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	return v
}

// LoadApp reads the optional config file and decodes the settings
func LoadApp(v *viper.Viper, configFile string) (*AppConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXCALC_SERVER_PORT is not explicitly set.
	if port := os.Getenv("PORT"); port != "" && os.Getenv(EnvPrefix+"_SERVER_PORT") == "" {
		cfg.Server.Port = ":" + port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format must be json, text or console, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Tax.DefaultYear < 0 {
		return fmt.Errorf("tax.default_year cannot be negative")
	}
	return nil
}

// LoadTables loads the tax tables named by the config and applies its default year
func (c *AppConfig) LoadTables() (*TableSet, error) {
	set, err := LoadTaxTables(c.Tax.TablesPath)
	if err != nil {
		return nil, err
	}
	if c.Tax.DefaultYear != 0 {
		return set.WithDefaultYear(c.Tax.DefaultYear)
	}
	return set, nil
}
