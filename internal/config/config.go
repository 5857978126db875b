package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"schoolrank/internal/criteria"
)

type Source string

const (
	SourceJSON     Source = "json"
	SourcePostgres Source = "postgres"
)

type Transport string

const (
	TransportStdio      Transport = "stdio"
	TransportStreamable Transport = "streamable"
)

type Config struct {
	Source                   Source    `mapstructure:"source"`
	DataDir                  string    `mapstructure:"data_dir"`
	Cities                   []string  `mapstructure:"cities"`
	DatabaseDSN              string    `mapstructure:"database_dsn"`
	ConnectTimeoutSeconds    int       `mapstructure:"connect_timeout_seconds"`
	StatementTimeoutMs       int       `mapstructure:"statement_timeout_ms"`
	AppName                  string    `mapstructure:"app_name"`
	PresetsFile              string    `mapstructure:"presets_file"`
	Preset                   string    `mapstructure:"preset"`
	SchoolSizePreference     string    `mapstructure:"school_size_preference"`
	NeutralValue             float64   `mapstructure:"neutral_value"`
	ParallelThreshold        int       `mapstructure:"parallel_threshold"`
	MaxWorkers               int       `mapstructure:"max_workers"`
	EnableCaching            bool      `mapstructure:"enable_caching"`
	CacheTTLSeconds          int       `mapstructure:"cache_ttl_seconds"`
	LogLevel                 string    `mapstructure:"log_level"`
	Transport                Transport `mapstructure:"transport"`
	HTTPAddr                 string    `mapstructure:"http_addr"`
	HTTPPort                 int       `mapstructure:"http_port"`
	HTTPPath                 string    `mapstructure:"http_path"`
	MetricsPath              string    `mapstructure:"metrics_path"`
	MaxRows                  int       `mapstructure:"max_rows"`
	ReloadMinIntervalSeconds int       `mapstructure:"reload_min_interval_seconds"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("source", string(SourceJSON))
	v.SetDefault("data_dir", "data")
	v.SetDefault("cities", []string{})
	v.SetDefault("database_dsn", "")
	v.SetDefault("connect_timeout_seconds", 5)
	v.SetDefault("statement_timeout_ms", 30000)
	v.SetDefault("app_name", "schoolrank")
	v.SetDefault("presets_file", "")
	v.SetDefault("preset", "balanced")
	v.SetDefault("school_size_preference", string(criteria.PreferMedium))
	v.SetDefault("neutral_value", criteria.NeutralValue)
	v.SetDefault("parallel_threshold", 256)
	v.SetDefault("max_workers", 0)
	v.SetDefault("enable_caching", true)
	v.SetDefault("cache_ttl_seconds", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("transport", string(TransportStdio))
	v.SetDefault("http_addr", "127.0.0.1")
	v.SetDefault("http_port", 8080)
	v.SetDefault("http_path", "/mcp")
	v.SetDefault("metrics_path", "/metrics")
	v.SetDefault("max_rows", 200)
	v.SetDefault("reload_min_interval_seconds", 10)
}

// NewFlagSet returns a flag set carrying every config flag. Binaries may add
// their own flags before passing it to LoadFlags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "Config file path (yaml|json|toml)")
	fs.String("source", string(SourceJSON), "Entity source: json|postgres")
	fs.String("data-dir", "data", "Directory with <city>/*.json school records")
	fs.StringSlice("city", []string{}, "City subdirectories to load (repeatable; default all)")
	fs.String("database-dsn", "", "Postgres DSN for source=postgres (postgres://…)")
	fs.Int("connect-timeout-seconds", 5, "Connection timeout in seconds")
	fs.Int("statement-timeout-ms", 30000, "Statement timeout in milliseconds")
	fs.String("app-name", "schoolrank", "Application name")
	fs.String("presets-file", "", "YAML file with named weight presets")
	fs.String("preset", "balanced", "Preset used when no weights are given")
	fs.String("school-size-preference", string(criteria.PreferMedium), "Preferred school size: small|medium|large|any")
	fs.Float64("neutral-value", criteria.NeutralValue, "Value substituted for missing criterion data")
	fs.Int("parallel-threshold", 256, "Collection size from which scoring runs in parallel (0 disables)")
	fs.Int("max-workers", 0, "Maximum scoring goroutines (0 = GOMAXPROCS)")
	fs.Bool("enable-caching", true, "Cache criterion scores across weight changes")
	fs.Int("cache-ttl-seconds", 0, "Criterion cache TTL in seconds (0 = until data changes)")
	fs.String("log-level", "info", "Log level")
	fs.String("transport", string(TransportStdio), "MCP transport: stdio|streamable")
	fs.String("http-addr", "127.0.0.1", "HTTP listen address for streamable transport")
	fs.Int("http-port", 8080, "HTTP listen port for streamable transport")
	fs.String("http-path", "/mcp", "HTTP path for the MCP endpoint")
	fs.String("metrics-path", "/metrics", "HTTP path for prometheus metrics")
	fs.Int("max-rows", 200, "Maximum rows returned by tools")
	fs.Int("reload-min-interval-seconds", 10, "Minimum seconds between dataset reloads")
	return fs
}

// Load reads configuration from os.Args, the environment and config files.
func Load() (Config, error) {
	fs := NewFlagSet(os.Args[0])
	return LoadFlags(fs, os.Args[1:])
}

// LoadFlags parses args into fs and resolves the configuration. Precedence is
// flags set on the command line, then SCHOOLRANK_* env, then the config file,
// then defaults.
func LoadFlags(fs *pflag.FlagSet, args []string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("SCHOOLRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	// Config file resolution
	cfgPath, _ := fs.GetString("config")
	if cfgPath == "" {
		cfgPath = os.Getenv("SCHOOLRANK_CONFIG")
	}
	if cfgPath != "" {
		if err := readConfigFile(v, cfgPath); err != nil {
			return Config{}, err
		}
	} else if err := readDefaultConfig(v); err != nil {
		return Config{}, err
	}

	// Flags override config; flag names use dashes, keys use underscores.
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if key == "city" {
			key = "cities"
		}
		bindErr = v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return Config{}, fmt.Errorf("bind flags: %w", bindErr)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Source {
	case SourceJSON:
		if cfg.DataDir == "" {
			return errors.New("config: data_dir is required when source=json")
		}
	case SourcePostgres:
		if cfg.DatabaseDSN == "" {
			return errors.New("config: database_dsn is required when source=postgres")
		}
	default:
		return fmt.Errorf("config: source must be one of [%s,%s]", SourceJSON, SourcePostgres)
	}
	if cfg.Transport != TransportStdio && cfg.Transport != TransportStreamable {
		return fmt.Errorf("config: transport must be one of [%s,%s]", TransportStdio, TransportStreamable)
	}
	if _, err := criteria.ParseSizePreference(cfg.SchoolSizePreference); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.NeutralValue < 0 || cfg.NeutralValue > 100 {
		return errors.New("config: neutral_value must be within [0,100]")
	}
	if cfg.ConnectTimeoutSeconds <= 0 {
		return errors.New("config: connect_timeout_seconds must be > 0")
	}
	if cfg.StatementTimeoutMs <= 0 {
		return errors.New("config: statement_timeout_ms must be > 0")
	}
	if cfg.ParallelThreshold < 0 || cfg.MaxWorkers < 0 {
		return errors.New("config: parallel_threshold and max_workers must be >= 0")
	}
	if cfg.CacheTTLSeconds < 0 {
		return errors.New("config: cache_ttl_seconds must be >= 0")
	}
	if cfg.MaxRows <= 0 {
		return errors.New("config: max_rows must be > 0")
	}
	if cfg.ReloadMinIntervalSeconds < 0 {
		return errors.New("config: reload_min_interval_seconds must be >= 0")
	}
	if cfg.Transport == TransportStreamable {
		if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
			return errors.New("config: http_port must be within 1-65535")
		}
		if !strings.HasPrefix(cfg.HTTPPath, "/") || !strings.HasPrefix(cfg.MetricsPath, "/") {
			return errors.New("config: http_path and metrics_path must start with /")
		}
		if cfg.HTTPPath == cfg.MetricsPath {
			return errors.New("config: http_path and metrics_path must differ")
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

func readDefaultConfig(v *viper.Viper) error {
	paths := defaultConfigCandidates()
	exts := []string{"yaml", "yml", "json", "toml"}
	for _, base := range paths {
		for _, ext := range exts {
			candidate := base + "." + ext
			if _, err := os.Stat(candidate); err == nil {
				v.SetConfigFile(candidate)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read default config %s: %w", candidate, err)
				}
				return nil
			}
		}
	}
	return nil
}

func defaultConfigCandidates() []string {
	var out []string
	cwd, _ := os.Getwd()
	if cwd != "" {
		out = append(out,
			filepath.Join(cwd, "schoolrank"),
			filepath.Join(cwd, "config", "schoolrank"),
		)
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			xdg = filepath.Join(home, ".config")
		}
	}
	if xdg != "" {
		out = append(out, filepath.Join(xdg, "schoolrank", "config"))
	}
	return out
}
