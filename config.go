package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds everything the command needs.
type Config struct {
	ServerURLs    []string      `mapstructure:"server-url"`
	Port          int           `mapstructure:"port"`
	Name          string        `mapstructure:"name"`
	MountFallback time.Duration `mapstructure:"mount-fallback"`
	LogLevel      string        `mapstructure:"log-level"`
	LogFormat     string        `mapstructure:"log-format"`
}

const (
	DefaultPort      = 8095
	DefaultName      = "youtube-grid"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	envPrefix        = "YTGRID"
)

var errNoListener = errors.New("no relay server and no local port configured")

func registerFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringSlice("server-url", splitRelays(os.Getenv("RELAY")), "relay websocket URL(s); repeat or comma-separated (from env RELAY if set)")
	flags.Int("port", DefaultPort, "optional local HTTP port (negative to disable)")
	flags.String("name", DefaultName, "backend display name")
	flags.Duration("mount-fallback", 0, "create players this long after a load even if the page never reported their mount point (0 waits for the page)")
	flags.String("log-level", DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	flags.String("log-format", DefaultLogFormat, "log format (console or json)")
	flags.String("config", "", "optional config file (yaml, toml or json)")
}

// loadConfig layers flags over YTGRID_* environment variables over the
// optional config file.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ServerURLs = splitRelays(strings.Join(cfg.ServerURLs, ","))
	if len(cfg.ServerURLs) == 0 && cfg.Port < 0 {
		return Config{}, errNoListener
	}
	if cfg.MountFallback < 0 {
		return Config{}, fmt.Errorf("mount-fallback must not be negative: %s", cfg.MountFallback)
	}
	return cfg, nil
}

// splitRelays flattens comma-separated URLs and drops blanks.
func splitRelays(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if u := strings.TrimSpace(p); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func setupLogging(cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	switch cfg.LogFormat {
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case "console", "":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return nil
}
