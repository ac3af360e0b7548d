package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"game-host/internal/registry"
)

const (
	defaultConfigName = "config"
)

type Config struct {
	ListenIP   string
	ListenPort int

	// IdleTimeout is how long the host may go without a single connection
	// before the watchdog powers it down.
	IdleTimeout time.Duration

	ShutdownCommand []string

	// NotifyURL receives a POST describing every shutdown attempt. Empty disables it.
	NotifyURL string

	// CommandTimeout bounds every external command. Zero means wait forever.
	CommandTimeout time.Duration
	SessionCommand []string

	LandingPage string

	RateLimit float64
	RateBurst int

	// ReadTimeout bounds the single request read. Zero waits forever.
	ReadTimeout time.Duration

	// ActivityLogPath enables NDJSON request telemetry when set.
	ActivityLogPath string

	Servers []registry.Spec
}

// Addr is the host:port pair the accept loop binds to.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenIP, c.ListenPort)
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("GH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env-only is fine.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen.ip", "0.0.0.0")
	v.SetDefault("listen.port", 31415)

	v.SetDefault("idle.timeout", 30*time.Minute)

	v.SetDefault("power.shutdown_command", []string{"shutdown"})
	v.SetDefault("power.notify_url", "")

	v.SetDefault("commands.timeout", 5*time.Minute)
	v.SetDefault("sessions.command", []string{"screen", "-list"})

	v.SetDefault("web.landing_page", "hello.html")
	v.SetDefault("web.rate_limit", 5.0)
	v.SetDefault("web.rate_burst", 10)
	v.SetDefault("web.read_timeout", 10*time.Second)

	v.SetDefault("telemetry.activity_path", "")

	v.SetDefault("servers", []map[string]any{
		{"path": "minecraft", "kind": registry.KindBash},
		{"path": "arma", "kind": registry.KindBash},
	})
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		ListenIP:        strings.TrimSpace(v.GetString("listen.ip")),
		ListenPort:      v.GetInt("listen.port"),
		IdleTimeout:     v.GetDuration("idle.timeout"),
		ShutdownCommand: v.GetStringSlice("power.shutdown_command"),
		NotifyURL:       strings.TrimSpace(v.GetString("power.notify_url")),
		CommandTimeout:  v.GetDuration("commands.timeout"),
		SessionCommand:  v.GetStringSlice("sessions.command"),
		LandingPage:     v.GetString("web.landing_page"),
		RateLimit:       v.GetFloat64("web.rate_limit"),
		RateBurst:       v.GetInt("web.rate_burst"),
		ReadTimeout:     v.GetDuration("web.read_timeout"),
		ActivityLogPath: v.GetString("telemetry.activity_path"),
	}
	if err := v.UnmarshalKey("servers", &cfg.Servers); err != nil {
		return Config{}, fmt.Errorf("decode servers: %w", err)
	}

	if cfg.ListenIP == "" {
		return Config{}, fmt.Errorf("listen.ip must not be empty")
	}
	if cfg.ListenPort <= 0 || cfg.ListenPort > 65535 {
		return Config{}, fmt.Errorf("invalid listen.port %d", cfg.ListenPort)
	}
	if cfg.IdleTimeout <= 0 {
		return Config{}, fmt.Errorf("idle.timeout must be positive, got %s", cfg.IdleTimeout)
	}
	if len(cfg.ShutdownCommand) == 0 {
		return Config{}, fmt.Errorf("power.shutdown_command must not be empty")
	}
	if len(cfg.SessionCommand) == 0 {
		return Config{}, fmt.Errorf("sessions.command must not be empty")
	}
	if cfg.CommandTimeout < 0 {
		return Config{}, fmt.Errorf("commands.timeout must not be negative")
	}
	if cfg.ReadTimeout < 0 {
		return Config{}, fmt.Errorf("web.read_timeout must not be negative")
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return Config{}, fmt.Errorf("web.rate_limit and web.rate_burst must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst == 0 {
		return Config{}, fmt.Errorf("web.rate_burst must be at least 1 when web.rate_limit is set")
	}
	if len(cfg.Servers) == 0 {
		return Config{}, fmt.Errorf("servers must list at least one server")
	}

	if strings.TrimSpace(cfg.ActivityLogPath) != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.ActivityLogPath), 0o755); err != nil {
			return Config{}, fmt.Errorf("create telemetry dir: %w", err)
		}
	}
	return cfg, nil
}
