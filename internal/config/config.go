package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env        string           `yaml:"env"`
	Log        LogConfig        `yaml:"log"`
	Discord    DiscordConfig    `yaml:"discord"`
	Moderation ModerationConfig `yaml:"moderation"`
	HTTP       HTTPConfig       `yaml:"http"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DiscordConfig struct {
	Token   string `yaml:"token"`
	AppID   string `yaml:"app_id"`
	GuildID string `yaml:"guild_id"`
}

type ModerationConfig struct {
	MuteRoleName   string        `yaml:"mute_role"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	HistoryViewTTL time.Duration `yaml:"history_view_ttl"`
	EraseViewTTL   time.Duration `yaml:"erase_view_ttl"`
	MaxViews       int           `yaml:"max_views"`
	// SweepRate caps mute-role removals per second during a sweep; 0 disables the cap.
	SweepRate  float64 `yaml:"sweep_rate"`
	SweepBurst int     `yaml:"sweep_burst"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func Default() Config {
	return Config{
		Env: "dev",
		Log: LogConfig{Level: "info"},
		Moderation: ModerationConfig{
			MuteRoleName:   "Muted",
			SweepInterval:  30 * time.Second,
			HistoryViewTTL: 60 * time.Second,
			EraseViewTTL:   30 * time.Second,
			MaxViews:       1024,
			SweepRate:      5,
			SweepBurst:     5,
		},
		HTTP: HTTPConfig{
			Addr:         "",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	normalize(&cfg)
	return cfg, nil
}

// DryRun reports whether the bot should run without a platform connection.
func (c Config) DryRun() bool {
	return strings.TrimSpace(c.Discord.Token) == ""
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// TOKEN is the variable name used by existing deployments.
	if v := firstEnv("TOKEN", "BOT_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_APP_ID"); v != "" {
		cfg.Discord.AppID = v
	}
	if v := os.Getenv("DISCORD_GUILD_ID"); v != "" {
		cfg.Discord.GuildID = v
	}

	if v := os.Getenv("MUTE_ROLE_NAME"); v != "" {
		cfg.Moderation.MuteRoleName = v
	}
	if err := overrideDuration("SWEEP_INTERVAL", &cfg.Moderation.SweepInterval); err != nil {
		return err
	}
	if err := overrideDuration("HISTORY_VIEW_TTL", &cfg.Moderation.HistoryViewTTL); err != nil {
		return err
	}
	if err := overrideDuration("ERASE_VIEW_TTL", &cfg.Moderation.EraseViewTTL); err != nil {
		return err
	}
	if err := overrideInt("MAX_VIEWS", &cfg.Moderation.MaxViews); err != nil {
		return err
	}
	if err := overrideFloat("SWEEP_RATE", &cfg.Moderation.SweepRate); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		cfg.HTTP.Addr = strings.TrimSpace(v)
	}

	return nil
}

func normalize(cfg *Config) {
	cfg.Discord.Token = strings.TrimSpace(cfg.Discord.Token)
	if strings.TrimSpace(cfg.Moderation.MuteRoleName) == "" {
		cfg.Moderation.MuteRoleName = "Muted"
	}
	if cfg.Moderation.SweepInterval <= 0 {
		cfg.Moderation.SweepInterval = 30 * time.Second
	}
	if cfg.Moderation.HistoryViewTTL <= 0 {
		cfg.Moderation.HistoryViewTTL = 60 * time.Second
	}
	if cfg.Moderation.EraseViewTTL <= 0 {
		cfg.Moderation.EraseViewTTL = 30 * time.Second
	}
	if cfg.Moderation.MaxViews <= 0 {
		cfg.Moderation.MaxViews = 1024
	}
	if cfg.Moderation.SweepRate < 0 {
		cfg.Moderation.SweepRate = 0
	}
	if cfg.Moderation.SweepBurst <= 0 {
		cfg.Moderation.SweepBurst = 1
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

func overrideFloat(key string, target *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s float: %w", key, err)
	}
	*target = f
	return nil
}
