package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"domino/internal/domain"
)

var ErrInvalidConfig = errors.New("invalid config")

// GameConfig holds the rule set and runtime knobs shared by the CLI and the match host.
type GameConfig struct {
	HandSize        int   `mapstructure:"hand_size" env:"domino_hand_size"`
	FirstMissDraw   int   `mapstructure:"first_miss_draw" env:"domino_first_miss_draw"`
	LaterMissDraw   int   `mapstructure:"later_miss_draw" env:"domino_later_miss_draw"`
	DrawWhenBlocked bool  `mapstructure:"draw_when_blocked" env:"domino_draw_when_blocked"`
	Seed            int64 `mapstructure:"seed" env:"domino_seed"`
	// SeedSet records that a seed was given at all, so an explicit 0 is kept.
	SeedSet  bool   `mapstructure:"-"`
	LogLevel string `mapstructure:"log_level" env:"domino_log_level"`
	// Autoplay lets the match host resolve turns on its own every TurnDelayTicks.
	Autoplay       bool `mapstructure:"autoplay" env:"domino_autoplay"`
	TurnDelayTicks int  `mapstructure:"turn_delay_ticks" env:"domino_turn_delay_ticks"`
	// SaveResults stores each finished match in server storage.
	SaveResults bool `mapstructure:"save_results" env:"domino_save_results"`
}

// Default returns the classic rules with a time-based seed.
func Default() GameConfig {
	r := domain.DefaultRules()
	return GameConfig{
		HandSize:        r.HandSize,
		FirstMissDraw:   r.FirstMissDraw,
		LaterMissDraw:   r.LaterMissDraw,
		DrawWhenBlocked: r.DrawWhenBlocked,
		LogLevel:        "info",
		TurnDelayTicks:  1,
		SaveResults:     true,
	}
}

// Rules extracts the domain rule set.
func (c GameConfig) Rules() domain.Rules {
	return domain.Rules{
		HandSize:        c.HandSize,
		FirstMissDraw:   c.FirstMissDraw,
		LaterMissDraw:   c.LaterMissDraw,
		DrawWhenBlocked: c.DrawWhenBlocked,
	}
}

// ResolveSeed returns the configured seed, or one from the clock when none was given.
func (c GameConfig) ResolveSeed() int64 {
	if c.SeedSet {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// Validate rejects configs that cannot run a game.
func (c GameConfig) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TurnDelayTicks < 1 {
		return fmt.Errorf("%w: turn_delay_ticks must be at least 1, got %d", ErrInvalidConfig, c.TurnDelayTicks)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Load reads an optional config file, DOMINO_* environment variables and
// any flags in fs, in increasing priority. An empty path skips the file.
func Load(path string, fs *pflag.FlagSet) (GameConfig, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("hand_size", def.HandSize)
	v.SetDefault("first_miss_draw", def.FirstMissDraw)
	v.SetDefault("later_miss_draw", def.LaterMissDraw)
	v.SetDefault("draw_when_blocked", def.DrawWhenBlocked)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("autoplay", def.Autoplay)
	v.SetDefault("turn_delay_ticks", def.TurnDelayTicks)
	v.SetDefault("save_results", def.SaveResults)

	v.SetEnvPrefix("DOMINO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// seed has no default, so IsSet reports whether any source gave one.
	if err := v.BindEnv("seed"); err != nil {
		return GameConfig{}, fmt.Errorf("bind seed env: %w", err)
	}

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return GameConfig{}, bindErr
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return GameConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c GameConfig
	if err := v.Unmarshal(&c); err != nil {
		return GameConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.SeedSet = v.IsSet("seed")
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// FromRuntimeEnv decodes the server runtime environment map on top of the defaults.
func FromRuntimeEnv(vars map[string]string) (GameConfig, error) {
	c := Default()
	if err := env.ParseWithOptions(&c, env.Options{Environment: vars}); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	_, c.SeedSet = vars["domino_seed"]
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig installs the process-wide config from the runtime env once.
func LoadGameConfig(vars map[string]string) error {
	loadOnce.Do(func() {
		c, err := FromRuntimeEnv(vars)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the process-wide config, or the defaults when none was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}
