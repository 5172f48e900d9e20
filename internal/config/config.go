// Package config provides Viper-based configuration loading for the battle simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// FactionConfig holds the settings shared by every unit of one faction.
type FactionConfig struct {
	// Name is the faction's display name, reported as the winner.
	Name string `mapstructure:"name"`
	// Glyph is the single map character marking this faction's units.
	Glyph string `mapstructure:"glyph"`
	// AttackPower is the damage each unit deals per attack.
	AttackPower int `mapstructure:"attack_power"`
	// HitPoints is each unit's starting hit points.
	HitPoints int `mapstructure:"hit_points"`
}

// BattleConfig holds simulation settings.
type BattleConfig struct {
	FactionA FactionConfig `mapstructure:"faction_a"`
	FactionB FactionConfig `mapstructure:"faction_b"`
	// MaxRounds bounds a run; 0 is unbounded.
	MaxRounds int `mapstructure:"max_rounds"`
}

// SearchConfig holds the minimal attack power search settings.
type SearchConfig struct {
	// MaxAttackPower is the highest faction A attack power tried.
	MaxAttackPower int `mapstructure:"max_attack_power"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Search  SearchConfig  `mapstructure:"search"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Search.MaxAttackPower < c.Battle.FactionA.AttackPower {
		errs = append(errs, fmt.Sprintf("search.max_attack_power must be >= battle.faction_a.attack_power, got %d", c.Search.MaxAttackPower))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateFaction(key string, f FactionConfig) []string {
	var errs []string
	if f.Name == "" {
		errs = append(errs, fmt.Sprintf("%s.name must not be empty", key))
	}
	if len(f.Glyph) != 1 {
		errs = append(errs, fmt.Sprintf("%s.glyph must be a single character, got %q", key, f.Glyph))
	} else if f.Glyph == "#" || f.Glyph == "." {
		errs = append(errs, fmt.Sprintf("%s.glyph must not be a terrain glyph, got %q", key, f.Glyph))
	}
	if f.AttackPower < 1 {
		errs = append(errs, fmt.Sprintf("%s.attack_power must be >= 1, got %d", key, f.AttackPower))
	}
	if f.HitPoints < 1 {
		errs = append(errs, fmt.Sprintf("%s.hit_points must be >= 1, got %d", key, f.HitPoints))
	}
	return errs
}

func validateBattle(b BattleConfig) error {
	errs := validateFaction("battle.faction_a", b.FactionA)
	errs = append(errs, validateFaction("battle.faction_b", b.FactionB)...)
	if b.FactionA.Glyph == b.FactionB.Glyph {
		errs = append(errs, "battle.faction_a.glyph and battle.faction_b.glyph must differ")
	}
	if b.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_rounds must be >= 0, got %d", b.MaxRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("battle.faction_a.name", "Elves")
	v.SetDefault("battle.faction_a.glyph", "E")
	v.SetDefault("battle.faction_a.attack_power", 3)
	v.SetDefault("battle.faction_a.hit_points", 200)

	v.SetDefault("battle.faction_b.name", "Goblins")
	v.SetDefault("battle.faction_b.glyph", "G")
	v.SetDefault("battle.faction_b.attack_power", 3)
	v.SetDefault("battle.faction_b.hit_points", 200)

	v.SetDefault("battle.max_rounds", 0)

	v.SetDefault("search.max_attack_power", 200)
}
