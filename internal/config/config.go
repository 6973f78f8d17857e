// Package config loads the fixer's settings.
//
// Settings come from, lowest priority first:
// 1. built-in defaults
// 2. .ansible-lint-fix.yaml in the role directory, then the working directory
//    (or the file given with --config)
// 3. ANSIBLE_LINT_FIX_* environment variables (placeholders.author ->
//    ANSIBLE_LINT_FIX_PLACEHOLDERS_AUTHOR)
//
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sokinpui/skillstack/internal/rules"
	"github.com/sokinpui/skillstack/model"
)

const (
	// FileName is the config file base name looked up without --config.
	FileName  = ".ansible-lint-fix"
	envPrefix = "ANSIBLE_LINT_FIX"
)

// Config is the root configuration structure.
type Config struct {
	Placeholders PlaceholderConfig `mapstructure:"placeholders"`
	PlayName     PlayNameConfig    `mapstructure:"play_name"`
	Exclude      []string          `mapstructure:"exclude"`
	Skip         []string          `mapstructure:"skip"`
	Backup       bool              `mapstructure:"backup"`
	Validate     bool              `mapstructure:"validate"`
	Log          LogConfig         `mapstructure:"log"`
}

// PlaceholderConfig holds the canonical galaxy_info values.
type PlaceholderConfig struct {
	Author  string `mapstructure:"author"`
	Company string `mapstructure:"company"`
	License string `mapstructure:"license"`
}

// PlayNameConfig controls synthesized play names.
type PlayNameConfig struct {
	Prefix   string `mapstructure:"prefix"`
	Fallback string `mapstructure:"fallback"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// Load reads configuration. configFile, when set, must exist; otherwise the
// search directories are tried in order and a missing file is not an error.
func Load(configFile string, searchDirs ...string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Check reports configuration errors.
func (c *Config) Check() error {
	if _, err := c.SkipCategories(); err != nil {
		return err
	}
	if strings.TrimSpace(c.PlayName.Prefix) == "" {
		return fmt.Errorf("play_name.prefix must not be empty")
	}
	return nil
}

// SkipCategories resolves the skip list to categories.
func (c *Config) SkipCategories() ([]model.Category, error) {
	categories := make([]model.Category, 0, len(c.Skip))
	for _, code := range c.Skip {
		cat, ok := model.CategoryByCode(strings.TrimSpace(code))
		if !ok {
			return nil, fmt.Errorf("skip: unknown rule %q", code)
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// RuleOptions builds the transform options for a role.
func (c *Config) RuleOptions(roleName string) rules.Options {
	return rules.Options{
		RoleName: roleName,
		Placeholders: rules.Placeholders{
			Author:  c.Placeholders.Author,
			Company: c.Placeholders.Company,
			License: c.Placeholders.License,
		},
		PlayNaming: rules.PlayNaming{
			Prefix:   c.PlayName.Prefix,
			Fallback: c.PlayName.Fallback,
		},
	}
}

func setDefaults(v *viper.Viper) {
	placeholders := rules.DefaultPlaceholders()
	v.SetDefault("placeholders.author", placeholders.Author)
	v.SetDefault("placeholders.company", placeholders.Company)
	v.SetDefault("placeholders.license", placeholders.License)

	naming := rules.DefaultPlayNaming()
	v.SetDefault("play_name.prefix", naming.Prefix)
	v.SetDefault("play_name.fallback", naming.Fallback)

	v.SetDefault("exclude", []string{})
	v.SetDefault("skip", []string{})
	v.SetDefault("backup", false)
	v.SetDefault("validate", false)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}
