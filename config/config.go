package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the optional config file looked up in the search paths.
const FileName = "drillboss"

// Config is the runtime configuration of the game and the headless runner.
type Config struct {
	LogLevel    string `mapstructure:"logLevel"`
	Seed        int64  `mapstructure:"seed"`
	WindowScale int    `mapstructure:"windowScale"`
	Level       string `mapstructure:"level"`
	Debug       bool   `mapstructure:"debug"`
	HotReload   bool   `mapstructure:"hotReload"`
	Autopilot   bool   `mapstructure:"autopilot"`
	SimTicks    int    `mapstructure:"simTicks"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("seed", 1)
	v.SetDefault("windowScale", 3)
	v.SetDefault("level", "ehz2")
	v.SetDefault("debug", false)
	v.SetDefault("hotReload", false)
	v.SetDefault("autopilot", false)
	v.SetDefault("simTicks", 3600)
}

// Load reads drillboss.yaml from the first of dirs that has one, then applies
// DRILLBOSS_* environment overrides. A missing file is not an error.
func Load(dirs ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("DRILLBOSS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.WindowScale < 1 {
		cfg.WindowScale = 1
	}
	return cfg, nil
}
