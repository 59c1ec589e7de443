package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Cycle  CycleConfig  `mapstructure:"cycle"`
	Slaves SlavesConfig `mapstructure:"slaves"`
}

type CycleConfig struct {
	Period time.Duration `mapstructure:"period"`
}

type SlavesConfig struct {
	SearchPaths []string   `mapstructure:"search_paths"`
	Configs     []SlaveRef `mapstructure:"configs"`
}

// SlaveRef names one slave instance and the config file (without extension)
// describing it.
type SlaveRef struct {
	Name    string `mapstructure:"name"`
	Profile string `mapstructure:"profile"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetDefault("cycle.period", "10ms")
	viper.SetDefault("slaves.search_paths", []string{"./config"})

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ECAT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
