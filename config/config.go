package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

// Config is read once at startup and never mutated afterwards.
type Config struct {
	Port           string `mapstructure:"PORT"`
	LocalServerURL string `mapstructure:"LOCAL_SERVER_URL"`

	// Environment is "heroku" when running on a dyno, else "local".
	Environment string
}

func GetConfig() (*Config, error) {
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("LOCAL_SERVER_URL", "http://localhost:8081")
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		// env-only deployments carry no .env file
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.Environment = "local"
	if _, onDyno := os.LookupEnv("DYNO"); onDyno {
		config.Environment = "heroku"
	}
	return &config, nil
}
