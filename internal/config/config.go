package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Serve ServeConfig `mapstructure:"serve"`
}

// APIConfig points the client at the remote store.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// ServeConfig configures the embedded dev server.
type ServeConfig struct {
	Addr        string   `mapstructure:"addr"`
	JWTSecret   string   `mapstructure:"jwt_secret"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	StoragePath string   `mapstructure:"storage_path"`
	UserEmail   string   `mapstructure:"user_email"`
	UserPass    string   `mapstructure:"user_pass"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("$HOME/.config/drive")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetEnvPrefix("drive")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("serve.user_email", "dev@localhost")
	viper.SetDefault("serve.user_pass", "devpass")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
