package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName    string
	AppVersion string
	DataDir    string
	OutputDir  string
	LogLevel   string
}

// Load reads configuration from an optional faktura.yml, the environment
// (FAKTURA_ prefix) and a .env file, with working defaults for all fields.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("faktura")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/faktura")

	v.SetEnvPrefix("FAKTURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_name", "faktura")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("data_dir", "data")
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return Config{
		AppName:    v.GetString("app_name"),
		AppVersion: v.GetString("app_version"),
		DataDir:    v.GetString("data_dir"),
		OutputDir:  v.GetString("output_dir"),
		LogLevel:   v.GetString("log_level"),
	}, nil
}

// RegistryPath is the location of the tenant registry store.
func (c Config) RegistryPath() string {
	return filepath.Join(c.DataDir, "setup.db")
}

// TenantStorePath names a tenant's ledger store by its pre-allocated id.
func (c Config) TenantStorePath(id int64) string {
	return filepath.Join(c.DataDir, fmt.Sprintf("%d.db", id))
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
