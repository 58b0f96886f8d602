package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
)

var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()

	Ctx = context.Background()
)

const (
	DefaultDB  = "navi.db"
	DefaultURL = "https://cloud.tenable.com"

	envPrefix = "NAVI"
)

// Config holds the settings shared by every command.
// Priority: flags > NAVI_* environment > config file > defaults.
type Config struct {
	DB        string        `mapstructure:"db"`
	URL       string        `mapstructure:"url"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Debug     bool          `mapstructure:"debug"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// New returns a viper instance with defaults and environment binding in place
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("db", DefaultDB)
	v.SetDefault("url", DefaultURL)
	v.SetDefault("access_key", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("debug", false)
	v.SetDefault("timeout", time.Duration(0))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the result.
// An empty path looks for ~/.navi.yaml, which may be absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".navi")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// FilePath returns the default config file location
func FilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".navi.yaml"
	}
	return filepath.Join(home, ".navi.yaml")
}
