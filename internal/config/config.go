// Package config loads dotmd settings from an optional .dotmd.yaml file,
// DOTMD_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const (
	fileName  = ".dotmd"
	fileType  = "yaml"
	envPrefix = "DOTMD"
)

// Keys understood by [Load].
const (
	KeyFilter       = "filter"
	KeyIgnore       = "ignore"
	KeyBuildDir     = "build_dir"
	KeyCacheFile    = "cache_file"
	KeyEnvFile      = "env_file"
	KeyEnvPrefix    = "env_prefix"
	KeyStrictBackup = "strict_backup"
	KeyDebug        = "debug"
	KeyLogFormat    = "log_format"
	KeyLogFile      = "log_file"
)

// Config is the resolved configuration.
type Config struct {
	Filter       string
	Ignore       []string
	BuildDir     string
	CacheFile    string
	EnvFile      string
	EnvPrefix    string
	StrictBackup bool
	Debug        bool
	LogFormat    string
	LogFile      string
}

// New returns a viper instance with defaults, the environment and the
// config file search path set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyFilter, "**/*.md")
	v.SetDefault(KeyIgnore, []string{"**/node_modules/**", "**/build/**"})
	v.SetDefault(KeyBuildDir, "build")
	v.SetDefault(KeyCacheFile, ".dotfiles-md-cache")
	v.SetDefault(KeyEnvFile, ".env")
	v.SetDefault(KeyEnvPrefix, "%")
	v.SetDefault(KeyStrictBackup, true)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFormat, "text")

	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if any, and resolves every key. A file given
// explicitly must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if len(file) != 0 {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if len(file) != 0 || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return &Config{
		Filter:       v.GetString(KeyFilter),
		Ignore:       v.GetStringSlice(KeyIgnore),
		BuildDir:     v.GetString(KeyBuildDir),
		CacheFile:    v.GetString(KeyCacheFile),
		EnvFile:      v.GetString(KeyEnvFile),
		EnvPrefix:    v.GetString(KeyEnvPrefix),
		StrictBackup: v.GetBool(KeyStrictBackup),
		Debug:        v.GetBool(KeyDebug),
		LogFormat:    v.GetString(KeyLogFormat),
		LogFile:      v.GetString(KeyLogFile),
	}, nil
}
