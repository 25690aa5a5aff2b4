// Package config reads application settings through coercers, so a port
// arrives as an int and a flag as a bool no matter how the file or the
// environment spelled them.
//
//	src, err := config.Load(config.WithConfigFile("config.yml"), config.WithEnvFile(".env"))
//	port := config.GetOr(src, "server.port", coercez.To[int](coercez.Numeric, coercez.Integer), 8080)
//	from, err := config.Get(src, "mail.from", coercez.CleanEmail)
//
// Values are looked up in this order: process environment, .env file, config
// file. Environment names are the key upper-cased with dots replaced by
// underscores, so "server.port" is read from SERVER_PORT.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zoobzio/coercez"
)

// Source holds loaded settings.
type Source struct {
	v *viper.Viper
}

type loaderConfig struct {
	configFile string
	envFile    string
	envPrefix  string
	defaults   map[string]any
}

// Option configures Load.
type Option func(*loaderConfig)

// WithConfigFile reads settings from a YAML, JSON or TOML file. The format
// follows the extension.
func WithConfigFile(path string) Option {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile reads a .env file. Its entries sit between the process
// environment and the config file.
func WithEnvFile(path string) Option {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// WithEnvPrefix only reads environment variables starting with prefix and an
// underscore.
func WithEnvPrefix(prefix string) Option {
	return func(lc *loaderConfig) { lc.envPrefix = prefix }
}

// WithDefault sets the value used when no other layer has key.
func WithDefault(key string, value any) Option {
	return func(lc *loaderConfig) {
		if lc.defaults == nil {
			lc.defaults = make(map[string]any)
		}
		lc.defaults[key] = value
	}
}

// Load builds a Source from the given files and the process environment.
// Files that are named but missing or malformed are errors.
func Load(opts ...Option) (*Source, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()
	for key, value := range lc.defaults {
		v.SetDefault(key, value)
	}

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", lc.configFile, err)
		}
	}

	if lc.envPrefix != "" {
		v.SetEnvPrefix(lc.envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if lc.envFile != "" {
		entries, err := godotenv.Read(lc.envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", lc.envFile, err)
		}
		bindEnvFile(v, lc.envPrefix, entries)
	}

	return &Source{v: v}, nil
}

// bindEnvFile sets every .env entry that the process environment does not
// already provide. Underscores in a name become both dots and underscores, so
// SERVER_PORT answers "server.port" and "server_port".
func bindEnvFile(v *viper.Viper, prefix string, entries map[string]string) {
	if prefix != "" {
		prefix = strings.ToUpper(prefix) + "_"
	}
	for name, value := range entries {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if prefix != "" {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}
		key := strings.ToLower(name)
		v.Set(key, value)
		if dotted := strings.ReplaceAll(key, "_", "."); dotted != key {
			v.Set(dotted, value)
		}
	}
}

// FromViper wraps an already configured viper instance.
func FromViper(v *viper.Viper) *Source {
	return &Source{v: v}
}

// Lookup returns the raw value stored under key.
func (s *Source) Lookup(key string) (any, bool) {
	if !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}

// Viper exposes the underlying viper instance.
func (s *Source) Viper() *viper.Viper {
	return s.v
}

// Get coerces the value under key. A missing key reaches the coercer as nil,
// so coercers with a fallback still produce a value. Failures carry key as the
// first element of their path.
func Get[O any](src *Source, key string, c coercez.Coercer[any, O]) (O, error) {
	value, _ := src.Lookup(key)
	return c.Named(key).Coerce(value)
}

// GetOr is Get with a default for missing or invalid values.
func GetOr[O any](src *Source, key string, c coercez.Coercer[any, O], fallback O) O {
	value, _ := src.Lookup(key)
	result, _ := c.Named(key).CoerceOr(value, coercez.Default(fallback))
	return result
}
