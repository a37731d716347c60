// Package config loads the apkgen configuration from, in increasing order of
// precedence: built-in defaults, a YAML file, APKGEN_* environment variables,
// and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "APKGEN_"

// Config holds the runtime settings for both serve and build modes.
type Config struct {
	// Listen is the HTTP listen address for serve mode.
	Listen string `koanf:"listen" validate:"required,hostname_port"`
	// ReposDir is where git deck sources are checked out.
	ReposDir string `koanf:"repos" validate:"required"`
	// ScratchDir is the parent for per-encode scratch space. Empty means
	// the system temp directory.
	ScratchDir string `koanf:"scratch"`
}

var validate = validator.New()

// Load builds the configuration. path is an optional YAML file; flags is the
// parsed command-line flag set (nil to skip flag overrides).
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Config{
		Listen:   ":8080",
		ReposDir: "repos",
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
