// Package configloader layers defaults, a YAML file, a .env file and the process
// environment into a typed configuration value.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

// Options tune where the loader looks for its sources.
type Options struct {
	// Defaults are flattened koanf keys ("server.port") loaded first.
	Defaults map[string]any
	// ConfigFile overrides the YAML file path. <SERVICE>_CONFIG_FILE overrides it in turn.
	ConfigFile string
	// EnvFile overrides the dotenv file path.
	EnvFile string
}

// Load builds the configuration for serviceName. Later sources win:
// defaults, YAML file, .env file, process environment (prefixed with SERVICENAME_).
func Load[T Validator](serviceName string, opts Options) (T, error) {
	var cfg T
	k := koanf.New(".")

	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = "config.yaml"
	}
	if fromEnv := os.Getenv(envPrefix + "CONFIG_FILE"); fromEnv != "" {
		configFile = fromEnv
	}
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	// 1. Defaults
	if len(opts.Defaults) > 0 {
		if err := k.Load(confmap.Provider(opts.Defaults, "."), nil); err != nil {
			return cfg, fmt.Errorf("error loading defaults: %w", err)
		}
	}

	// 2. YAML file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 3. .env file, keys go through the same transformation as real env vars
	envTransformer := func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. Process environment, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
