package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Hostname is the single-label name the responder is authoritative
	// for. Defaults to the OS hostname with any domain part stripped.
	Hostname string `koanf:"hostname" validate:"required,max=63"`

	// Port is the UDP port to bind; LLMNR uses 5355.
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`

	// TTL is the time-to-live advertised on answer records, in seconds.
	TTL uint32 `koanf:"ttl" validate:"required,gte=1,lte=86400"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
}

// envLoader loads environment variables with the prefix "LLMNR_",
// transforming keys to lowercase without the prefix.
// It can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "LLMNR_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "LLMNR_")), value
		},
	}), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("error determining hostname: %w", err)
	}
	// LLMNR names are single labels; strip any domain part.
	hostname, _, _ = strings.Cut(hostname, ".")

	// Load default values using structs provider.
	k.Load(structs.Provider(AppConfig{
		Hostname: hostname,
		Port:     5355,
		TTL:      30,
		Env:      "prod",
		LogLevel: "info",
	}, "koanf"), nil)

	// Load environment variables with prefix "LLMNR_".
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig

	// Unmarshal the loaded configuration into AppConfig struct.
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Validate the configuration.
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
