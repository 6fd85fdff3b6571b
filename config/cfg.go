package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TailwindConfig struct {
		Command        []string      `yaml:"command" validate:"min=1,dive,required"`
		Config         string        `yaml:"config"`
		Source         string        `yaml:"source" validate:"omitempty,filepath"`
		Name           string        `yaml:"name" validate:"required"`
		Autoprefixer   bool          `yaml:"autoprefixer"`
		Args           []string      `yaml:"args"`
		InspectTimeout time.Duration `yaml:"inspect_timeout" validate:"gte=0"`
	}

	WatchConfig struct {
		Ignore []string `yaml:"ignore" validate:"dive,required"`
	}

	BuildConfig struct {
		Tailwind           TailwindConfig `yaml:"tailwind"`
		DefaultStylesheet  string         `yaml:"default_stylesheet" validate:"omitempty,filepath"`
		Output             string         `yaml:"output" validate:"required"`
		RemBase            float64        `yaml:"rem_base" validate:"gt=0"`
		ShorthandBlacklist []string       `yaml:"shorthand_blacklist" validate:"dive,required"`
		Watch              WatchConfig    `yaml:"watch"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Build     BuildConfig    `yaml:"build"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults, applies environment overrides and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	if haveFile {
		// overwrite cfg values with values from the file
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg, err = unmarshalConfig(data, cfg, haveFile)
		if err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}

	changed, err := applyEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
		}
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
