// Package config loads tablecsv settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oleg578/tablecsv/internal/logger"
)

// Config is the full CLI configuration.
type Config struct {
	Input  InputConfig   `yaml:"input"`
	Output OutputConfig  `yaml:"output"`
	Log    logger.Config `yaml:"log"`
}

// InputConfig controls decoding.
type InputConfig struct {
	Separator              string `yaml:"separator"`
	Quote                  string `yaml:"quote"`
	FailOnMalformedColumns bool   `yaml:"fail_on_malformed_columns"`
	InferNumbers           bool   `yaml:"infer_numbers"`
	// Compression is "auto" (by file extension), "none" or an algorithm name.
	Compression string `yaml:"compression"`
}

// OutputConfig controls encoding.
type OutputConfig struct {
	Separator    string `yaml:"separator"`
	Quote        string `yaml:"quote"`
	CRLF         bool   `yaml:"crlf"`
	AlwaysQuote  bool   `yaml:"always_quote"`
	QuoteNumbers bool   `yaml:"quote_numbers"`
	Compression  string `yaml:"compression"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Separator:              ",",
			Quote:                  `"`,
			FailOnMalformedColumns: true,
			Compression:            "auto",
		},
		Output: OutputConfig{
			Separator:   ",",
			Quote:       `"`,
			Compression: "auto",
		},
		Log: logger.DefaultConfig(),
	}
}

// Load reads path over the defaults, substituting ${VAR} references first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every delimiter is a single byte and that separator and
// quote differ.
func (c *Config) Validate() error {
	var errs []error
	check := func(section, sep, quote string) {
		if _, err := Byte(sep); err != nil {
			errs = append(errs, fmt.Errorf("%s.separator: %w", section, err))
		}
		if _, err := Byte(quote); err != nil {
			errs = append(errs, fmt.Errorf("%s.quote: %w", section, err))
		}
		if sep == quote {
			errs = append(errs, fmt.Errorf("%s: separator and quote must differ", section))
		}
	}
	check("input", c.Input.Separator, c.Input.Quote)
	check("output", c.Output.Separator, c.Output.Quote)
	return errors.Join(errs...)
}

// Byte converts a delimiter setting into the byte it names. `\t` is accepted
// as an escape for tab.
func Byte(s string) (byte, error) {
	if s == `\t` {
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("want a single byte, got %q", s)
	}
	if s[0] == '\n' || s[0] == '\r' {
		return 0, fmt.Errorf("line terminators cannot be delimiters")
	}
	return s[0], nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
