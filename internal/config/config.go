// Package config loads the cmd/qentem CLI's render defaults from a YAML
// file, the way the teacher's own CLI loads its run configuration. Never
// used to parameterize the core scanner/parser/compiler/evaluator/render
// packages themselves — those take their inputs as plain Go values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qentem-go/qentem/numconv"
)

// Config is the CLI's render configuration: numeric precision and
// formatting style for {math:}/{var:} output, where to look up template
// files, and an optional JSON schema to validate render input against
// before rendering (cmd/qentem lint).
type Config struct {
	Precision    int    `yaml:"precision"`
	RealFormat   string `yaml:"real_format"`
	TemplateRoot string `yaml:"template_root"`
	SchemaPath   string `yaml:"schema_path"`
}

// Default matches the original engine's default of 15 significant digits
// in the trim-trailing-zeros ("default") style.
func Default() Config {
	return Config{Precision: 15, RealFormat: "default", TemplateRoot: "."}
}

// Load reads and parses a YAML config file, filling in Default() values
// for anything the file leaves unset.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("qentem: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("qentem: parse config %s: %w", path, err)
	}
	if cfg.Precision <= 0 {
		cfg.Precision = 15
	}
	return cfg, nil
}

// Format translates RealFormat's YAML string into numconv's enum,
// defaulting to FormatDefault for an unset or unrecognized value.
func (c Config) Format() numconv.Format {
	switch c.RealFormat {
	case "fixed":
		return numconv.FormatFixed
	case "semi_fixed", "semi-fixed":
		return numconv.FormatSemiFixed
	default:
		return numconv.FormatDefault
	}
}
