package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlrow/internal/processors"
	"github.com/roach88/sqlrow/internal/result"
	"github.com/roach88/sqlrow/internal/row"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the settings shared by every sqlrow command.
type Config struct {
	Database      string            `yaml:"database"`
	KeyStyle      string            `yaml:"key_style"`
	CaseSensitive bool              `yaml:"case_sensitive"`
	Processors    map[string]string `yaml:"processors"`
	LogLevel      string            `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		KeyStyle: row.KeyObjectsNoWarn.String(),
		LogLevel: "info",
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks c against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c.fields()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// fields renders c the way the schema names it, leaving unset optional
// fields out.
func (c Config) fields() map[string]any {
	m := map[string]any{
		"key_style":      c.KeyStyle,
		"log_level":      c.LogLevel,
		"case_sensitive": c.CaseSensitive,
	}
	if c.Database != "" {
		m["database"] = c.Database
	}
	if len(c.Processors) > 0 {
		procs := make(map[string]any, len(c.Processors))
		for k, v := range c.Processors {
			procs[k] = v
		}
		m["processors"] = procs
	}
	return m
}

// Options converts c into the options result sets are built with. Processor
// overrides are applied on top of the default registry.
func (c Config) Options() (result.Options, error) {
	style, err := row.ParseKeyStyle(c.KeyStyle)
	if err != nil {
		return result.Options{}, err
	}
	reg, err := processors.DefaultRegistry().WithNames(c.Processors)
	if err != nil {
		return result.Options{}, err
	}
	return result.Options{
		KeyStyle:      style,
		CaseSensitive: c.CaseSensitive,
		Registry:      reg,
	}, nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
