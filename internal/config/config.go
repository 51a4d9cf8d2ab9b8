// Package config loads and validates harness configuration.
//
// Configuration is a small YAML file decoded strictly (unknown fields are
// rejected, catching typos) and then checked against an embedded CUE
// schema before use. Every field is optional; defaults cover the common
// case of running the suite with no file at all.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/forthkit/unit/internal/forth"
)

// schemaCUE constrains configuration values beyond what the YAML decoder
// can express.
const schemaCUE = `
#Config: {
	suite_name?: string & !=""
	core_size?:  int & >=32
	image_db?:   string & !=""
}
`

// Config holds the harness run parameters.
type Config struct {
	// SuiteName appears in the banner and summary lines.
	SuiteName string `yaml:"suite_name"`

	// CoreSize bounds the engine's data stack depth, in cells.
	CoreSize int `yaml:"core_size"`

	// ImageDB is the path of the SQLite core image catalog.
	ImageDB string `yaml:"image_db"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		SuiteName: "forthkit",
		CoreSize:  forth.DefaultCoreSize,
		ImageDB:   "unit.images.db",
	}
}

// Load reads, validates, and defaults a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML configuration bytes.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject unknown fields (typos)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		// An empty document is a valid all-defaults config.
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return withDefaults(cfg), nil
}

// validate unifies the decoded config with the CUE schema. Only fields
// the document actually set participate; unset fields fall through to
// defaults and must not trip the schema's lower bounds.
func validate(cfg Config) error {
	doc := map[string]any{}
	if cfg.SuiteName != "" {
		doc["suite_name"] = cfg.SuiteName
	}
	if cfg.CoreSize != 0 {
		doc["core_size"] = cfg.CoreSize
	}
	if cfg.ImageDB != "" {
		doc["image_db"] = cfg.ImageDB
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}
	return schema.Unify(ctx.Encode(doc)).Validate()
}

func withDefaults(cfg Config) Config {
	def := Default()
	if cfg.SuiteName == "" {
		cfg.SuiteName = def.SuiteName
	}
	if cfg.CoreSize == 0 {
		cfg.CoreSize = def.CoreSize
	}
	if cfg.ImageDB == "" {
		cfg.ImageDB = def.ImageDB
	}
	return cfg
}
