// Package scenario loads chain workload descriptions from TOML or YAML files
// and runs them.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/phroun/chain"
)

// Format identifies the encoding of a scenario file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Workload names accepted in the op field.
const (
	OpAppend       = "append"
	OpInsertMiddle = "insert-middle"
	OpInsertRandom = "insert-random"
	OpInsertBlock  = "insert-block"
	OpReplace      = "replace"
	OpRemove       = "remove"
	OpSlice        = "slice"
	OpKeyedUpsert  = "keyed-upsert"
)

var workloads = []string{
	OpAppend, OpInsertMiddle, OpInsertRandom, OpInsertBlock,
	OpReplace, OpRemove, OpSlice, OpKeyedUpsert,
}

var (
	ErrUnknownFormat   = errors.New("unknown scenario format")
	ErrNoScenarios     = errors.New("no scenarios defined")
	ErrUnknownWorkload = errors.New("unknown workload")
)

// Scenario describes one workload run against a fresh chain.
type Scenario struct {
	Name       string `toml:"name" yaml:"name"`
	Op         string `toml:"op" yaml:"op"`
	Elements   int    `toml:"elements" yaml:"elements"`
	Operations int    `toml:"operations" yaml:"operations"`
	BlockSize  int    `toml:"block_size" yaml:"block_size"`
	Filter     string `toml:"filter" yaml:"filter"`
	Compact    bool   `toml:"compact" yaml:"compact"`
	Seed       uint64 `toml:"seed" yaml:"seed"`
}

// File is the top level of a scenario file.
type File struct {
	Parallel  int        `toml:"parallel" yaml:"parallel"`
	Scenarios []Scenario `toml:"scenarios" yaml:"scenarios"`
}

// ParseError reports a scenario file that could not be decoded.
type ParseError struct {
	Path    string
	Format  Format
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s (%s): %s", e.Path, e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatFor picks the decoder from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads, decodes and validates a scenario file.
func Load(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return parse(path, data, format)
}

// Parse decodes and validates scenario data.
func Parse(data []byte, format Format) (*File, error) {
	return parse("<data>", data, format)
}

func parse(source string, data []byte, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: source, Format: format, Message: err.Error(), Err: err}
	}

	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return &f, nil
}

// Defaults returns the built-in scenario set used when no file is given.
func Defaults() *File {
	f := &File{
		Parallel: 1,
		Scenarios: []Scenario{
			{Name: "Append 100k", Op: OpAppend, Operations: 100_000},
			{Name: "Insert middle (64 into 100k)", Op: OpInsertMiddle, Elements: 100_000, Operations: 64},
			{Name: "Insert random (1k into 100k)", Op: OpInsertRandom, Elements: 100_000, Operations: 1_000, Seed: 1},
			{Name: "Insert blocks (1k x 64)", Op: OpInsertBlock, Elements: 10_000, Operations: 1_000, BlockSize: 64, Compact: true, Seed: 2},
			{Name: "Replace (1 in 100 of 100k)", Op: OpReplace, Elements: 100_000, Operations: 10},
			{Name: "Remove random (1k of 100k)", Op: OpRemove, Elements: 100_000, Operations: 1_000, Seed: 3},
			{Name: "Slice (1k views of 100k)", Op: OpSlice, Elements: 100_000, Operations: 1_000, Seed: 4},
			{Name: "Keyed upsert (2k over 512 keys)", Op: OpKeyedUpsert, Elements: 512, Operations: 2_000, Filter: "none", Seed: 5},
		},
	}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if f.Parallel <= 0 {
		f.Parallel = 1
	}
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("%s #%d", s.Op, i+1)
		}
		if s.BlockSize <= 0 {
			s.BlockSize = 16
		}
		if s.Filter == "" {
			s.Filter = chain.FilterNone.String()
		}
	}
}

// Validate checks every scenario for a known workload and sane sizes.
func (f *File) Validate() error {
	if len(f.Scenarios) == 0 {
		return ErrNoScenarios
	}
	for _, s := range f.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single scenario.
func (s Scenario) Validate() error {
	if !slices.Contains(workloads, s.Op) {
		return fmt.Errorf("scenario %q: %w %q", s.Name, ErrUnknownWorkload, s.Op)
	}
	if s.Elements < 0 || s.Operations < 0 {
		return fmt.Errorf("scenario %q: negative size", s.Name)
	}
	if _, err := chain.ParseFilterKind(s.Filter); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}
