// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/pkg/block"
)

// DefaultPath is the config file looked up when no --config is given
const DefaultPath = ".splicerc.yaml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes. The path is only used for
	// diagnostics and path-relative variables.
	Parse(ctx context.Context, path string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🧱 Block names one block and how to find it
type Block struct {
	Name     string `json:"name" yaml:"name" hcl:"name,label"`
	Function string `json:"function,omitempty" yaml:"function,omitempty" hcl:"function,optional"`
	Marker   string `json:"marker,omitempty" yaml:"marker,omitempty" hcl:"marker,optional"`
	Pattern  string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
}

// Rule converts the block into a locator rule
func (b Block) Rule() block.Rule {
	return block.Rule{
		Name:     b.Name,
		Function: b.Function,
		Marker:   b.Marker,
		Pattern:  b.Pattern,
	}
}

// 📦 Job splices the blocks of one template into a set of targets
type Job struct {
	Name     string   `json:"name" yaml:"name" hcl:"name,label"`
	Template string   `json:"template" yaml:"template" hcl:"template"`
	Targets  []string `json:"targets" yaml:"targets" hcl:"targets"`
	Locator  string   `json:"locator,omitempty" yaml:"locator,omitempty" hcl:"locator,optional"`
	Strict   bool     `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`
	Blocks   []Block  `json:"blocks" yaml:"blocks" hcl:"block,block"`
}

// Rules returns the locator rules of every block in order
func (j Job) Rules() []block.Rule {
	rules := make([]block.Rule, 0, len(j.Blocks))
	for _, b := range j.Blocks {
		rules = append(rules, b.Rule())
	}
	return rules
}

// 📚 Config represents the complete configuration
type Config struct {
	Jobs   []Job `json:"jobs" yaml:"jobs" hcl:"job,block"`
	Backup bool  `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	Async  bool  `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
	Strict bool  `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`

	location string
}

// Default returns the built-in job used when no config file exists. It
// splices the address and notes cells of the hearings week view from the
// template that sits next to it.
func Default() *Config {
	return &Config{
		Jobs: []Job{
			{
				Name:     "audiencias",
				Template: "temp_endereco_observacoes.tsx",
				Targets:  []string{"app/(dashboard)/audiencias/components/audiencias-visualizacao-semana.tsx"},
				Locator:  block.KindRegex,
				Blocks: []Block{
					{Name: "EnderecoCell", Function: "EnderecoCell", Marker: `Componente para (?:exibir e )?editar endereço`},
					{Name: "ObservacoesCell", Function: "ObservacoesCell", Marker: `Componente para (?:exibir e )?editar observações`},
				},
			},
		},
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("jobs", len(cfg.Jobs)).Msg("configuration loaded")

	return cfg, nil
}

// Dir returns the directory that template and target paths are relative to
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// Location returns the file the config was loaded from, empty for Default
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks if the configuration is valid and fills defaults
func (cfg *Config) Validate() error {
	if len(cfg.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}

	names := make(map[string]bool, len(cfg.Jobs))
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if err := job.validate(i); err != nil {
			return err
		}
		if names[job.Name] {
			return errors.Errorf("duplicate job name %q", job.Name)
		}
		names[job.Name] = true
	}

	return nil
}

func (job *Job) validate(index int) error {
	if job.Template == "" {
		return errors.Errorf("job %d: template is required", index)
	}
	job.Template = filepath.Clean(job.Template)

	// Set defaults
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(job.Template), filepath.Ext(job.Template))
	}
	if job.Locator == "" {
		job.Locator = block.KindRegex
	}
	if job.Locator != block.KindRegex && job.Locator != block.KindSyntax {
		return errors.Errorf("job %s: unknown locator %q", job.Name, job.Locator)
	}

	if len(job.Targets) == 0 {
		return errors.Errorf("job %s: at least one target is required", job.Name)
	}
	for i, t := range job.Targets {
		if !doublestar.ValidatePattern(filepath.ToSlash(t)) {
			return errors.Errorf("job %s: invalid target pattern %q", job.Name, t)
		}
		job.Targets[i] = filepath.Clean(t)
	}

	if len(job.Blocks) == 0 {
		return errors.Errorf("job %s: at least one block is required", job.Name)
	}
	seen := make(map[string]bool, len(job.Blocks))
	for _, b := range job.Blocks {
		if err := block.ValidateRule(b.Rule()); err != nil {
			return errors.Errorf("job %s: %w", job.Name, err)
		}
		if seen[b.Name] {
			return errors.Errorf("job %s: duplicate block name %q", job.Name, b.Name)
		}
		seen[b.Name] = true
	}

	return nil
}

// 📝 String returns a string representation of the job
func (job Job) String() string {
	return fmt.Sprintf("%s: %s -> %s (%d blocks)", job.Name, job.Template, strings.Join(job.Targets, ", "), len(job.Blocks))
}

// 🌐 ExpandTargets resolves the job's target patterns against baseDir. A
// pattern without glob syntax is kept as is, so a missing file surfaces as a
// read error later. Results are relative to baseDir unless the pattern was
// absolute, sorted and free of duplicates.
func ExpandTargets(job Job, baseDir string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, t := range job.Targets {
		slashed := filepath.ToSlash(t)
		if !hasGlobMeta(slashed) {
			add(t)
			continue
		}

		base, pattern := doublestar.SplitPattern(slashed)
		root := filepath.FromSlash(base)
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}

		matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding target %q: %w", t, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("target pattern %q matched no files", t)
		}
		for _, m := range matches {
			add(filepath.FromSlash(path.Join(base, m)))
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[{\`)
}
