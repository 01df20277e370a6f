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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	// Save original parsers
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	parsers = nil

	mockParser := &struct {
		Parser
	}{}

	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{
			name:     "yaml_file",
			filename: ".splicerc.yaml",
			want:     &YAMLParser{},
		},
		{
			name:     "yml_file",
			filename: "config.yml",
			want:     &YAMLParser{},
		},
		{
			name:     "json_file",
			filename: "splicerc.JSON",
			want:     &JSONParser{},
		},
		{
			name:     "hcl_file",
			filename: "splicerc.hcl",
			want:     &HCLParser{},
		},
		{
			name:     "unknown_extension",
			filename: "config.txt",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

// 🧪 TestHCLParsing tests HCL config parsing
func TestHCLParsing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splicerc.hcl")

	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_hcl",
			config: `
backup = true

job "audiencias" {
  template = "${config_dir}/temp_endereco_observacoes.tsx"
  targets  = ["app/**/audiencias-visualizacao-semana.tsx"]
  locator  = "syntax"

  block "EnderecoCell" {
    function = "EnderecoCell"
    marker   = "editar endereço"
  }

  block "ObservacoesCell" {
    function = "ObservacoesCell"
  }
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Backup)
				require.Len(t, cfg.Jobs, 1)
				job := cfg.Jobs[0]
				assert.Equal(t, "audiencias", job.Name)
				assert.Equal(t, filepath.Join(dir, "temp_endereco_observacoes.tsx"), job.Template, "config_dir should be interpolated")
				assert.Equal(t, []string{"app/**/audiencias-visualizacao-semana.tsx"}, job.Targets)
				assert.Equal(t, "syntax", job.Locator)
				require.Len(t, job.Blocks, 2)
				assert.Equal(t, Block{Name: "EnderecoCell", Function: "EnderecoCell", Marker: "editar endereço"}, job.Blocks[0])
				assert.Equal(t, Block{Name: "ObservacoesCell", Function: "ObservacoesCell"}, job.Blocks[1])
			},
		},
		{
			name: "invalid_hcl_syntax",
			config: `
job "audiencias" {
  template =
}`,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name: "invalid_block_type",
			config: `
unknown_block {
  foo = "bar"
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "unknown_variable",
			config: `
job "x" {
  template = "${home_dir}/t.tsx"
  targets  = ["a.tsx"]
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
	}

	parser := &HCLParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, path, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// 🧪 TestPathNormalization tests path normalization in config
func TestPathNormalization(t *testing.T) {
	tests := []struct {
		name         string
		template     string
		target       string
		wantTemplate string
		wantTarget   string
	}{
		{
			name:         "clean_paths",
			template:     "templates/cells.tsx",
			target:       "app/page.tsx",
			wantTemplate: "templates/cells.tsx",
			wantTarget:   "app/page.tsx",
		},
		{
			name:         "normalize_slashes",
			template:     "templates//cells.tsx",
			target:       "app/page.tsx/",
			wantTemplate: "templates/cells.tsx",
			wantTarget:   "app/page.tsx",
		},
		{
			name:         "remove_dots",
			template:     "./templates/../templates/cells.tsx",
			target:       "./app/./page.tsx",
			wantTemplate: "templates/cells.tsx",
			wantTarget:   "app/page.tsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Jobs: []Job{{
					Template: tt.template,
					Targets:  []string{tt.target},
					Blocks:   []Block{{Name: "Cell", Function: "Cell"}},
				}},
			}

			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.wantTemplate, cfg.Jobs[0].Template, "template path should be normalized")
			assert.Equal(t, tt.wantTarget, cfg.Jobs[0].Targets[0], "target path should be normalized")
		})
	}
}
