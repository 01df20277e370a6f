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

package block

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const componentSource = `import * as React from 'react';

/**
 * Componente para exibir e editar endereço da audiência
 */
function EnderecoCell({ audiencia }: { audiencia: Audiencia }) {
    const x = { a: 1 };
    if (x.a) {
        return <span>{audiencia.id}</span>;
    }
    return null;
}


/**
 * Componente para exibir e editar observações da audiência
 */
function ObservacoesCell({ audiencia }: { audiencia: Audiencia }) {
    return <p>{audiencia.observacoes}</p>;
}

export function Other() {
    return null;
}
`

const enderecoBlock = `/**
 * Componente para exibir e editar endereço da audiência
 */
function EnderecoCell({ audiencia }: { audiencia: Audiencia }) {
    const x = { a: 1 };
    if (x.a) {
        return <span>{audiencia.id}</span>;
    }
    return null;
}`

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		rule     Rule
		wantText string
		wantLine int
		wantErr  error
	}{
		{
			name:     "marker_and_function",
			src:      componentSource,
			rule:     Rule{Name: "endereco", Function: "EnderecoCell", Marker: `Componente para (?:exibir e )?editar endereço`},
			wantText: enderecoBlock,
			wantLine: 3,
		},
		{
			name:     "function_only_keeps_doc_comment",
			src:      componentSource,
			rule:     Rule{Name: "endereco", Function: "EnderecoCell"},
			wantText: enderecoBlock,
			wantLine: 3,
		},
		{
			name:     "exported_function_without_comment",
			src:      componentSource,
			rule:     Rule{Name: "other", Function: "Other"},
			wantText: "export function Other() {\n    return null;\n}",
			wantLine: 22,
		},
		{
			name:    "marker_mismatch",
			src:     componentSource,
			rule:    Rule{Name: "endereco", Function: "EnderecoCell", Marker: `editar observações`},
			wantErr: ErrNotFound,
		},
		{
			name:    "missing_function",
			src:     componentSource,
			rule:    Rule{Name: "missing", Function: "UrlVirtualCell"},
			wantErr: ErrNotFound,
		},
		{
			name:    "duplicate_function",
			src:     componentSource + "\nfunction Other() {\n    return 1;\n}\n",
			rule:    Rule{Name: "other", Function: "Other"},
			wantErr: ErrAmbiguous,
		},
	}

	locators := map[string]Locator{
		KindRegex:  NewRegexLocator(),
		KindSyntax: NewSyntaxLocator(),
	}

	for kind, locator := range locators {
		for _, tt := range tests {
			t.Run(kind+"/"+tt.name, func(t *testing.T) {
				ctx := testContext(t)
				src := Source{Path: "component.tsx", Content: []byte(tt.src)}

				got, err := locator.Locate(ctx, src, tt.rule)
				if tt.wantErr != nil {
					require.Error(t, err, "locate should fail")
					assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
					assert.Contains(t, err.Error(), tt.rule.Name, "error should name the block")
					return
				}

				require.NoError(t, err, "locate should succeed")
				assert.Equal(t, tt.wantText, got.Text, "block text should match")
				assert.Equal(t, tt.wantLine, got.Line, "block line should match")
				assert.Equal(t, tt.wantText, tt.src[got.Start:got.End], "offsets should cover the text")
				assert.Equal(t, tt.rule.Name, got.Name, "block name should match")
			})
		}
	}
}

func TestRegexLocator_Pattern(t *testing.T) {
	ctx := testContext(t)
	src := Source{Path: "component.tsx", Content: []byte(componentSource)}

	got, err := NewRegexLocator().Locate(ctx, src, Rule{
		Name:    "observacoes",
		Pattern: `^function ObservacoesCell(?=\()[\s\S]*?^\}`,
	})
	require.NoError(t, err, "locate should succeed")
	assert.True(t, strings.HasPrefix(got.Text, "function ObservacoesCell("), "block should start at the signature")
	assert.True(t, strings.HasSuffix(got.Text, "}"), "block should end at the closing brace")
	assert.Equal(t, 18, got.Line, "block line should match")
}

func TestRegexLocator_MultibyteOffsets(t *testing.T) {
	ctx := testContext(t)
	content := "// ção ção ção\nfunction A() {\n    return 'é';\n}\n"
	src := Source{Path: "a.ts", Content: []byte(content)}

	got, err := NewRegexLocator().Locate(ctx, src, Rule{Name: "a", Function: "A"})
	require.NoError(t, err, "locate should succeed")
	assert.Equal(t, "function A() {\n    return 'é';\n}", content[got.Start:got.End], "byte offsets should survive multibyte text")
}

func TestRegexLocator_InvalidUTF8(t *testing.T) {
	ctx := testContext(t)
	src := Source{Path: "bad.ts", Content: []byte("function A() {\xff\n}\n")}

	_, err := NewRegexLocator().Locate(ctx, src, Rule{Name: "a", Function: "A"})
	require.Error(t, err, "invalid UTF-8 should fail")
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

const oneLineSource = `/**
 * Componente para editar endereço
 */
function EnderecoCell() { return null }

function Next() {
  return 1;
}
`

func TestRegexLocator_OneLineFunction(t *testing.T) {
	ctx := testContext(t)
	src := Source{Path: "component.tsx", Content: []byte(oneLineSource)}

	_, err := NewRegexLocator().Locate(ctx, src, Rule{Name: "endereco", Function: "EnderecoCell", Marker: "editar endereço"})
	require.Error(t, err, "a match running into Next must be rejected")
	assert.ErrorIs(t, err, ErrUnbounded)
	assert.Contains(t, err.Error(), "locator: syntax")
	assert.Contains(t, err.Error(), "line 1")
}

func TestSyntaxLocator_OneLineFunction(t *testing.T) {
	ctx := testContext(t)
	src := Source{Path: "component.tsx", Content: []byte(oneLineSource)}

	got, err := NewSyntaxLocator().Locate(ctx, src, Rule{Name: "endereco", Function: "EnderecoCell", Marker: "editar endereço"})
	require.NoError(t, err)
	assert.Equal(t, "/**\n * Componente para editar endereço\n */\nfunction EnderecoCell() { return null }", got.Text)
}

func TestSyntaxLocator_UnsupportedExtension(t *testing.T) {
	ctx := testContext(t)
	src := Source{Path: "notes.txt", Content: []byte("function A() {\n}\n")}

	_, err := NewSyntaxLocator().Locate(ctx, src, Rule{Name: "a", Function: "A"})
	require.Error(t, err, "unsupported extension should fail")
	assert.Contains(t, err.Error(), "no grammar")
}

func TestNewLocator(t *testing.T) {
	for _, kind := range []string{"", KindRegex, KindSyntax} {
		loc, err := NewLocator(kind)
		require.NoError(t, err, "kind %q should be known", kind)
		assert.NotNil(t, loc)
	}

	_, err := NewLocator("ast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown locator "ast"`)
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		wantError string
	}{
		{
			name: "function_rule",
			rule: Rule{Name: "a", Function: "A", Marker: "doc"},
		},
		{
			name: "pattern_rule",
			rule: Rule{Name: "a", Pattern: `^function A[\s\S]*?^\}`},
		},
		{
			name:      "missing_name",
			rule:      Rule{Function: "A"},
			wantError: "name is required",
		},
		{
			name:      "missing_function_and_pattern",
			rule:      Rule{Name: "a"},
			wantError: "function or pattern is required",
		},
		{
			name:      "bad_pattern",
			rule:      Rule{Name: "a", Pattern: `(unclosed`},
			wantError: "compiling pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
