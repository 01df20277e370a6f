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
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"gitlab.com/tozd/go/errors"
)

// 🌳 SyntaxLocator finds top-level function declarations in a parsed tree,
// so formatting inside the block does not matter.
// Rules with an explicit Pattern are handed to the regex locator.
type SyntaxLocator struct {
	fallback *RegexLocator
}

// 🏭 NewSyntaxLocator creates a new SyntaxLocator
func NewSyntaxLocator() *SyntaxLocator {
	return &SyntaxLocator{fallback: NewRegexLocator()}
}

func languageFor(path string) (*sitter.Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return tsx.GetLanguage(), nil
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage(), nil
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), nil
	default:
		return nil, errors.Errorf("no grammar for %q", path)
	}
}

// Locate implements Locator.Locate
func (l *SyntaxLocator) Locate(ctx context.Context, src Source, rule Rule) (*Block, error) {
	if rule.Pattern != "" {
		return l.fallback.Locate(ctx, src, rule)
	}

	lang, err := languageFor(src.Path)
	if err != nil {
		return nil, errors.Errorf("block %s: %w", rule.Name, err)
	}

	var marker *regexp2.Regexp
	if rule.Marker != "" {
		marker, err = regexp2.Compile(rule.Marker, regexp2.None)
		if err != nil {
			return nil, errors.Errorf("block %s: compiling marker: %w", rule.Name, err)
		}
		marker.MatchTimeout = defaultMatchTimeout
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src.Content)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", src.Path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var found []Block
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if !declaresFunction(node, rule.Function, src.Content) {
			continue
		}

		start := node.StartByte()
		comment := docComment(node, src.Content)
		if marker != nil {
			if comment == nil {
				continue
			}
			ok, err := marker.MatchString(comment.Content(src.Content))
			if err != nil {
				return nil, errors.Errorf("block %s: matching marker: %w", rule.Name, err)
			}
			if !ok {
				continue
			}
		}
		if comment != nil {
			start = comment.StartByte()
		}
		found = append(found, newBlock(rule.Name, src.Content, int(start), int(node.EndByte())))
	}

	zerolog.Ctx(ctx).Debug().
		Str("block", rule.Name).
		Str("source", src.Path).
		Int("matches", len(found)).
		Msg("syntax locate")

	return exactlyOne(rule, src, found)
}

// declaresFunction reports whether a top-level node declares the named
// function, directly or through an export statement
func declaresFunction(node *sitter.Node, name string, content []byte) bool {
	decl := node
	if node.Type() == "export_statement" {
		decl = node.ChildByFieldName("declaration")
		if decl == nil {
			decl = node.ChildByFieldName("value")
		}
		if decl == nil {
			return false
		}
	}

	switch decl.Type() {
	case "function_declaration", "function", "function_expression":
	default:
		return false
	}

	nameNode := decl.ChildByFieldName("name")
	return nameNode != nil && nameNode.Content(content) == name
}

// docComment returns the /** */ comment directly above node, if any
func docComment(node *sitter.Node, content []byte) *sitter.Node {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return nil
	}
	if !strings.HasPrefix(prev.Content(content), "/**") {
		return nil
	}
	if len(bytes.TrimSpace(content[prev.EndByte():node.StartByte()])) != 0 {
		return nil
	}
	return prev
}
