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

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when a rule matches nothing
	ErrNotFound = errors.Base("block not found")

	// ErrAmbiguous is returned when a rule matches more than once
	ErrAmbiguous = errors.Base("block matched more than once")

	// ErrUnbounded is returned when a composed match runs past the end of
	// its function into the next top-level declaration
	ErrUnbounded = errors.Base("block has no closing brace at column zero")
)

// 🏷️ Locator kinds
const (
	KindRegex  = "regex"
	KindSyntax = "syntax"
)

// 📐 Rule describes how to find a single named block
type Rule struct {
	// Name identifies the block in reports
	Name string

	// Function is the name of the function declaration that starts the block
	Function string

	// Marker must match inside the doc comment directly above the function
	Marker string

	// Pattern overrides Function and Marker and must match the whole block
	Pattern string
}

// 📄 Source is a named text buffer
type Source struct {
	Path    string
	Content []byte
}

// 🧱 Block is a located span of a source
type Block struct {
	Name  string
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
	Line  int // 1-based line of Start
	Text  string
}

// 🔍 Locator finds the single occurrence of a rule in a source
type Locator interface {
	Locate(ctx context.Context, src Source, rule Rule) (*Block, error)
}

// 🏭 NewLocator returns the locator for the given kind
func NewLocator(kind string) (Locator, error) {
	switch kind {
	case "", KindRegex:
		return NewRegexLocator(), nil
	case KindSyntax:
		return NewSyntaxLocator(), nil
	default:
		return nil, errors.Errorf("unknown locator %q", kind)
	}
}

// 🔍 ValidateRule checks that a rule can be located
func ValidateRule(rule Rule) error {
	if rule.Name == "" {
		return errors.Errorf("name is required")
	}
	if rule.Function == "" && rule.Pattern == "" {
		return errors.Errorf("block %s: function or pattern is required", rule.Name)
	}
	if _, err := CompileRule(rule); err != nil {
		return errors.Errorf("block %s: %w", rule.Name, err)
	}
	return nil
}

func newBlock(name string, content []byte, start, end int) Block {
	return Block{
		Name:  name,
		Start: start,
		End:   end,
		Line:  bytes.Count(content[:start], []byte("\n")) + 1,
		Text:  string(content[start:end]),
	}
}

// exactlyOne requires a single match; every locator goes through it
func exactlyOne(rule Rule, src Source, found []Block) (*Block, error) {
	switch len(found) {
	case 0:
		return nil, errors.Errorf("%s in %s: %w", rule.Name, src.Path, ErrNotFound)
	case 1:
		return &found[0], nil
	default:
		lines := make([]int, len(found))
		for i, b := range found {
			lines[i] = b.Line
		}
		return nil, errors.Errorf("%s in %s (lines %v): %w", rule.Name, src.Path, lines, ErrAmbiguous)
	}
}
