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
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const defaultMatchTimeout = 5 * time.Second

// commentBody matches doc comment text without running past its closing "*/"
const commentBody = `(?:(?!\*/)[\s\S])*?`

// topLevelFunction matches a function declaration starting at column zero
var topLevelFunction = regexp2.MustCompile(`^(?:export\s+(?:default\s+)?)?(?:async\s+)?function\b`, regexp2.Multiline)

// 🔎 RegexLocator finds blocks with lookaround-capable regular expressions
type RegexLocator struct {
	timeout time.Duration
}

// 🏭 NewRegexLocator creates a new RegexLocator
func NewRegexLocator() *RegexLocator {
	return &RegexLocator{timeout: defaultMatchTimeout}
}

// CompileRule builds the expression for a rule. An explicit Pattern is used
// as is; otherwise the doc comment marker and function name are composed
// into a block that runs to the first column-zero closing brace.
func CompileRule(rule Rule) (*regexp2.Regexp, error) {
	expr := rule.Pattern
	if expr == "" {
		expr = composePattern(rule)
	}
	re, err := regexp2.Compile(expr, regexp2.Multiline)
	if err != nil {
		return nil, errors.Errorf("compiling pattern: %w", err)
	}
	return re, nil
}

func composePattern(rule Rule) string {
	var b strings.Builder
	b.WriteString(`^`)
	if rule.Marker != "" {
		b.WriteString(`/\*\*` + commentBody + `(?:` + rule.Marker + `)` + commentBody + `\*/\s*`)
	} else {
		b.WriteString(`(?:/\*\*` + commentBody + `\*/\s*)?`)
	}
	b.WriteString(`(?:export\s+(?:default\s+)?)?(?:async\s+)?function\s+`)
	b.WriteString(regexp2.Escape(rule.Function))
	b.WriteString(`\b[\s\S]*?^\}`)
	return b.String()
}

// Locate implements Locator.Locate
func (l *RegexLocator) Locate(ctx context.Context, src Source, rule Rule) (*Block, error) {
	re, err := CompileRule(rule)
	if err != nil {
		return nil, errors.Errorf("block %s: %w", rule.Name, err)
	}
	re.MatchTimeout = l.timeout

	found, err := l.findAll(ctx, re, rule.Name, src.Content)
	if err != nil {
		return nil, errors.Errorf("matching %s in %s: %w", rule.Name, src.Path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("block", rule.Name).
		Str("source", src.Path).
		Int("matches", len(found)).
		Msg("regex locate")

	if rule.Pattern == "" {
		for _, b := range found {
			if err := checkBounded(src, b); err != nil {
				return nil, err
			}
		}
	}

	return exactlyOne(rule, src, found)
}

// checkBounded rejects a composed match that swallowed a following
// top-level function, which happens when the block's own closing brace is
// not at column zero
func checkBounded(src Source, b Block) error {
	count := 0
	m, err := topLevelFunction.FindStringMatch(b.Text)
	for m != nil && err == nil {
		count++
		m, err = topLevelFunction.FindNextMatch(m)
	}
	if err != nil {
		return errors.Errorf("checking %s in %s: %w", b.Name, src.Path, err)
	}
	if count > 1 {
		return errors.Errorf("%s in %s (line %d) runs into the next function, use locator: syntax for this file: %w",
			b.Name, src.Path, b.Line, ErrUnbounded)
	}
	return nil
}

func (l *RegexLocator) findAll(ctx context.Context, re *regexp2.Regexp, name string, content []byte) ([]Block, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		return nil, errors.Errorf("content is not valid UTF-8")
	}

	// regexp2 reports rune offsets
	runes := []rune(text)

	var found []Block
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		start := len(string(runes[:m.Index]))
		end := start + len(m.String())
		found = append(found, newBlock(name, content, start, end))
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}
