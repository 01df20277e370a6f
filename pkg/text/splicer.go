package text

import (
	"bytes"
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/splicerc/pkg/block"
	"gitlab.com/tozd/go/errors"
)

// ErrOverlap is returned when two rules locate intersecting target spans
var ErrOverlap = errors.Base("target blocks overlap")

// BlockSplicer implements Splicer on top of a block.Locator
type BlockSplicer struct {
	locator block.Locator
	strict  bool
}

// NewBlockSplicer creates a new BlockSplicer. When strict is set a block
// missing from the target is an error instead of a skipped replacement.
func NewBlockSplicer(locator block.Locator, strict bool) *BlockSplicer {
	return &BlockSplicer{
		locator: locator,
		strict:  strict,
	}
}

// Extract implements Splicer.Extract
func (s *BlockSplicer) Extract(ctx context.Context, template block.Source, rules []block.Rule) ([]Fragment, error) {
	fragments := make([]Fragment, 0, len(rules))
	for _, rule := range rules {
		b, err := s.locator.Locate(ctx, template, rule)
		if err != nil {
			return nil, errors.Errorf("extracting from template: %w", err)
		}
		fragments = append(fragments, Fragment{Rule: rule, Line: b.Line, Text: b.Text})
	}
	return fragments, nil
}

type locatedSpan struct {
	index int
	block *block.Block
}

// Apply implements Splicer.Apply
func (s *BlockSplicer) Apply(ctx context.Context, target block.Source, fragments []Fragment) (*SpliceResult, error) {
	logger := zerolog.Ctx(ctx)

	result := &SpliceResult{
		OriginalContent: target.Content,
		ModifiedContent: target.Content,
		Blocks:          make([]BlockResult, len(fragments)),
	}

	var spans []locatedSpan
	for i, frag := range fragments {
		b, err := s.locator.Locate(ctx, target, frag.Rule)
		if err != nil {
			if errors.Is(err, block.ErrNotFound) && !s.strict {
				logger.Warn().Str("block", frag.Rule.Name).Str("target", target.Path).Msg("block missing from target, skipping")
				result.Blocks[i] = BlockResult{Name: frag.Rule.Name, Status: BlockMissing, NewText: frag.Text}
				continue
			}
			return nil, errors.Errorf("locating in target: %w", err)
		}

		st := BlockReplaced
		if b.Text == frag.Text {
			st = BlockUnchanged
		} else {
			result.ReplacementCount++
		}
		result.Blocks[i] = BlockResult{
			Name:    frag.Rule.Name,
			Status:  st,
			Line:    b.Line,
			OldText: b.Text,
			NewText: frag.Text,
		}
		spans = append(spans, locatedSpan{index: i, block: b})
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].block.Start < spans[b].block.Start })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1].block, spans[i].block
		if cur.Start < prev.End {
			return nil, errors.Errorf("%s and %s in %s: %w", prev.Name, cur.Name, target.Path, ErrOverlap)
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(target.Content))
	pos := 0
	for _, sp := range spans {
		buf.Write(target.Content[pos:sp.block.Start])
		buf.WriteString(fragments[sp.index].Text)
		pos = sp.block.End
	}
	buf.Write(target.Content[pos:])

	result.ModifiedContent = buf.Bytes()
	result.WasModified = !bytes.Equal(result.OriginalContent, result.ModifiedContent)

	logger.Debug().
		Str("target", target.Path).
		Int("replacements", result.ReplacementCount).
		Bool("modified", result.WasModified).
		Msg("applied fragments")

	return result, nil
}

// Splice implements Splicer.Splice
func (s *BlockSplicer) Splice(ctx context.Context, target, template block.Source, rules []block.Rule) (*SpliceResult, error) {
	fragments, err := s.Extract(ctx, template, rules)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, target, fragments)
}

// ValidateRules implements Splicer.ValidateRules
func (s *BlockSplicer) ValidateRules(rules []block.Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, rule := range rules {
		if err := block.ValidateRule(rule); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		if seen[rule.Name] {
			return errors.Errorf("rule %d: duplicate block name %q", i, rule.Name)
		}
		seen[rule.Name] = true
	}
	return nil
}
