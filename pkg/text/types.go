package text

import (
	"context"

	"github.com/walteh/splicerc/pkg/block"
)

// BlockStatus is the outcome of splicing a single block into a target
type BlockStatus int

const (
	BlockUnknown   BlockStatus = iota
	BlockReplaced              // target block differed and was replaced
	BlockUnchanged             // target block already equals the template block
	BlockMissing               // target has no such block
)

// String returns a string representation of BlockStatus
func (s BlockStatus) String() string {
	switch s {
	case BlockReplaced:
		return "replaced"
	case BlockUnchanged:
		return "unchanged"
	case BlockMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Fragment pairs a rule with the text it extracted from the template
type Fragment struct {
	Rule block.Rule
	Line int // line in the template
	Text string
}

// BlockResult describes what happened to one block of a target
type BlockResult struct {
	Name   string
	Status BlockStatus

	// Line is the line of the block in the target, zero when missing
	Line int

	OldText string
	NewText string
}

// SpliceResult contains the results of a splice
type SpliceResult struct {
	// WasModified indicates if the target content changed
	WasModified bool

	// ReplacementCount is the number of blocks that were replaced
	ReplacementCount int

	// OriginalContent is the target before splicing
	OriginalContent []byte

	// ModifiedContent is the target after splicing
	ModifiedContent []byte

	// Blocks holds one result per fragment, in fragment order
	Blocks []BlockResult
}

// Splicer replaces blocks of a target with the matching blocks of a template
type Splicer interface {
	// Extract pulls every rule's block out of the template.
	// It fails if any rule does not match exactly once.
	Extract(ctx context.Context, template block.Source, rules []block.Rule) ([]Fragment, error)

	// Apply replaces the matching blocks of target with the fragments
	Apply(ctx context.Context, target block.Source, fragments []Fragment) (*SpliceResult, error)

	// Splice is Extract followed by Apply
	Splice(ctx context.Context, target, template block.Source, rules []block.Rule) (*SpliceResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []block.Rule) error
}
