package text_test

import (
	"context"
	"fmt"

	"github.com/walteh/splicerc/pkg/block"
	"github.com/walteh/splicerc/pkg/text"
)

func ExampleBlockSplicer_Splice() {
	// Create a splicer
	splicer := text.NewBlockSplicer(block.NewRegexLocator(), false)

	template := block.Source{
		Path:    "template.ts",
		Content: []byte("/**\n * Doubles things\n */\nfunction A() {\n    return 2;\n}\n"),
	}
	target := block.Source{
		Path:    "target.ts",
		Content: []byte("const x = 1;\n\nfunction A() {\n    return 1;\n}\n\nconst y = 2;\n"),
	}

	// Splice
	result, err := splicer.Splice(context.Background(), target, template, []block.Rule{
		{Name: "A", Function: "A"},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Print results
	fmt.Printf("%s", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// const x = 1;
	//
	// /**
	//  * Doubles things
	//  */
	// function A() {
	//     return 2;
	// }
	//
	// const y = 2;
	// Changes: 1
	// Was Modified: true
}

func ExampleBlockSplicer_ValidateRules() {
	splicer := text.NewBlockSplicer(block.NewRegexLocator(), false)

	err := splicer.ValidateRules([]block.Rule{
		{Name: "a", Function: "A"},
		{Name: "a", Function: "B"},
	})
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1: duplicate block name "a"
}
