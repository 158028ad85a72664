package main

import (
	"fmt"
	"os"

	"caravel/internal/tools/boundaries"
)

// Build-time boundary enforcement. Run from the repository root:
//
//	go run ./scripts
//
// Exits non-zero when any domain module reaches into another module's
// internals or when domain logic depends on infrastructure.
func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	violations, err := boundaries.DefaultChecker().Check(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boundary check failed to run: %v\n", err)
		os.Exit(2)
	}

	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		if v.Import == "" {
			fmt.Printf("- %s:%d (%s)\n", v.File, v.Line, v.Rule)
			continue
		}
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}
