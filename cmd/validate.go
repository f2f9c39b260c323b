package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/registry"
)

// ValidateCommand checks a document's structure and block types.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a document for structural problems",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, c *cli.Command) error {
			doc, err := readDocument(c.Args().First())
			if err != nil {
				return err
			}
			return validateDocument(c, doc, registry.Default())
		},
	}
}

func validateDocument(c *cli.Command, doc *core.Document, reg *registry.Registry) error {
	w := stdout(c)

	unknown := map[string]int{}
	doc.Walk(func(b core.Block, depth int) bool {
		if _, ok := reg.Get(b.Type); !ok && b.Type != "" {
			unknown[b.Type]++
		}
		return true
	})
	types := make([]string, 0, len(unknown))
	for t := range unknown {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "warning: unknown block type %q (%d blocks) renders nothing\n", t, unknown[t])
	}

	if err := doc.Validate(); err != nil {
		errs := multierr.Errors(err)
		for _, e := range errs {
			fmt.Fprintf(w, "error: %v\n", e)
		}
		return fmt.Errorf("document is invalid: %d problems", len(errs))
	}

	fmt.Fprintf(w, "ok: %d blocks\n", doc.Count())
	return nil
}
