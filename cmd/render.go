package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/render"
)

// RenderCommand renders a document file through the target adapter.
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a document to email or web HTML",
		ArgsUsage: "FILE",
		Flags: append(renderFlags(),
			&cli.BoolFlag{
				Name:  "standalone",
				Usage: "Wrap web output in a complete HTML page",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			target, err := resolveTarget(c, cfg)
			if err != nil {
				return err
			}
			doc, err := readDocument(c.Args().First())
			if err != nil {
				return err
			}
			prepareDocument(doc, cfg, target)

			opts := renderOptions(c, cfg)
			var html string
			if target == blocks.Web && c.Bool("standalone") {
				html = render.NewWebAdapter().GenerateStandalonePage(doc, opts)
			} else {
				html = render.Document(render.ForTarget(target), doc, opts)
			}
			return writeOutput(c, c.String("out"), html)
		},
	}
}
