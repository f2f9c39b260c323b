package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/config"
	"github.com/rubiojr/blockpress/pkg/static"
)

// StaticCommand renders a document through the static renderer, which
// consults custom block templates before the built-in rules.
func StaticCommand() *cli.Command {
	return &cli.Command{
		Name:      "static",
		Usage:     "Render a document with the static renderer and custom block templates",
		ArgsUsage: "FILE",
		Flags: append(renderFlags(),
			&cli.StringFlag{
				Name:  "renderers-dir",
				Usage: "Directory of <type>.html block templates (default from config)",
			},
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

			r := newStaticRenderer(c, cfg)
			opts := renderOptions(c, cfg)
			var html string
			if target == blocks.Web && c.Bool("standalone") {
				html = r.RenderPage(doc, opts)
			} else {
				html = r.RenderDocument(doc, target, opts)
			}
			return writeOutput(c, c.String("out"), html)
		},
	}
}

func newStaticRenderer(c *cli.Command, cfg *config.Config) *static.Renderer {
	dir := c.String("renderers-dir")
	if dir == "" {
		dir = cfg.RenderersDir
	}
	if dir == "" {
		return static.New()
	}
	cmdLog.Debugf("custom block templates from %s", dir)
	return static.New(static.WithResolver(static.DirResolver{Dir: config.ExpandHome(dir)}))
}
