package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// MarkersCommand substitutes block markers embedded in an HTML file.
func MarkersCommand() *cli.Command {
	return &cli.Command{
		Name:      "markers",
		Usage:     "Replace data-block-type markers in an HTML file with rendered blocks",
		ArgsUsage: "FILE",
		Flags: append(renderFlags(),
			&cli.StringFlag{
				Name:  "renderers-dir",
				Usage: "Directory of <type>.html block templates (default from config)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when any marker cannot be replaced",
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
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("HTML file is required")
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			opts := renderOptions(c, cfg)
			opts.Settings = cfg.SettingsFor(target)
			out, err := newStaticRenderer(c, cfg).ReplaceMarkers(string(src), target, opts)
			if err != nil {
				if c.Bool("strict") {
					return fmt.Errorf("replacing markers in %s: %w", path, err)
				}
				cmdLog.Warnf("some markers were left in place: %v", err)
			}
			return writeOutput(c, c.String("out"), out)
		},
	}
}
