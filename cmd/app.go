package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/log"
)

// NewApp returns the blockpress root command.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "blockpress",
		Usage: "Render block documents to email and web HTML",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path (default: $XDG_CONFIG_HOME/blockpress/config.toml)",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			log.SetGlobalDebug(c.Bool("debug"))
			log.SetColor(isTerminal(os.Stderr))
			return ctx, nil
		},
		Commands: []*cli.Command{
			InitCommand(),
			RenderCommand(),
			StaticCommand(),
			MarkersCommand(),
			ValidateCommand(),
			BlocksCommand(),
			StoreCommand(),
			MigrateCommand(),
			ServeCommand(),
			VersionCommand(),
		},
	}
}
