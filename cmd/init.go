package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			configPath, err := configPath(c)
			if err != nil {
				return err
			}
			return initConfig(c, configPath, c.Bool("force"))
		},
	}
}

// initConfig writes the commented sample configuration
func initConfig(c *cli.Command, configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(stdout(c), "Configuration initialized at %s\n", configPath)
	return nil
}
