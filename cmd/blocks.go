package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginTop(1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Width(12)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// BlocksCommand lists the registered block types.
func BlocksCommand() *cli.Command {
	return &cli.Command{
		Name:      "blocks",
		Usage:     "List available block types, or show the default props of one",
		ArgsUsage: "[TYPE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print definitions as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			reg := registry.Default()
			if t := c.Args().First(); t != "" {
				return showBlockDefaults(c, reg, t)
			}
			if c.Bool("json") {
				return printJSON(c, reg.GetAll())
			}
			fmt.Fprintln(stdout(c), formatCategories(reg.GetCategories()))
			return nil
		},
	}
}

func showBlockDefaults(c *cli.Command, reg *registry.Registry, blockType string) error {
	def, ok := reg.Get(blockType)
	if !ok {
		return fmt.Errorf("unknown block type %q", blockType)
	}
	return printJSON(c, def.DefaultProps)
}

func formatCategories(cats []registry.Category) string {
	var sb strings.Builder
	total := 0
	for _, cat := range cats {
		total += len(cat.Blocks)
	}
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d block types", total)))
	for _, cat := range cats {
		sb.WriteString("\n")
		sb.WriteString(categoryStyle.Render(cat.Name))
		for _, def := range cat.Blocks {
			sb.WriteString("\n  ")
			sb.WriteString(typeStyle.Render(def.Type))
			sb.WriteString(" ")
			sb.WriteString(def.Label)
			if len(def.DefaultProps) > 0 {
				sb.WriteString(" ")
				sb.WriteString(metaStyle.Render(fmt.Sprintf("(%d props)", len(def.DefaultProps))))
			}
		}
	}
	return sb.String()
}

func printJSON(c *cli.Command, v any) error {
	enc := json.NewEncoder(stdout(c))
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
