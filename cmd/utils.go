package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/config"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
)

var cmdLog = log.ForService("cli")

func stdout(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// configPath returns --config, or the default location when unset.
func configPath(c *cli.Command) (string, error) {
	if p := c.String("config"); p != "" {
		return p, nil
	}
	p, err := config.GetDefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("getting default config path: %w", err)
	}
	return p, nil
}

func loadConfig(c *cli.Command) (*config.Config, error) {
	p, err := configPath(c)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(p)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// readDocument loads a JSON or YAML document. "-" reads standard input,
// where anything not starting with '{' is taken as YAML.
func readDocument(path string) (*core.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("document file is required")
	}
	if path != "-" {
		return core.LoadDocument(path)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading standard input: %w", err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return core.DecodeDocument(data)
	}
	return core.DecodeDocumentYAML(data)
}

// writeOutput writes content to path, or to the command's output when path
// is empty.
func writeOutput(c *cli.Command, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout(c), content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	cmdLog.Infof("wrote %s (%d bytes)", path, len(content))
	return nil
}

func targetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "target",
		Aliases: []string{"t"},
		Usage:   "Render target: email or web (default from config)",
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Write output to this file instead of stdout",
	}
}

// renderFlags are shared by every command that renders blocks.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		targetFlag(),
		outFlag(),
		&cli.BoolFlag{
			Name:  "preview",
			Usage: "Render interactive preview output",
		},
		&cli.TimestampFlag{
			Name:   "now",
			Usage:  "Render as if at this time (RFC 3339)",
			Config: cli.TimestampConfig{Layouts: []string{time.RFC3339}},
		},
		&cli.BoolFlag{
			Name:  "stable-ids",
			Usage: "Use sequential element ids for reproducible output",
		},
	}
}

func resolveTarget(c *cli.Command, cfg *config.Config) (blocks.Target, error) {
	if raw := c.String("target"); raw != "" {
		return blocks.ParseTarget(raw)
	}
	return cfg.Target(), nil
}

func renderOptions(c *cli.Command, cfg *config.Config) core.RenderOptions {
	opts := cfg.RenderOptions(c.Bool("preview"))
	if now := c.Timestamp("now"); !now.IsZero() {
		opts.Now = now
	}
	if c.Bool("stable-ids") {
		opts.NewID = core.SequentialIDs()
	}
	return opts
}

// prepareDocument layers the configured canvas defaults under the document's
// own settings and reports structural problems without failing.
func prepareDocument(doc *core.Document, cfg *config.Config, target blocks.Target) {
	if err := doc.Validate(); err != nil {
		cmdLog.Warnf("document has problems, rendering anyway: %v", err)
	}
	doc.CanvasSettings = doc.CanvasSettings.WithDefaults(cfg.SettingsFor(target))
}

// isTerminal checks if f is a terminal
func isTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
