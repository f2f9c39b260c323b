package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/config"
	"github.com/rubiojr/blockpress/pkg/render"
	"github.com/rubiojr/blockpress/pkg/storage"
)

var idStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// StoreCommand manages documents in the local document store.
func StoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Manage stored documents",
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Store a document file, replacing any previous version",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Document id (default: file name without extension)"},
					&cli.StringFlag{Name: "name", Usage: "Display name (default: file name)"},
					targetFlag(),
				},
				Action: withStore(storeSave),
			},
			{
				Name:   "list",
				Usage:  "List stored documents",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Print records as JSON"}},
				Action: withStore(storeList),
			},
			{
				Name:      "show",
				Usage:     "Print a stored document, or render it with --render",
				ArgsUsage: "ID",
				Flags: append(renderFlags(),
					&cli.BoolFlag{Name: "render", Usage: "Render instead of printing the document JSON"},
				),
				Action: withStore(storeShow),
			},
			{
				Name:      "delete",
				Usage:     "Delete a stored document",
				ArgsUsage: "ID",
				Action:    withStore(storeDelete),
			},
		},
	}
}

type storeAction func(ctx context.Context, c *cli.Command, cfg *config.Config, s *storage.Store) error

func withStore(fn storeAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		s, err := storage.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening document store: %w", err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				cmdLog.Warnf("failed to close document store: %v", err)
			}
		}()
		return fn(ctx, c, cfg, s)
	}
}

func storeSave(ctx context.Context, c *cli.Command, cfg *config.Config, s *storage.Store) error {
	path := c.Args().First()
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid document: %w", err)
	}
	target, err := resolveTarget(c, cfg)
	if err != nil {
		return err
	}

	id := c.String("id")
	if id == "" {
		base := filepath.Base(path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}
	name := c.String("name")
	if name == "" {
		name = filepath.Base(path)
	}

	rec, err := s.Save(ctx, id, name, string(target), doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "saved %s v%d (%d bytes)\n", rec.ID, rec.Version, rec.Size)
	return nil
}

func storeList(ctx context.Context, c *cli.Command, cfg *config.Config, s *storage.Store) error {
	recs, err := s.List(ctx)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		if recs == nil {
			recs = []storage.Record{}
		}
		return printJSON(c, recs)
	}
	w := stdout(c)
	if len(recs) == 0 {
		fmt.Fprintln(w, metaStyle.Render("no stored documents"))
		return nil
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%s  %s  %s\n", idStyle.Render(r.ID), r.Name,
			metaStyle.Render(fmt.Sprintf("%s v%d, updated %s", r.Target, r.Version, r.UpdatedAt.Format("2006-01-02 15:04"))))
	}
	return nil
}

func storeShow(ctx context.Context, c *cli.Command, cfg *config.Config, s *storage.Store) error {
	doc, rec, err := s.Load(ctx, c.Args().First())
	if err != nil {
		return err
	}
	if !c.Bool("render") {
		data, err := doc.Encode()
		if err != nil {
			return err
		}
		return writeOutput(c, c.String("out"), string(data))
	}

	target := blocks.Target(rec.Target)
	if c.String("target") != "" {
		if target, err = resolveTarget(c, cfg); err != nil {
			return err
		}
	} else if _, err := blocks.ParseTarget(rec.Target); err != nil {
		target = cfg.Target()
	}
	prepareDocument(doc, cfg, target)
	return writeOutput(c, c.String("out"), render.Document(render.ForTarget(target), doc, renderOptions(c, cfg)))
}

func storeDelete(ctx context.Context, c *cli.Command, cfg *config.Config, s *storage.Store) error {
	id := c.Args().First()
	if err := s.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "deleted %s\n", id)
	return nil
}
