package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/preview"
	"github.com/rubiojr/blockpress/pkg/realtime"
	"github.com/rubiojr/blockpress/pkg/registry"
	"github.com/rubiojr/blockpress/pkg/storage"
)

// ServeCommand starts the live preview server.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the live preview server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (default from config)",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config)",
			},
			&cli.StringFlag{
				Name:  "watch",
				Usage: "Directory of document files to import and keep in sync",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startPreviewServer(ctx, c)
		},
	}
}

func startPreviewServer(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if h := c.String("host"); h != "" {
		cfg.Server.Host = h
	}
	if p := c.String("port"); p != "" {
		cfg.Server.Port = p
	}

	store, err := storage.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			cmdLog.Warnf("failed to close document store: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := preview.NewServer(cfg, store, realtime.NewHub(64), registry.Default())

	watchErr := make(chan error, 1)
	if dir := c.String("watch"); dir != "" {
		go func() { watchErr <- srv.Watch(ctx, dir) }()
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: srv.Routes(),
	}

	serveErr := make(chan error, 1)
	go func() {
		cmdLog.Infof("preview server listening on http://%s", cfg.Server.Addr())
		cmdLog.Infof("  GET  /preview/{id}    live preview of a stored document")
		cmdLog.Infof("  GET  /api/documents   stored documents")
		cmdLog.Infof("  POST /api/render      render a posted document")
		cmdLog.Infof("  GET  /ws              render events")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("preview server: %w", err)
		}
	case err := <-watchErr:
		if err != nil {
			cmdLog.Errorf("watch stopped: %v", err)
		}
		<-ctx.Done()
	case <-ctx.Done():
	}

	cmdLog.Infof("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
