package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-genform/internal/config"
	"github.com/goliatone/go-genform/internal/site"
	"github.com/goliatone/go-genform/pkg/formconfig"
	"github.com/goliatone/go-genform/pkg/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "usage: genform-server [-mode development|production] [-addr :8080] [-base-path /] [-theme genform] [-theme-variant light] [-log-level info] [-forms dir] [-grace 5s]")
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	var formsFS = site.FormsFS()
	if cfg.FormsDir != "" {
		formsFS = os.DirFS(cfg.FormsDir)
	}
	forms, err := site.LoadDemoForms(formconfig.NewLoader(formconfig.WithLogger(logger)), formsFS)
	if err != nil {
		return err
	}

	themes, err := site.NewThemes(site.DefaultManifest())
	if err != nil {
		return err
	}
	selection, err := themes.Select(cfg.Theme, cfg.ThemeVariant)
	if err != nil {
		return err
	}

	app, err := site.New(
		site.WithBasePath(cfg.BasePath),
		site.WithLogger(logger),
		site.WithStore(store.NewDefault()),
		site.WithForms(forms),
		site.WithTheme(site.RendererConfig(selection, cfg.BasePath)),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"addr":      cfg.Addr,
		"mode":      cfg.Mode,
		"base_path": app.BasePath(),
		"theme":     cfg.Theme,
		"variant":   cfg.ThemeVariant,
		"forms":     len(forms),
	}).Info("listening")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
