package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "brunch/api/v1"
	"brunch/internal/render"
)

var serveAddr string

// serveCmd démarre le serveur HTTP du back-office
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Démarre le serveur HTTP (page planning, export, API d'administration)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Adresse d'écoute (défaut: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// côté serveur, les notifications ne vont que dans les logs
	a, err := newApp(ctx, cfg, io.Discard, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	html, err := render.NewHTMLRenderer()
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	handlers := v1.NewHandlers(a.planning, a.catalog, a.orders, html, cfg.Planning.AfficherTotaux, logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serveur démarré", zap.String("addr", addr), zap.String("api", a.client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serveur HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Arrêt du serveur")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("arrêt du serveur: %w", err)
	}
	fmt.Fprintln(os.Stderr, "👋 Serveur arrêté")
	return nil
}
