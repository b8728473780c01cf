package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/amonks/immaculater/web"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the list over HTTP on the local machine",
	Long: `Serve a page with a command line at / and a JSON endpoint at /api/exec.
Every command that changes the list is saved right away.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (default from [web] addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, io.Discard)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Web.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	server := &http.Server{
		Addr: addr,
		Handler: web.NewHandler(web.Options{
			Session: a.session,
			Save:    a.save,
			Logger:  a.logger,
		}),
		ErrorLog: slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	a.logger.Info("serving", "addr", addr, "store", a.store.Name())
	cmd.Printf("Serving %s on http://%s/\n", a.store.Name(), addr)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-interrupts:
		a.logger.Info("interrupt received, shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	shutdownErr := server.Shutdown(shutdownCtx)
	cancel()
	listenErr := <-listenErrs
	if errors.Is(listenErr, http.ErrServerClosed) {
		listenErr = nil
	}
	return errors.Join(shutdownErr, listenErr, a.save(context.Background()))
}
