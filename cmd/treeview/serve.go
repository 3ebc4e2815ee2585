package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/live"
)

func newServeCommand(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram to browsers",
		Long: `Starts an HTTP server that hosts the diagram page. Each open page keeps
a websocket session with its own viewport; input travels to the server and
the new viewBox travels back. Changes to the activation file are pushed to
every page. /tree/{link} renders a shared skill tree link as a standalone
SVG; colour query parameters such as nodeActiveColor override the palette.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, d, a, err := g.load()
			if err != nil {
				return err
			}
			srv, err := live.NewServer(d, cfg, live.Options{Activation: a})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if updates := g.follow(ctx); updates != nil {
				go func() {
					for a := range updates {
						srv.SetActivation(a)
					}
				}()
			}

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				treeview.Logger().Info("serving", "addr", addr)
				errc <- httpSrv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Address to listen on")

	return cmd
}
