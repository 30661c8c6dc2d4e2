// backend/commands/serve.go
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/handlers"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the health and admin API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, store, err := openService(ctx)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		serverAddr := ":" + config.AppConfig.Server.Port
		srv := &http.Server{
			Addr:              serverAddr,
			Handler:           handlers.NewRouter(svc, store),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Server starting on http://localhost%s\n", serverAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("error starting server: %w", err)
			}
			return nil
		case <-ctx.Done():
			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}
