package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/btkit/btdiff/internal/adapters/httpapi"
	"github.com/btkit/btdiff/internal/adapters/memory"
	redisStore "github.com/btkit/btdiff/internal/adapters/redis"
	"github.com/btkit/btdiff/internal/logging"
	"github.com/btkit/btdiff/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP diff server",
	Long: `Starts a stateless HTTP server exposing the comparison API and cached
HTML reports. Results are cached in memory by default, or in Redis when
--redis is given (e.g. for multi-replica deployments).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the shared result cache")
	serveCmd.Flags().Duration("cache-ttl", 24*time.Hour, "Result cache TTL (Redis only)")
	serveCmd.Flags().String("tree", "", "Named tree to compare (defaults to MainTree)")
	serveCmd.Flags().Float64("threshold", 0, "Similarity threshold for move detection")
	serveCmd.Flags().Int("max-depth", 0, "Maximum subtree expansion depth")
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.New(logging.FromVerbosity(verbose))

	var store ports.ResultStore = memory.NewStore()
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		store = redisStore.New(addr, "", 0, redisStore.WithTTL(ttl))
		logger.Info("using redis result cache", "addr", addr, "ttl", ttl)
	}

	handler := httpapi.NewHandler(store, logger, analyzerOptions(opts, verbose)...)

	port, _ := cmd.Flags().GetString("port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Printf("Starting btdiff server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		fmt.Printf("\nShutdown started (signal: %v)\n", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		fmt.Println("btdiff server stopped gracefully")
		return nil
	}
}
