package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/percursohq/percurso"
	httpAdapter "github.com/percursohq/percurso/pkg/adapters/http"
	"github.com/percursohq/percurso/pkg/adapters/memory"
	redisAdapter "github.com/percursohq/percurso/pkg/adapters/redis"
	"github.com/percursohq/percurso/pkg/ports"
	"github.com/percursohq/percurso/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP quoting server",
	Long:  `Starts the engine in server mode, exposing the registered flows over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runServe(cmd *cobra.Command) error {
	logger := newLogger(cmd)

	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	engines := make(map[string]httpAdapter.Engine, len(registry.Names()))
	for _, name := range registry.Names() {
		graph, err := registry.Get(name)
		if err != nil {
			return err
		}
		engine, err := percurso.New(graph, percurso.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to build engine for %s: %w", name, err)
		}
		engines[name] = engine
	}

	var (
		store      ports.StateStore
		managerOpt []session.Option
	)
	redisAddr, _ := cmd.Flags().GetString("redis")
	if redisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: redisAddr})
		redisStore := redisAdapter.NewFromClient(client, redisAdapter.WithTTL(24*time.Hour))
		defer redisStore.Close()
		store = redisStore
		managerOpt = append(managerOpt, session.WithLocker(redisAdapter.NewLocker(client, "percurso:lock:")))
		logger.Info("using redis session store", "addr", redisAddr)
	} else {
		store = memory.NewStore()
		logger.Info("using in-memory session store")
	}
	managerOpt = append(managerOpt, session.WithLogger(logger))

	sessions := session.NewManager(store, managerOpt...)
	handler := httpAdapter.NewHandler(engines, sessions, httpAdapter.WithLogger(logger))

	port, _ := cmd.Flags().GetString("port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "flows", registry.Names())
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for session storage (empty keeps sessions in memory)")
}
