package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskrelay/taskrelay/internal/db/bunx"
	"github.com/taskrelay/taskrelay/internal/repository"
	"github.com/taskrelay/taskrelay/internal/server"
	"github.com/taskrelay/taskrelay/internal/services/assignment"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assignment routing server",
	Long:  `Starts the HTTP server with the registration and assignment endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect to database; the handle lives for the process lifetime
		// and is released on shutdown.
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		log.Printf("Connected to database")

		// Initialize repositories
		userRepo := repository.NewBunUserRepository(db)
		assignmentRepo := repository.NewBunAssignmentRepository(db)

		// Initialize services
		authz, err := iam.NewAuthorizer()
		if err != nil {
			return fmt.Errorf("configure authorizer: %w", err)
		}
		iamService := iam.NewService(userRepo)
		assignmentService := assignment.NewService(assignmentRepo, authz)
		authenticator := iam.NewAuthenticator(userRepo)

		handler := server.NewH2CHandler(server.RouterOptions{
			IAMService:        iamService,
			AssignmentService: assignmentService,
			Authenticator:     authenticator,
		})

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Wait for interrupt signal
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
