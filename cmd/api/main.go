// Package main provides the entry point for the book catalog server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/di"
	"github.com/listenupapp/bookcatalog/internal/di/providers"
	"github.com/listenupapp/bookcatalog/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		if err := injector.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shut down after bootstrap error: %v\n", err)
		}
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	server := do.MustInvoke[*providers.HTTPServerHandle](injector)

	fmt.Printf("🚀 Server ready at: %s\n", server.URL)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container shuts services down in reverse dependency order:
	// HTTP server drained first, catalog store closed last.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Server stopped")
}
