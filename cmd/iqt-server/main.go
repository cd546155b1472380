// Command iqt-server is the per-host agent: it answers queries about its host
// by running local commands, or commands on one host reached over SSH.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iqt/internal/adapter"
	"iqt/internal/config"
	"iqt/internal/handler"
	"iqt/internal/schema"
	"iqt/internal/watcher"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "config file (default: discovered)")
	addr := flag.String("addr", "", "HTTP listen address (overrides agent.listen)")
	watch := flag.Bool("watch", true, "reload the config file when it changes")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting iqt agent...")

	cfg, path, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path != "" {
		log.Printf("Config loaded: %s", path)
	} else {
		log.Println("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Agent.Listen = *addr
	}

	// Capability registry backed by local or SSH execution
	registry := adapter.NewRegistry(nil)
	if err := watcher.ApplyAgentConfig(registry, cfg.Agent); err != nil {
		log.Fatalf("Failed to apply agent config: %v", err)
	}

	s, err := schema.New(registry)
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot reload
	if *watch && path != "" {
		reloader := watcher.NewReloader(path, registry, cfg.Agent)
		w := watcher.New(path, func() { reloader.Reload() })
		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Agent.Listen,
		Handler:      handler.NewRouter(handler.NewQueryHandler(s, registry)),
		ReadTimeout:  cfg.Agent.ReadTimeout.Duration(),
		WriteTimeout: cfg.Agent.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Agent listening on %s (capabilities: %v)", cfg.Agent.Listen, registry.Names())
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down agent...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Agent stopped")
}
