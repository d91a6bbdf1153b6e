package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/rr-llmnr/internal/llmnr/common/log"
	"github.com/haukened/rr-llmnr/internal/llmnr/config"
	"github.com/haukened/rr-llmnr/internal/llmnr/domain"
	"github.com/haukened/rr-llmnr/internal/llmnr/gateways/transport"
	"github.com/haukened/rr-llmnr/internal/llmnr/gateways/wire"
	"github.com/haukened/rr-llmnr/internal/llmnr/repos/ifaddr"
	"github.com/haukened/rr-llmnr/internal/llmnr/services/responder"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-llmnrd"

	// ifaddrCacheTTL is how long a per-interface address set is memoized
	// before the kernel is asked again.
	ifaddrCacheTTL = 10 * time.Second
)

// Application holds all the components of the LLMNR responder
type Application struct {
	config    *config.AppConfig
	transport *transport.UDPTransport
	responder *responder.Responder
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":       appName,
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"hostname":  cfg.Hostname,
		"port":      cfg.Port,
		"ttl":       cfg.TTL,
	}, "Starting LLMNR responder")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	// Start the responder
	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Responder failed")
	}

	log.Info(nil, "LLMNR responder stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	// Encode the hostname once; it is immutable for the daemon lifetime.
	hostname, err := domain.NewEncodedName(cfg.Hostname)
	if err != nil {
		return nil, fmt.Errorf("invalid hostname %q: %w", cfg.Hostname, err)
	}

	// Create LLMNR wire codec
	codec := wire.NewLLMNRCodec()

	// Interface-scoped address lookup
	addrs := ifaddr.New(ifaddrCacheTTL)

	// Build service layer
	responderService := responder.New(responder.Options{
		Hostname: hostname,
		Addrs:    addrs,
		TTL:      cfg.TTL,
		Logger:   logger,
	})

	// Build transport layer
	udpTransport := transport.NewUDPTransport(cfg.Port, codec, logger)

	return &Application{
		config:    cfg,
		transport: udpTransport,
		responder: responderService,
	}, nil
}

// Run starts the responder and blocks until context is cancelled
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx, app.responder); err != nil {
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "UDP",
	}, "LLMNR responder started")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
		return err
	}

	return nil
}
