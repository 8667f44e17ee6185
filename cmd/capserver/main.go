package main

import (
	"capsearch/internal/api"
	"capsearch/internal/config"
	"capsearch/internal/fetch"
	"capsearch/internal/innertube"
	"capsearch/internal/logger"
	"capsearch/internal/pipeline"
	"capsearch/internal/session"
	"capsearch/internal/source"
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 1. Parse command-line arguments
	listenAddr := flag.String("l", "", "HTTP listen address (overrides config)")
	logLevel := flag.String("L", "", "Log level (error, warn, info, debug; overrides config)")
	configFile := flag.String("c", "", "Path to the config file (optional)")
	flag.Parse()

	// 2. Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// 3. Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Infof("Starting caption acquisition daemon...")
	log.Infof("Log level set to: %s", cfg.LogLevel)

	// 4. Initialize services and managers
	upstream := innertube.NewClient(log, cfg.UserAgent, cfg.WatchURL, cfg.PlayerURL)
	fetcher := fetch.NewFetcher(upstream.HttpClient(), log, cfg.UserAgent)

	strategies := []source.Strategy{
		source.NewPageData(log),
		source.NewPrimaryAPI(upstream, log, innertube.ClientIdentity{
			Name:    cfg.Clients.Primary.Name,
			Version: cfg.Clients.Primary.Version,
		}),
		source.NewSecondaryAPI(upstream, log, innertube.ClientIdentity{
			Name:    cfg.Clients.Secondary.Name,
			Version: cfg.Clients.Secondary.Version,
		}),
	}
	var community source.Strategy
	if cfg.Community.BaseURL != "" {
		community = source.NewCommunityRepo(fetcher, log, cfg.Community.BaseURL)
	}

	orchestrator := pipeline.New(log, upstream, fetcher, strategies, community, cfg.DefaultLanguage)
	sessionMgr := session.NewManager(log, orchestrator)
	sessionMgr.Start()

	// 5. Set up API router with dependencies
	router := api.New(sessionMgr, cfg.DefaultLanguage)

	// 6. Set up and run the HTTP server with graceful shutdown
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Could not listen on %s: %v", cfg.Listen, err)
			os.Exit(1)
		}
	}()

	// Listen for shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Infof("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessionMgr.Stop()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
		os.Exit(1)
	}

	log.Infof("Server exited gracefully")
}
