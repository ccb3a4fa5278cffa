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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pterm/pterm"

	"go-qualifier/internal/config"
	"go-qualifier/internal/gemini"
	"go-qualifier/internal/httpapi"
	"go-qualifier/internal/logging"
	"go-qualifier/internal/metrics"
	"go-qualifier/internal/qualifier"
	"go-qualifier/internal/session"
	"go-qualifier/internal/submission"
)

var Version = "dev"

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "version":
		fmt.Println("qualifier version", Version)
		return
	case "config":
		if _, err := config.RunSetup(); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		return
	case "serve":
		if err := serve(); err != nil {
			fmt.Fprintln(os.Stderr, "qualifier:", err)
			os.Exit(1)
		}
		return
	case "":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q, expected version, config or serve\n", cmd)
		os.Exit(2)
	}

	interactive()
}

func newClient(cfg *config.Config) (*qualifier.Client, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	return qualifier.NewClient(cfg.ServiceURL, qualifier.WithTimeout(timeout)), nil
}

func interactive() {
	if !config.Exists() {
		fmt.Println("No configuration found. Let's set it up!")
		fmt.Println()
		if _, err := config.RunSetup(); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Println("Failed to load config: " + err.Error())
		os.Exit(1)
	}

	logFile, err := logging.OpenFile(config.LogPath())
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(cfg.LogLevel, logFile)

	client, err := newClient(cfg)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var drafter session.Drafter
	if cfg.GeminiAPIKey != "" {
		d, err := gemini.NewDrafter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini unavailable, /draft disabled")
		} else {
			drafter = d
		}
	}

	controller := submission.NewController(client, submission.WithLogger(logger))
	runner := session.NewRunner(controller, drafter, logger)

	logger.Info().Str("service_url", cfg.ServiceURL).Str("version", Version).Msg("session started")
	if err := runner.Run(ctx); err != nil {
		if ctx.Err() != nil {
			pterm.Println()
			pterm.Println(pterm.Gray("Interrupted. Bye!"))
			return
		}
		logger.Error().Err(err).Msg("session failed")
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewConsole(cfg.LogLevel, os.Stderr)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewPrometheus(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	router := httpapi.Router(*cfg, client, recorder, reg, logger)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Str("service_url", cfg.ServiceURL).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
