package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"leakwatch/internal/adapters/gemini"
	httpadapter "leakwatch/internal/adapters/http"
	"leakwatch/internal/adapters/stub"
	"leakwatch/internal/config"
	"leakwatch/internal/logging"
	"leakwatch/internal/ports"
	"leakwatch/internal/services/acquisition"
	profsvc "leakwatch/internal/services/profiles"
	scansvc "leakwatch/internal/services/scanner"
	"leakwatch/internal/services/session"
	scanworker "leakwatch/internal/workers/scanrunner"
)

var (
	cfg    config.Config
	logger *zap.Logger

	// scan flags
	noPacing bool
)

var rootCmd = &cobra.Command{
	Use:   "leakwatch",
	Short: "LeakWatch - simulated identity leak reports",
	Long: `LeakWatch serves the leak-report flow over HTTP: a session moves from the
landing screen through input and scanning to a risk profile, with history,
detailed logs and a remediation checklist.

Run without arguments to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil && !errors.Is(err, config.ErrMissingAPIKey) {
			return err
		}
		l, lerr := logging.New(cfg.Env, cfg.LogLevel)
		if lerr != nil {
			return lerr
		}
		logger = l
		if err != nil {
			logger.Warn("configuration warning", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and scan workers",
	RunE:  runServe,
}

var scanCmd = &cobra.Command{
	Use:   "scan [email]",
	Short: "Acquire one report and print it as JSON",
	Long: `Runs a single acquisition for the given email outside any session and
writes the resulting report to stdout. Failures print the fallback report.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&noPacing, "no-pacing", false, "skip the minimum scan duration")
	rootCmd.AddCommand(serveCmd, scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSource(ctx context.Context) ports.ReportSource {
	if cfg.ReportSource == "stub" {
		return stub.New()
	}
	return gemini.New(ctx, gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}, logger)
}

func newAcquirer(ctx context.Context) (*acquisition.Service, error) {
	acq, err := acquisition.New(newSource(ctx), logger, cfg.AcquireTimeout)
	if err != nil {
		return nil, fmt.Errorf("acquisition setup: %w", err)
	}
	return acq, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	acq, err := newAcquirer(ctx)
	if err != nil {
		return err
	}

	sessions := session.NewRegistry()
	processor := scanworker.PacedProcessor{Acquirer: acq, MinDuration: cfg.MinScanDuration}
	runner := scanworker.New(processor, cfg.ScanWorkers, cfg.ScanQueueSize, logger)
	scanner := scansvc.New(sessions, runner, processor, logger)
	profiles := profsvc.New(sessions)

	runner.Start(ctx, scanner)
	logger.Info("scan workers started",
		zap.Int("workers", cfg.ScanWorkers),
		zap.Duration("min_scan_duration", cfg.MinScanDuration),
		zap.String("report_source", cfg.ReportSource))

	srv := httpadapter.New(sessions, scanner, profiles, logger)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())
	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		cancel()
		runner.Wait()
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	runner.Wait()
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	acq, err := newAcquirer(ctx)
	if err != nil {
		return err
	}
	pacing := cfg.MinScanDuration
	if noPacing {
		pacing = 0
	}
	processor := scanworker.PacedProcessor{Acquirer: acq, MinDuration: pacing}
	report, err := processor.Process(ctx, ports.ScanJob{ID: "cli", Email: args[0]})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
