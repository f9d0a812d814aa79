package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BMFCloud/InfraSnitch/internal/config"
	"github.com/BMFCloud/InfraSnitch/internal/diag"
	"github.com/BMFCloud/InfraSnitch/internal/dmv"
	"github.com/BMFCloud/InfraSnitch/internal/hostprobe"
	"github.com/BMFCloud/InfraSnitch/internal/model"
	"github.com/BMFCloud/InfraSnitch/internal/mssql"
	"github.com/BMFCloud/InfraSnitch/internal/report"
	"github.com/BMFCloud/InfraSnitch/internal/uplink"
)

const publishTimeout = 10 * time.Second

func runDiagnostics(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(&cfg)

	logger := buildLogger(cfg)
	recorder := report.NewRecorder(os.Stdout, logger)

	if dryRun {
		recorder.Emit(model.Judgment{Level: model.LevelInfo, Message: "🧪 Dry Run Mode: Skipping SQL Server connection and database diagnostics."})
	} else {
		if cfg.Server == "" {
			promptConnection(&cfg)
		}

		conn := mssql.NewConnManager(cfg, logger)
		if err := conn.Connect(ctx); err != nil {
			return fmt.Errorf("sql server connect: %w", err)
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Warn("sql server close failed", "error", err)
			}
		}()

		db, err := conn.DB(ctx)
		if err != nil {
			return fmt.Errorf("sql server handle: %w", err)
		}

		reader := dmv.NewReader(db, logger)
		prober := hostprobe.NewExecProber(logger)
		checker := diag.NewChecker(reader, prober, recorder, logger)

		if runFull {
			checker.RunAll(ctx, cfg.TopQueries)
		}
		if runMaxDOP {
			checker.RecommendMaxDOP(ctx)
		}
		if runMemory {
			checker.ValidateMemoryConfig(ctx)
		}
		if runAffinity {
			checker.CheckAffinityConfig(ctx)
		}
		if runWorkload {
			checker.AnalyzeSQLWorkload(ctx, cfg.TopQueries)
		}
		if runHardware {
			checker.CheckVirtualHardware(ctx)
		}
	}

	base := outputBase
	if base == "" {
		if dryRun {
			base = "dry_run"
		} else {
			base = cfg.Server
		}
	}

	mdPath := report.MarkdownPath(base)
	jsonPath := report.JSONPath(base)

	var g errgroup.Group
	g.Go(func() error { return recorder.ExportMarkdown(mdPath) })
	g.Go(func() error { return recorder.ExportJSON(jsonPath) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	fmt.Printf("\n📄 Markdown report saved to: %s\n", mdPath)
	fmt.Printf("\n📄 JSON report saved to: %s\n", jsonPath)

	recorder.PrintSummary()

	if cfg.UplinkEnabled {
		publishReport(ctx, cfg, base, recorder, logger)
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if serverOverride != "" {
		cfg.Server = serverOverride
	}
	if databaseOverride != "" {
		cfg.Database = databaseOverride
	}
	if topOverride > 0 {
		cfg.TopQueries = topOverride
	}
	if verbose || debug {
		cfg.LogLevel = "debug"
	}
}

// buildLogger writes to stderr so operational logs never interleave with
// the report lines on stdout.
func buildLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	hOpts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, hOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, hOpts))
}

func promptConnection(cfg *config.Config) {
	in := bufio.NewReader(os.Stdin)

	fmt.Println("\n🔐 SQL Server Connection Setup")
	fmt.Print(`Enter SQL Server address (e.g., localhost or 10.0.0.1\SQLINSTANCE): `)
	server, _ := in.ReadString('\n')
	cfg.Server = strings.TrimSpace(server)

	fmt.Print("Enter database name [default: master]: ")
	database, _ := in.ReadString('\n')
	if db := strings.TrimSpace(database); db != "" {
		cfg.Database = db
	}
}

// publishReport ships the finished report upstream. Publishing is best
// effort: any failure is logged and the local artifacts stand on their own.
func publishReport(ctx context.Context, cfg config.Config, host string, rec *report.Recorder, logger *slog.Logger) {
	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		logger.Warn("uplink tls config invalid, skipping publish", "error", err)
		return
	}
	pub, err := uplink.NewPublisherFromConfig(cfg, tlsCfg, logger)
	if err != nil {
		logger.Warn("uplink setup failed, skipping publish", "error", err)
		return
	}
	defer func() {
		if err := pub.Close(ctx); err != nil {
			logger.Debug("uplink close failed", "error", err)
		}
	}()

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	frame := uplink.NewReportFrame(host, cfg.ToolVersion, rec.Summarize(), rec.Lines())
	if err := pub.PublishReport(pubCtx, frame); err != nil {
		logger.Warn("report publish failed", "addr", cfg.UplinkGRPCAddr, "error", err)
		return
	}
	logger.Info("report published", "addr", cfg.UplinkGRPCAddr, "lines", len(frame.Report))
}
