package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BMFCloud/InfraSnitch/internal/config"
)

var (
	// Check selection flags
	runFull     bool
	runMaxDOP   bool
	runMemory   bool
	runAffinity bool
	runWorkload bool
	runHardware bool

	// Run behavior flags
	outputBase string
	dryRun     bool
	verbose    bool
	debug      bool

	// Connection overrides
	serverOverride   string
	databaseOverride string
	topOverride      int
)

// rootCmd is the single entry point; checks are selected by flags rather
// than subcommands so several can run back to back in one report.
var rootCmd = &cobra.Command{
	Use:   "infrasnitch",
	Short: "NUMA Tuning Toolkit CLI",
	Long: `InfraSnitch inspects a running SQL Server instance and the host it
lives on: scheduler-to-NUMA-node layout, memory node alignment, memory
sizing against physical RAM, CPU affinity masking, socket topology,
virtualization platform, and active workload pressure.

Every finding is written to the console and captured into a report that
is exported as Markdown and JSON, with a pass/warn summary at the end.
The tool only reads; it never changes server configuration.`,
	Version:      config.HardcodedVersion,
	SilenceUsage: true,
	RunE:         runDiagnostics,
}

func init() {
	rootCmd.Flags().BoolVar(&runFull, "full", false, "Run full diagnostics")
	rootCmd.Flags().BoolVar(&runMaxDOP, "maxdop", false, "Recommend maxDOP setting")
	rootCmd.Flags().BoolVar(&runMemory, "memory", false, "Validate SQL memory settings")
	rootCmd.Flags().BoolVar(&runAffinity, "affinity", false, "Check CPU affinity config")
	rootCmd.Flags().BoolVar(&runWorkload, "workload", false, "Analyze SQL workload")
	rootCmd.Flags().BoolVar(&runHardware, "hardware", false, "Check VM hardware")

	rootCmd.Flags().StringVar(&outputBase, "output", "", "Set custom output filename prefix (e.g., 'prod-sql01')")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Simulate diagnostics without connecting to SQL Server")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug output")

	rootCmd.Flags().StringVar(&serverOverride, "server", "", "SQL Server address (skips the interactive prompt)")
	rootCmd.Flags().StringVar(&databaseOverride, "database", "", "Database name to connect to")
	rootCmd.Flags().IntVar(&topOverride, "top", 0, "Number of active requests to report in workload analysis")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
