package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lindenbaum/check-collectd/internal/check"
	"github.com/lindenbaum/check-collectd/internal/format"
	"github.com/lindenbaum/check-collectd/internal/relay"
	"github.com/lindenbaum/check-collectd/internal/runner"
)

// Version is set at build time via -ldflags "-X github.com/lindenbaum/check-collectd/cmd.Version=..."
var Version = "dev"

var (
	opts       relay.Options
	exitStatus = check.Unknown
)

var rootCmd = &cobra.Command{
	Use:   "check_collectd",
	Short: "Reformat collectd-nagios output with custom format strings",
	Long: `check_collectd wraps the collectd-nagios utility: it relays its own
flags to the utility, parses the resulting status line and rewrites it
through a printf-style format string, keeping the performance data intact.

The -f format applies when the utility reports OK, the -F format when it
reports WARNING or CRITICAL. Format arguments are the status label followed
by the numeric values of the line, in order. All other flags are passed to
collectd-nagios unchanged.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
	RunE: run,
}

// Execute runs the root command and returns the process exit code. Flag
// errors become an UNKNOWN plugin line; the monitoring system reads the
// exit code, so never exit with anything outside the plugin range.
func Execute() int {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("UNKNOWN: %v\n", err)
		return int(check.Unknown)
	}
	return int(exitStatus)
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.FormatOK, "format-ok", "f", "", "Format string applied when the utility reports OK")
	flags.StringVarP(&opts.FormatProblem, "format-problem", "F", "", "Format string applied when the utility reports WARNING or CRITICAL")
	flags.StringVarP(&opts.Hostname, "hostname", "H", "", "Hostname passed to collectd-nagios")
	flags.StringVarP(&opts.Socket, "socket", "s", "", "Path to the collectd unix socket")
	flags.StringVarP(&opts.ValueSpec, "value-spec", "n", "", "Value identifier to check")
	flags.StringVarP(&opts.Consolidation, "consolidation", "g", "", "Consolidation function (none, average, sum, percentage)")
	flags.StringVarP(&opts.DataSource, "datasource", "d", "", "Data sources to consider")
	flags.StringVarP(&opts.Warning, "warning", "w", "", "Warning range")
	flags.StringVarP(&opts.Critical, "critical", "c", "", "Critical range")
	flags.BoolVarP(&opts.IfMissing, "if-missing", "m", false, "Treat missing values as critical")
	// Claims the -h shorthand; this tool's own help stays on --help.
	flags.BoolVarP(&opts.UtilityHelp, "utility-help", "h", false, "Show the collectd-nagios usage text")
	// Register --help ourselves, shorthand-free: cobra's InitDefaultHelpFlag
	// would otherwise try to take -h and panic on the clash above.
	flags.Bool("help", false, "help for check_collectd")

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	r, err := runner.New()
	if err != nil {
		return err
	}

	out, status, err := r.Run(cmd.Context(), opts.Args())
	if err != nil {
		return err
	}

	line := strings.TrimRight(out, "\n")
	text, status := format.Process(line, status, opts.FormatOK, opts.FormatProblem)
	fmt.Fprintln(cmd.OutOrStdout(), text)

	exitStatus = status
	return nil
}

func setupLogging(cmd *cobra.Command) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level := slog.LevelWarn
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
