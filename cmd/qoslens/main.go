package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/qoslens/qoslens/internal/app"
	"github.com/qoslens/qoslens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitNetwork    = 5
)

func main() {
	logging.Init(false)

	if app.IsFirstRun() {
		fmt.Fprintln(os.Stderr, "Welcome to qoslens! Create a .qoslens.yaml with your ClickHouse and PostgreSQL DSNs to skip repeating flags.")
	}

	root := &cobra.Command{
		Use:   "qoslens",
		Short: "QoS analytics and value reporting",
		Long: `QosLens analyzes tenant QoS metrics to score service health,
detect anomalies and trends, estimate delivered business value and ROI,
and produce prioritized improvement recommendations.

Metrics are read from ClickHouse and customer profiles from PostgreSQL;
reports are written per tenant as JSON or text.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewAnalyzeCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(classifyError(err))
	}
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if os.IsNotExist(err) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "not a directory") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "no such file") {
		return ExitNotFound
	}

	if strings.Contains(msg, "dial") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "network is unreachable") {
		return ExitNetwork
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "expected") {
		return ExitInvalidArg
	}

	return ExitInternal
}
