package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/recruitment-performance/internal/aging"
	"github.com/frahmantamala/recruitment-performance/internal/role"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
}

// agingWorkerCmd periodically reports roles past the aging SLA thresholds.
var agingWorkerCmd = &cobra.Command{
	Use:   "aging",
	Short: "Start the role aging SLA sweep",
	Run: func(cmd *cobra.Command, args []string) {
		startAgingWorker()
	},
}

var agingInterval time.Duration

func startAgingWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps.Logger.Info("aging worker started", "interval", agingInterval)

	ticker := time.NewTicker(agingInterval)
	defer ticker.Stop()

	for {
		if err := sweepAging(ctx, deps); err != nil {
			deps.Logger.Error("aging sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			deps.Logger.Info("aging worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func sweepAging(ctx context.Context, deps *Dependencies) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	report, err := deps.Aging.Report(ctx, role.Scope{}, 0)
	if err != nil {
		return err
	}

	for _, r := range report.Roles {
		if r.Frozen || r.SLA == aging.SLAOk {
			continue
		}
		deps.Logger.Warn("role past aging threshold",
			"role_id", r.RoleID,
			"code", r.Code,
			"client_id", r.ClientID,
			"team_id", r.TeamID,
			"days_open", r.DaysOpen,
			"sla", r.SLA)
	}

	deps.Logger.Info("aging sweep complete",
		"roles", report.Metrics.TotalRoles,
		"over_warning", report.Metrics.WarningCount,
		"over_critical", report.Metrics.CriticalCount)
	return nil
}

func init() {
	agingWorkerCmd.Flags().DurationVar(&agingInterval, "interval", time.Hour, "time between sweeps")

	workerCmd.AddCommand(agingWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
