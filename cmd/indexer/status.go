package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/health"
)

func statusCmd() *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Quick health check and endpoint ranking",
		Long: `Sample eth_blockNumber against every configured endpoint and rank
them by success rate, p95 latency, and freshness relative to the
furthest-ahead endpoint.

Example:
  indexer status --samples 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, samples)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 5, "Samples per endpoint")

	return cmd
}

func runStatus(cmd *cobra.Command, samples int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ranked, err := health.Quick(ctx, cfg, samples)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return renderStatusJSON(ranked)
	}
	renderStatusTerminal(ranked)
	return nil
}

func renderStatusTerminal(ranked health.Ranked) {
	fmt.Println()
	fmt.Println(bold("Endpoint Status (Quick Health Check)"))
	tbl := newTable("Endpoint", "Status", "Success", "p95 Latency", "Delta", "Score")
	for _, h := range ranked {
		successStr := fmt.Sprintf("%.1f%%", h.SuccessRate)
		scoreStr := fmt.Sprintf("%.2f", h.Score)
		if h.Excluded {
			successStr = red(successStr)
			scoreStr = red(scoreStr)
		} else if h.SuccessRate >= 99 {
			successStr = green(successStr)
		}
		tbl.AddRow(h.Name, statusBadge(h.Status), successStr, fmt.Sprintf("%dms", h.P95Latency.Milliseconds()), h.BlockDelta, scoreStr)
	}
	tbl.Print()

	best, err := ranked.Best()
	if err != nil {
		fmt.Printf("\n  %s %s\n", yellow("!"), err.Error())
	} else {
		fmt.Printf("\n  %s %s: %s (%.1f%% success, %dms p95, %d blocks behind)\n",
			green("+"), bold("Recommended"), best.Name, best.SuccessRate, best.P95Latency.Milliseconds(), best.BlockDelta)
	}
	fmt.Println()
}

func statusBadge(status string) string {
	switch status {
	case "UP":
		return green("UP")
	case "SLOW", "DEGRADED":
		return yellow(status)
	case "DOWN":
		return red("DOWN")
	default:
		return status
	}
}

func renderStatusJSON(ranked health.Ranked) error {
	best, bestErr := ranked.Best()
	out := map[string]interface{}{"endpoints": ranked}
	if bestErr == nil {
		out["recommended"] = best.Name
	} else {
		out["warning"] = bestErr.Error()
	}
	return printJSON(out)
}
