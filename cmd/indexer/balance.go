package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	balancepkg "github.com/dmagro/eth-indexer/internal/balance"
	"github.com/dmagro/eth-indexer/internal/builder"
	"github.com/dmagro/eth-indexer/internal/method"
)

func balanceCmd() *cobra.Command {
	var (
		at          string
		atTimestamp uint64
		lo, hi      uint64
		policy      string
	)

	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Fetch an account's balance at a block, tag, or timestamp",
		Long: `Fetch eth_getBalance for one address at a block number/tag
(--at), or at the block nearest a timestamp via binary search
(--at-timestamp, bounded by --lo/--hi), applying a miss policy when the
timestamp falls outside [--lo, --hi].

Examples:
  indexer balance 0xAbC...123 --at latest
  indexer balance 0xAbC...123 --at-timestamp 1700000000 --lo 18000000 --hi 18900000 --policy clamp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, args[0], at, atTimestamp, lo, hi, policy)
		},
	}

	cmd.Flags().StringVar(&at, "at", "latest", "Block number or tag (ignored when --at-timestamp is set)")
	cmd.Flags().Uint64Var(&atTimestamp, "at-timestamp", 0, "Unix timestamp to resolve to a block via binary search")
	cmd.Flags().Uint64Var(&lo, "lo", 0, "Lower search bound (required with --at-timestamp)")
	cmd.Flags().Uint64Var(&hi, "hi", 0, "Upper search bound (required with --at-timestamp)")
	cmd.Flags().StringVar(&policy, "policy", "strict", "Miss policy when --at-timestamp falls outside [lo,hi]: strict|clamp|widen")

	return cmd
}

func parseMissPolicy(s string) (balancepkg.MissPolicy, error) {
	switch s {
	case "strict":
		return balancepkg.Strict, nil
	case "clamp":
		return balancepkg.ClampToBounds, nil
	case "widen":
		return balancepkg.AutoWidenToLatest, nil
	default:
		return 0, fmt.Errorf("balance: unknown --policy %q (want strict|clamp|widen)", s)
	}
}

func runBalance(cmd *cobra.Command, addr string, at string, atTimestamp, lo, hi uint64, policyStr string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*4)
	defer cancel()

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
	}

	if atTimestamp > 0 {
		policy, err := parseMissPolicy(policyStr)
		if err != nil {
			return err
		}
		bal, err := balancepkg.BalanceAtTimestamp(ctx, idx.Dispatcher(), addr, atTimestamp, lo, hi, policy)
		if err != nil {
			return err
		}
		if bal == nil {
			return renderBalance(addr, "(no balance: timestamp outside [lo, hi] and policy has no fallback)", format)
		}
		return renderBalance(addr, bal.String(), format)
	}

	sel, err := parseBlockArg(at)
	if err != nil {
		return err
	}
	item := builder.NewGetBalanceBuilder(addr).AtBlock(sel).WorkItem()
	raw, err := idx.RunOnce(ctx, item)
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	bal, err := method.DecodeGetBalance(raw)
	if err != nil {
		return err
	}
	return renderBalance(addr, bal.String(), format)
}

func renderBalance(addr, value, format string) error {
	if format == "json" {
		return printJSON(map[string]string{"address": addr, "balanceWei": value})
	}
	printHeading("Balance")
	tbl := newTable("Address", "Balance (wei)")
	tbl.AddRow(addr, value)
	tbl.Print()
	fmt.Println()
	return nil
}
