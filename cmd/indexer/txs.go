package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/builder"
	"github.com/dmagro/eth-indexer/internal/method"
)

func txsCmd() *cobra.Command {
	var (
		hashes string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "txs --hashes 0x...,0x...",
		Short: "Fetch transactions by hash (unordered)",
		Long: `Fetch one or more transactions by hash via eth_getTransactionByHash.
Hashes are deduplicated (first occurrence wins) before dispatch.

Example:
  indexer txs --hashes 0xaaa...,0xbbb...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxs(cmd, splitCSV(hashes), limit)
		},
	}

	cmd.Flags().StringVar(&hashes, "hashes", "", "Comma-separated transaction hashes (required)")
	cmd.Flags().IntVar(&limit, "limit", 10_000, "Maximum number of hashes to request")
	cmd.MarkFlagRequired("hashes")

	return cmd
}

func runTxs(cmd *cobra.Command, hashes []string, limit int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	plan, err := builder.NewTxByHashBuilder().Hashes(hashes).Limit(limit).Plan()
	if err != nil {
		return err
	}
	items := plan.Plan()

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*4)
	defer cancel()

	var views []*method.TxView
	for res := range idx.Run(ctx, items) {
		if res.Err != nil {
			return fmt.Errorf("txs: %w", res.Err)
		}
		tx, err := method.DecodeTxByHash(res.Raw)
		if err != nil {
			return err
		}
		if tx == nil {
			continue
		}
		view, err := method.ToView(tx)
		if err != nil {
			return err
		}
		views = append(views, view)
	}

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return printJSON(views)
	}

	printHeading(fmt.Sprintf("Transactions (%d)", len(views)))
	tbl := newTable("Hash", "From", "To", "Value", "Nonce")
	for _, v := range views {
		to := "(contract creation)"
		if v.To != nil {
			to = *v.To
		}
		tbl.AddRow(v.Hash, v.From, to, v.Value, v.Nonce)
	}
	tbl.Print()
	fmt.Println()
	return nil
}
