package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/builder"
	"github.com/dmagro/eth-indexer/internal/method"
)

func receiptsCmd() *cobra.Command {
	var (
		hashes string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "receipts --hashes 0x...,0x...",
		Short: "Fetch transaction receipts by hash (unordered)",
		Long: `Fetch one or more receipts via eth_getTransactionReceipt. Hashes are
deduplicated (first occurrence wins) before dispatch, the same
stableDedup rule internal/builder.TxByHashBuilder uses.

Example:
  indexer receipts --hashes 0xaaa...,0xbbb...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReceipts(cmd, splitCSV(hashes), limit)
		},
	}

	cmd.Flags().StringVar(&hashes, "hashes", "", "Comma-separated transaction hashes (required)")
	cmd.Flags().IntVar(&limit, "limit", 10_000, "Maximum number of hashes to request")
	cmd.MarkFlagRequired("hashes")

	return cmd
}

func runReceipts(cmd *cobra.Command, hashes []string, limit int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	plan, err := builder.NewTxReceiptBuilder().Hashes(hashes).Limit(limit).Plan()
	if err != nil {
		return err
	}
	items := plan.Plan()

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*4)
	defer cancel()

	var receipts []*method.TransactionReceipt
	for res := range idx.Run(ctx, items) {
		if res.Err != nil {
			return fmt.Errorf("receipts: %w", res.Err)
		}
		r, err := method.DecodeTxReceipt(res.Raw)
		if err != nil {
			return err
		}
		if r == nil {
			continue
		}
		receipts = append(receipts, r)
	}

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return printJSON(receipts)
	}

	printHeading(fmt.Sprintf("Receipts (%d)", len(receipts)))
	tbl := newTable("TxHash", "Status", "GasUsed", "ContractAddress")
	for _, r := range receipts {
		status := red("fail")
		if r.Status == "0x1" {
			status = green("success")
		}
		tbl.AddRow(r.TransactionHash, status, r.GasUsed, r.ContractAddress)
	}
	tbl.Print()
	fmt.Println()
	return nil
}
