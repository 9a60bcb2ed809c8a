package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/builder"
	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/rpc"
)

func blocksCmd() *cobra.Command {
	var (
		rangeEnd   uint64
		hashesOnly bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "blocks <number|tag> [--range-end N]",
		Short: "Fetch one block, or a range of blocks in order",
		Long: `Fetch block headers (or full blocks) by number, tag, or a contiguous
range. A single argument fetches one block; add --range-end to fetch
every block from the argument through --range-end, delivered in
ascending order.

Examples:
  indexer blocks latest
  indexer blocks 19000000 --hashes-only
  indexer blocks 19000000 --range-end 19000099`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlocks(cmd, args[0], rangeEnd, hashesOnly, limit)
		},
	}

	cmd.Flags().Uint64Var(&rangeEnd, "range-end", 0, "Fetch a contiguous range [arg, range-end] in order")
	cmd.Flags().BoolVar(&hashesOnly, "hashes-only", false, "Omit full transaction bodies")
	cmd.Flags().IntVar(&limit, "limit", 10_000, "Maximum number of blocks to request")

	return cmd
}

func runBlocks(cmd *cobra.Command, arg string, rangeEnd uint64, hashesOnly bool, limit int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	b := builder.NewBlockByNumberBuilder().Full(!hashesOnly).Limit(limit)

	if rangeEnd > 0 {
		start, err := parseBlockArg(arg)
		if err != nil {
			return err
		}
		if !start.IsNumber() {
			return fmt.Errorf("blocks: --range-end requires a numeric start, got tag %q", arg)
		}
		b.Range(start.Number(), rangeEnd)
	} else {
		n, err := parseBlockArg(arg)
		if err != nil {
			return err
		}
		b.Push(n)
	}

	plan, err := b.Plan()
	if err != nil {
		return err
	}
	items := plan.Plan()

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*4)
	defer cancel()

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
	}

	if rangeEnd > 0 {
		ordered, err := runOrdered(ctx, idx, items, items[0].Key.Range.From, decodeBlock)
		if err != nil {
			return err
		}
		blocks := make([]*method.Block, 0, len(ordered))
		for _, it := range ordered {
			if it.Value != nil {
				blocks = append(blocks, it.Value.(*method.Block))
			}
		}
		return renderBlocks(blocks, format)
	}

	raw, err := idx.RunOnce(ctx, items[0])
	if err != nil {
		return fmt.Errorf("blocks: %w", err)
	}
	block, err := method.DecodeBlockByNumber(raw)
	if err != nil {
		return err
	}
	if block == nil {
		return fmt.Errorf("blocks: block %q not found", arg)
	}
	var blocks []*method.Block
	blocks = append(blocks, block)
	return renderBlocks(blocks, format)
}

func decodeBlock(res dispatch.Result) (interface{}, error) {
	return method.DecodeBlockByNumber(res.Raw)
}

func renderBlocks(blocks []*method.Block, format string) error {
	if format == "json" {
		return printJSON(blocks)
	}

	printHeading(fmt.Sprintf("Blocks (%d)", len(blocks)))
	tbl := newTable("Number", "Hash", "Timestamp", "GasUsed", "GasLimit")
	for _, blk := range blocks {
		n, _ := rpc.ParseHexUint64(blk.Number)
		ts, _ := rpc.ParseHexUint64(blk.Timestamp)
		gu, _ := rpc.ParseHexUint64(blk.GasUsed)
		gl, _ := rpc.ParseHexUint64(blk.GasLimit)
		tbl.AddRow(n, blk.Hash, rpc.FormatTimestamp(ts), rpc.FormatNumber(gu), rpc.FormatNumber(gl))
	}
	tbl.Print()
	fmt.Println()
	return nil
}
