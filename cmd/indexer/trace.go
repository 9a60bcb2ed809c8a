package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/builder"
	"github.com/dmagro/eth-indexer/internal/dispatch"
	"github.com/dmagro/eth-indexer/internal/method"
)

func traceCmd() *cobra.Command {
	var (
		target     string
		fromAddrs  string
		toAddrs    string
		start, end uint64
		chunk      uint64
	)

	cmd := &cobra.Command{
		Use:   "trace --target 0x... --start N --end N",
		Short: "Fetch trace_filter results over a block range, in order",
		Long: `Plan and fetch trace_filter across [--start, --end], chunked at
--chunk blocks per call. --target sets both fromAddress and toAddress;
use --from/--to independently for asymmetric filters.

Example:
  indexer trace --target 0xAbC...123 --start 100 --end 349 --chunk 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, target, splitCSV(fromAddrs), splitCSV(toAddrs), start, end, chunk)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Address to match on both from and to")
	cmd.Flags().StringVar(&fromAddrs, "from-addrs", "", "Comma-separated fromAddress allow-list")
	cmd.Flags().StringVar(&toAddrs, "to-addrs", "", "Comma-separated toAddress allow-list")
	cmd.Flags().Uint64Var(&start, "start", 0, "First block (required)")
	cmd.Flags().Uint64Var(&end, "end", 0, "Last block, inclusive (required)")
	cmd.Flags().Uint64Var(&chunk, "chunk", 1000, "Blocks per trace_filter call")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

func runTrace(cmd *cobra.Command, target string, fromAddrs, toAddrs []string, start, end, chunk uint64) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	b := builder.NewTraceFilterBuilder().StartBlock(start).EndBlock(end).ChunkSize(chunk)
	if target != "" {
		b.Target(target)
	}
	if len(fromAddrs) > 0 {
		b.From(fromAddrs)
	}
	if len(toAddrs) > 0 {
		b.To(toAddrs)
	}

	plan, err := b.Plan()
	if err != nil {
		return err
	}
	items := plan.Plan()
	if len(items) == 0 {
		return fmt.Errorf("trace: empty plan")
	}

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*8)
	defer cancel()

	ordered, err := runOrdered(ctx, idx, items, start, decodeTraces)
	if err != nil {
		return err
	}

	var traces []method.Trace
	for _, it := range ordered {
		if it.Value != nil {
			traces = append(traces, it.Value.([]method.Trace)...)
		}
	}

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return printJSON(traces)
	}

	printHeading(fmt.Sprintf("Traces (%d)", len(traces)))
	tbl := newTable("Block", "TxHash", "Type", "TraceAddress")
	for _, t := range traces {
		tbl.AddRow(t.BlockNumber, t.TxHash, t.Type, t.TraceAddr)
	}
	tbl.Print()
	fmt.Println()
	return nil
}

func decodeTraces(res dispatch.Result) (interface{}, error) {
	return method.DecodeTraceFilter(res.Raw)
}
