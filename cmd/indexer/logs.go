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

func logsCmd() *cobra.Command {
	var (
		from, to  uint64
		chunk     uint64
		addresses string
		topic0    string
		topic1    string
		topic2    string
		topic3    string
	)

	cmd := &cobra.Command{
		Use:   "logs --from N --to N",
		Short: "Fetch eth_getLogs results over a block range, in order",
		Long: `Plan and fetch eth_getLogs across [--from, --to], chunked at
--chunk blocks per call, reassembled into ascending range order.

Example:
  indexer logs --from 18000000 --to 18000999 --chunk 250 \
    --addresses 0xA0b8...eB48 --topic0 0xddf2...ef62ef`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, from, to, chunk, splitCSV(addresses), []string{topic0, topic1, topic2, topic3})
		},
	}

	cmd.Flags().Uint64Var(&from, "from", 0, "First block (required)")
	cmd.Flags().Uint64Var(&to, "to", 0, "Last block, inclusive (required)")
	cmd.Flags().Uint64Var(&chunk, "chunk", 5000, "Blocks per eth_getLogs call")
	cmd.Flags().StringVar(&addresses, "addresses", "", "Comma-separated contract addresses")
	cmd.Flags().StringVar(&topic0, "topic0", "", "Slot 0 topic hash (event signature)")
	cmd.Flags().StringVar(&topic1, "topic1", "", "Slot 1 topic hash")
	cmd.Flags().StringVar(&topic2, "topic2", "", "Slot 2 topic hash")
	cmd.Flags().StringVar(&topic3, "topic3", "", "Slot 3 topic hash")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runLogs(cmd *cobra.Command, from, to, chunk uint64, addresses []string, topics []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	b := builder.NewGetLogsBuilder(from, to).ChunkSize(chunk).Addresses(addresses)
	for slot, hash := range topics {
		if hash != "" {
			b.TopicOne(slot, hash)
		}
	}

	plan, err := b.Plan()
	if err != nil {
		return err
	}
	items := plan.Plan()
	if len(items) == 0 {
		return fmt.Errorf("logs: empty plan")
	}

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*8)
	defer cancel()

	ordered, err := runOrdered(ctx, idx, items, from, decodeLogs)
	if err != nil {
		return err
	}

	var logs []method.Log
	for _, it := range ordered {
		if it.Value != nil {
			logs = append(logs, it.Value.([]method.Log)...)
		}
	}

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return printJSON(logs)
	}

	printHeading(fmt.Sprintf("Logs (%d)", len(logs)))
	tbl := newTable("Block", "TxHash", "LogIndex", "Address", "Topic0")
	for _, l := range logs {
		bn, _ := rpc.ParseHexUint64(l.BlockNumber)
		li, _ := rpc.ParseHexUint64(l.LogIndex)
		topic0 := ""
		if len(l.Topics) > 0 {
			topic0 = l.Topics[0]
		}
		tbl.AddRow(bn, l.TransactionHash, li, l.Address, topic0)
	}
	tbl.Print()
	fmt.Println()
	return nil
}

func decodeLogs(res dispatch.Result) (interface{}, error) {
	return method.DecodeGetLogs(res.Raw)
}
