package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/erc20"
	"github.com/dmagro/eth-indexer/internal/method"
	"github.com/dmagro/eth-indexer/internal/order"
)

func erc20WalletCmd() *cobra.Command {
	var (
		from, to uint64
		chunk    uint64
		tokens   string
	)

	cmd := &cobra.Command{
		Use:   "erc20-wallet <wallet-address> --from N --to N",
		Short: "Fetch ERC-20 Transfer events touching a wallet, split by direction",
		Long: `Plans two independent eth_getLogs lanes over [--from, --to]: outgoing
transfers (wallet is the indexed "from") and incoming transfers (wallet
is the indexed "to"), each reassembled into ascending range order.

Example:
  indexer erc20-wallet 0xWallet... --from 18000000 --to 18009999`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErc20Wallet(cmd, args[0], from, to, chunk, splitCSV(tokens))
		},
	}

	cmd.Flags().Uint64Var(&from, "from", 0, "First block (required)")
	cmd.Flags().Uint64Var(&to, "to", 0, "Last block, inclusive (required)")
	cmd.Flags().Uint64Var(&chunk, "chunk", 10_000, "Blocks per eth_getLogs call")
	cmd.Flags().StringVar(&tokens, "tokens", "", "Comma-separated token contract allow-list (default: any token)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runErc20Wallet(cmd *cobra.Command, wallet string, from, to, chunk uint64, tokens []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	b := erc20.NewErc20WalletTransfersBuilder(wallet, from, to).ChunkSize(chunk)
	if len(tokens) > 0 {
		b.Tokens(tokens)
	}
	outItems, inItems, _, err := b.PlanSplit()
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*8)
	defer cancel()

	outgoing, err := runOrdered(ctx, idx, outItems, from, decodeLogs)
	if err != nil {
		return fmt.Errorf("erc20-wallet: outgoing lane: %w", err)
	}
	incoming, err := runOrdered(ctx, idx, inItems, from, decodeLogs)
	if err != nil {
		return fmt.Errorf("erc20-wallet: incoming lane: %w", err)
	}

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return printJSON(map[string]interface{}{
			"outgoing": flattenLogs(outgoing),
			"incoming": flattenLogs(incoming),
		})
	}

	printHeading(fmt.Sprintf("ERC-20 transfers for %s", wallet))
	renderTransferLane("Outgoing", flattenLogs(outgoing))
	renderTransferLane("Incoming", flattenLogs(incoming))
	return nil
}

func erc20TokenCmd() *cobra.Command {
	var (
		from, to uint64
		chunk    uint64
	)

	cmd := &cobra.Command{
		Use:   "erc20-token <token-address> --from N --to N",
		Short: "Fetch every ERC-20 Transfer event a token contract emitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErc20Token(cmd, args[0], from, to, chunk)
		},
	}

	cmd.Flags().Uint64Var(&from, "from", 0, "First block (required)")
	cmd.Flags().Uint64Var(&to, "to", 0, "Last block, inclusive (required)")
	cmd.Flags().Uint64Var(&chunk, "chunk", 10_000, "Blocks per eth_getLogs call")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runErc20Token(cmd *cobra.Command, token string, from, to, chunk uint64) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	b := erc20.NewErc20TokenTransfersBuilder(token, from, to).ChunkSize(chunk)
	items, _, err := b.Plan()
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(context.Background(), cfg.Defaults.Timeout*8)
	defer cancel()

	ordered, err := runOrdered(ctx, idx, items, from, decodeLogs)
	if err != nil {
		return err
	}
	logs := flattenLogs(ordered)

	format := stringFlag(cmd, "format")
	if format == "json" {
		disableColorsForJSON()
		return printJSON(logs)
	}

	printHeading(fmt.Sprintf("ERC-20 transfers for token %s (%d)", token, len(logs)))
	renderTransferLane("", logs)
	return nil
}

func flattenLogs(items []order.Item) []method.Log {
	var out []method.Log
	for _, it := range items {
		if it.Value != nil {
			out = append(out, it.Value.([]method.Log)...)
		}
	}
	return out
}

func renderTransferLane(label string, logs []method.Log) {
	if label != "" {
		fmt.Printf("\n%s (%d)\n", bold(label), len(logs))
	}
	tbl := newTable("Block", "TxHash", "From", "To")
	for _, l := range logs {
		from, to := "", ""
		if len(l.Topics) > 1 {
			from = l.Topics[1]
		}
		if len(l.Topics) > 2 {
			to = l.Topics[2]
		}
		tbl.AddRow(l.BlockNumber, l.TransactionHash, from, to)
	}
	tbl.Print()
}
