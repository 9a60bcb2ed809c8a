// Command indexer is the single CLI surface over internal/engine,
// replacing the teacher's six separate binaries (block, compare, health,
// monitor, snapshot, test) with one cobra command tree. Grounded on
// cmd/monitor's per-command xCmd()/runX() pattern: each subcommand file
// builds its own *cobra.Command constructor and a RunE that reads the
// --config/--format flags off either its own flag set or the root's
// persistent flags, the same fallback cmd/monitor/blocks.go (and every
// sibling in that package) uses.
//
// Unlike cmd/monitor, whose xCmd() constructors are never assembled into
// a root command (cmd/monitor/main.go runs its own standalone event loop
// with the stdlib flag package instead), this binary actually wires them:
// rootCmd.AddCommand() for every subcommand, then Execute().
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer/internal/config"
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "indexer",
		Short: "Concurrent Ethereum JSON-RPC aggregation CLI",
		Long: `indexer plans and executes batches of Ethereum JSON-RPC calls
across a pool of upstream endpoints, reconstructing range-ordered results
where the operation calls for it.

Configure endpoints in a YAML file (default config/endpoints.yaml) and
point --config at it, or set INDEXER_CONFIG in the environment.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", defaultConfigPath(), "Path to endpoints config YAML")
	rootCmd.PersistentFlags().String("format", "terminal", "Output format: terminal|json")

	rootCmd.AddCommand(
		blocksCmd(),
		logsCmd(),
		traceCmd(),
		txsCmd(),
		receiptsCmd(),
		balanceCmd(),
		erc20WalletCmd(),
		erc20TokenCmd(),
		statusCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("INDEXER_CONFIG"); p != "" {
		return p
	}
	return "config/endpoints.yaml"
}
