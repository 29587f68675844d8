package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/tokenforge/forgectl/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	testnet bool
	mainnet bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "forgectl",
	Short: "Launch ERC-20 tokens from your terminal",
	Long: `forgectl — create fixed-supply ERC-20 tokens on L2 chains for a flat fee.

  A factory contract deployed at the same address on every supported chain
  does the heavy lifting. You pick a name, a symbol, decimals, and a supply;
  forgectl signs the creation transaction and tracks it to confirmation.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. Without either flag the persisted mode is used
(default: mainnet). Persist with: forgectl config set-network-mode <mode>`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// FORGECTL_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("FORGECTL_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.forgectl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		createCmd,
		tokensCmd,
		statusCmd,
		networkCmd,
		walletCmd,
		balanceCmd,
		factoryCmd,
		rpcCmd,
		configCmd,
		defaultCmd,
	)
}
