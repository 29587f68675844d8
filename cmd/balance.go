package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/config"
	"github.com/tokenforge/forgectl/internal/rpc"
	"github.com/tokenforge/forgectl/internal/ui"
)

var (
	balanceWallet  string
	balanceNetwork string
)

var balanceCmd = &cobra.Command{
	Use:   "balance [wallet-name-or-address]",
	Short: "Check wallet balance",
	Long: `Check the native balance for a wallet. Useful before creating a token:
the wallet must cover the creation fee plus gas.

Uses the configured network mode (mainnet/testnet) by default.
Override per-call with --testnet or --mainnet.

Examples:
  forgectl balance                               # default wallet + chain
  forgectl balance 0xABC...                      # explicit address
  forgectl balance --network base --testnet      # Base Sepolia`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Allow positional arg as shorthand for --wallet.
		if len(args) == 1 && balanceWallet == "" {
			balanceWallet = args[0]
		}

		walletAddr, chainName, err := resolveWalletAndChain(balanceWallet, balanceNetwork)
		if err != nil {
			return err
		}

		reg := chain.NewRegistry()
		c, err := reg.GetByName(chainName)
		if err != nil {
			return fmt.Errorf("unknown chain %q — run `forgectl network list` to see all chains", chainName)
		}

		mode := cfg.NetworkMode
		spin := ui.NewSpinner(fmt.Sprintf("Fetching balance on %s (%s)...", ui.ChainName(chainName), mode))
		spin.Start()

		rpcURL, err := pickBestRPC(c, mode)
		if err != nil {
			spin.Stop()
			return err
		}

		client := chain.NewEVMClient(rpcURL)
		bal, err := client.GetBalance(walletAddr)
		spin.Stop()
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock(
			fmt.Sprintf("Balance on %s", c.DisplayName),
			[][2]string{
				{"Address", ui.Addr(walletAddr)},
				{"Network", c.DisplayName + " (" + mode + ")"},
				{"Balance", bal.ETH + " " + c.NativeCurrency},
				{"Creation fee", feeLabel(c, mode)},
			},
		))
		return nil
	},
}

// pickBestRPC selects the best RPC for a chain using the configured algorithm.
func pickBestRPC(c *chain.Chain, mode string) (string, error) {
	rpcs := c.RPCs(mode)
	if len(rpcs) == 0 {
		return "", fmt.Errorf("no RPCs configured for %s (%s) — try adding one with `forgectl rpc add %s <url>`", c.Name, mode, c.Name)
	}
	// Merge custom RPCs.
	if custom := cfg.GetRPCs(c.Name); len(custom) > 0 {
		rpcs = append(custom, rpcs...)
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.RPCSelectTimeout)
	defer cancel()
	return rpc.SelectBest(ctx, rpcs, cfg.RPCAlgorithm)
}

// resolveWalletAndChain returns the effective wallet address and chain name.
func resolveWalletAndChain(walletFlag, networkFlag string) (string, string, error) {
	chainName := networkFlag
	if chainName == "" {
		chainName = cfg.DefaultNetwork
	}

	mgr := newWalletManager()

	if walletFlag == "" {
		w := mgr.Default()
		if w == nil {
			return "", "", fmt.Errorf("no wallet specified — use --wallet <address> or set a default:\n  forgectl wallet add myWallet 0x...\n  forgectl wallet use myWallet")
		}
		return w.Address, chainName, nil
	}

	if len(walletFlag) >= 40 && (walletFlag[:2] == "0x" || walletFlag[:2] == "0X") {
		return walletFlag, chainName, nil
	}

	w, err := mgr.Get(walletFlag)
	if err != nil {
		return "", "", fmt.Errorf("wallet %q not found — run `forgectl wallet list` to see available wallets, or pass an address directly", walletFlag)
	}
	return w.Address, chainName, nil
}

func init() {
	balanceCmd.Flags().StringVar(&balanceWallet, "wallet", "", "wallet name or address")
	balanceCmd.Flags().StringVar(&balanceNetwork, "network", "", "chain to query (default: config)")
}
