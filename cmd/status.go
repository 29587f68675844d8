package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/config"
	"github.com/tokenforge/forgectl/internal/contract"
	"github.com/tokenforge/forgectl/internal/ui"
)

var (
	statusNetwork string
	statusWait    bool
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check a creation transaction's status",
	Long: `Look up the receipt for a token creation transaction.

By default this is a single check: mined or still pending. With --wait
the command polls until the transaction is confirmed at the configured
confirmation depth (or the wait times out).

Examples:
  forgectl status 0xabc...
  forgectl status 0xabc... --wait --network arbitrum`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash := args[0]
		chainName := statusNetwork
		if chainName == "" {
			chainName = cfg.DefaultNetwork
		}
		mode := cfg.NetworkMode

		reg := chain.NewRegistry()
		c, err := reg.GetByName(chainName)
		if err != nil {
			return fmt.Errorf("unknown chain %q", chainName)
		}

		spin := ui.NewSpinner("Fetching receipt...")
		spin.Start()

		rpcURL, err := pickBestRPC(c, mode)
		if err != nil {
			spin.Stop()
			return err
		}
		client := chain.NewEVMClient(rpcURL)

		var receipt *chain.TxReceipt
		if statusWait {
			spin.SetMessage(fmt.Sprintf("Waiting for %d confirmation(s)...", cfg.Confirmations))
			ctx, cancel := context.WithTimeout(context.Background(), config.TxConfirmTimeout)
			defer cancel()
			receipt, err = client.AwaitReceipt(ctx, hash, cfg.Confirmations)
		} else {
			receipt, err = client.GetTransactionReceipt(hash)
		}
		spin.Stop()
		if err != nil {
			return err
		}

		if receipt == nil {
			fmt.Println(ui.Info("Transaction is still pending."))
			fmt.Println(ui.Hint("Wait for it with: forgectl status " + hash + " --wait"))
			return nil
		}

		status := ui.Success("confirmed")
		if receipt.Status != 1 {
			status = ui.Err("reverted")
		}

		pairs := [][2]string{
			{"Hash", ui.Addr(hash)},
			{"Status", status},
			{"Block", fmt.Sprintf("%d", receipt.BlockNumber)},
			{"Gas Used", fmt.Sprintf("%d", receipt.GasUsed)},
		}
		if tokenAddr := contract.TokenAddressFromLogs(receipt.Logs); tokenAddr != "" {
			pairs = append(pairs, [2]string{"Token", ui.Addr(tokenAddr)})
			pairs = append(pairs, [2]string{"Token Explorer", c.ExplorerAddressURL(mode, tokenAddr)})
		}
		pairs = append(pairs, [2]string{"Explorer", c.ExplorerTxURL(mode, hash)})

		fmt.Println(ui.KeyValueBlock("Transaction Status", pairs))
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusNetwork, "network", "", "chain (default: config)")
	statusCmd.Flags().BoolVar(&statusWait, "wait", false, "poll until confirmed at the configured depth")
}
