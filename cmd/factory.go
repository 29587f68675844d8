package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/contract"
	"github.com/tokenforge/forgectl/internal/ui"
)

var factoryNetwork string

var factoryCmd = &cobra.Command{
	Use:   "factory",
	Short: "Show the token factory's status on a chain",
	Long: `Check the factory contract on the selected chain: whether its code is
deployed, the current creation fee, how many tokens it has created, and
the chain's gas price.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName := factoryNetwork
		if chainName == "" {
			chainName = cfg.DefaultNetwork
		}
		reg := chain.NewRegistry()
		c, err := reg.GetByName(chainName)
		if err != nil {
			return fmt.Errorf("unknown chain %q — run `forgectl network list` to see all chains", chainName)
		}
		mode := cfg.NetworkMode

		factoryAddr := c.Factory()
		if o := cfg.FactoryOverride(c.Name); o != "" {
			factoryAddr = o
		}

		spin := ui.NewSpinner(fmt.Sprintf("Checking factory on %s (%s)...", ui.ChainName(c.Name), mode))
		spin.Start()

		rpcURL, err := pickBestRPC(c, mode)
		if err != nil {
			spin.Stop()
			return err
		}
		client := chain.NewEVMClient(rpcURL)

		deployed, err := contract.IsFactoryDeployed(client, factoryAddr)
		if err != nil {
			spin.Stop()
			return fmt.Errorf("checking factory: %w", err)
		}

		status := ui.Err("not deployed")
		feeLine := ui.Meta("—")
		countLine := ui.Meta("—")
		if deployed {
			status = ui.Success("deployed")
			if fee, err := contract.FetchCreationFee(rpcURL, factoryAddr); err == nil {
				if fee.Sign() == 0 {
					feeLine = ui.Val("free")
				} else {
					feeLine = ui.Val(chain.WeiToETH(fee) + " " + c.NativeCurrency)
				}
			}
			caller := contract.NewCallerFromEntries(rpcURL, contract.GetBuiltinABI("factory"))
			if count, err := callOne(caller, factoryAddr, "tokensCreated"); err == nil {
				countLine = ui.Val(count)
			}
		}

		gasLine := ui.Meta("—")
		if gi, err := client.GetGasInfo(); err == nil {
			gwei, eip1559 := gi.GasPriceDisplay()
			kind := "legacy"
			if eip1559 {
				kind = "base fee"
			}
			gasLine = fmt.Sprintf("%.3f gwei (%s)", gwei, kind)
		}
		spin.Stop()

		fmt.Println(ui.KeyValueBlock(
			fmt.Sprintf("Factory on %s (%s)", c.DisplayName, mode),
			[][2]string{
				{"Address", ui.Addr(factoryAddr)},
				{"Status", status},
				{"Creation fee", feeLine},
				{"Tokens created", countLine},
				{"Gas price", gasLine},
				{"Explorer", c.ExplorerAddressURL(mode, factoryAddr)},
			},
		))
		return nil
	},
}

func init() {
	factoryCmd.Flags().StringVar(&factoryNetwork, "network", "", "chain to query (default: config)")
}
