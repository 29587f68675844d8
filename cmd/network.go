package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all supported chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "#", Width: 3},
			{Title: "Name", Width: 12},
			{Title: "Display", Width: 18},
			{Title: "Chain ID", Width: 10},
			{Title: "Currency", Width: 9},
			{Title: "Fee", Width: 12},
			{Title: "Testnet", Width: 16},
		})

		mode := cfg.NetworkMode
		for i, c := range reg.All() {
			t.AddRow(ui.Row{
				fmt.Sprintf("%d", i+1),
				ui.ChainName(c.Name),
				c.DisplayName,
				fmt.Sprintf("%d", c.ChainIDFor(mode)),
				c.NativeCurrency,
				feeLabel(&c, mode),
				c.TestnetName,
			})
		}

		fmt.Println(t.Render())
		fmt.Printf("%s\n", ui.Meta(fmt.Sprintf("%d chains total · mode: %s", len(reg.All()), mode)))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the default network",
	Long: `Set the default chain and persist it to config.

When combined with --testnet or --mainnet the network mode is also persisted.

Examples:
  forgectl network use base              # set default chain, keep current mode
  forgectl network use base --testnet    # set default chain + persist testnet mode
  forgectl network use polygon --mainnet # set default chain + persist mainnet mode`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		chainName := args[0]

		if _, err := reg.GetByName(chainName); err != nil {
			return fmt.Errorf("unknown chain %q — run `forgectl network list` to see all chains", chainName)
		}

		cfg.DefaultNetwork = chainName

		if err := cfg.Save(); err != nil {
			return err
		}

		mode := cfg.NetworkMode
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s (%s)", ui.ChainName(chainName), mode)))
		return nil
	},
}

// feeLabel formats a chain's creation fee in whole native-currency units.
func feeLabel(c *chain.Chain, mode string) string {
	fee := c.CreationFee(mode)
	if fee == nil || fee.Sign() == 0 {
		return "free"
	}
	return chain.WeiToETH(fee) + " " + c.NativeCurrency
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd)
}
