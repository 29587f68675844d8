package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetDefaultWalletCmd = &cobra.Command{
	Use:   "set-default-wallet <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q", args[0])))
		return nil
	},
}

var configSetDefaultNetworkCmd = &cobra.Command{
	Use:   "set-default-network <chain>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DefaultNetwork = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %q", args[0])))
		return nil
	},
}

var configSetRPCCmd = &cobra.Command{
	Use:   "set-rpc <chain> <url>",
	Short: "Add or override the RPC for a chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := args[0], args[1]
		if err := cfg.AddRPC(chainName, url); err != nil {
			// Already exists — not fatal.
			fmt.Println(ui.Warn(err.Error()))
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC for %s set to %s", chainName, url)))
		return nil
	},
}

var configSetNetworkModeCmd = &cobra.Command{
	Use:   "set-network-mode <mainnet|testnet>",
	Short: "Persist the network mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := args[0]
		switch mode {
		case "mainnet", "testnet":
		default:
			return fmt.Errorf("invalid mode %q — choose: mainnet, testnet", mode)
		}
		cfg.NetworkMode = mode
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network mode set to %q", mode)))
		return nil
	},
}

var configSetConfirmationsCmd = &cobra.Command{
	Use:   "set-confirmations <n>",
	Short: "Set the confirmation depth for token creation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || n == 0 {
			return fmt.Errorf("invalid confirmation count %q — must be a positive integer", args[0])
		}
		cfg.Confirmations = n
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Confirmation depth set to %d", n)))
		return nil
	},
}

var configSetFactoryCmd = &cobra.Command{
	Use:   "set-factory <chain> <address>",
	Short: "Override the factory contract address for a chain",
	Long: `Point forgectl at a different factory deployment on one chain.

Pass an empty address ("") to remove the override and return to the
canonical factory address.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, addr := args[0], args[1]
		cfg.SetFactoryOverride(chainName, addr)
		if err := cfg.Save(); err != nil {
			return err
		}
		if addr == "" {
			fmt.Println(ui.Success(fmt.Sprintf("Factory override for %s removed", chainName)))
		} else {
			fmt.Println(ui.Success(fmt.Sprintf("Factory for %s overridden to %s", chainName, ui.Addr(addr))))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configSetDefaultWalletCmd, configSetDefaultNetworkCmd,
		configSetRPCCmd, configSetNetworkModeCmd, configSetConfirmationsCmd, configSetFactoryCmd)
}
