package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/ui"
	"github.com/tokenforge/forgectl/internal/wallet"
)

var (
	defaultSetWallet  string
	defaultSetNetwork string
	defaultSetMode    string
)

var defaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Show and quickly update all active defaults",
	Long: `Display every switchable default in one place and optionally update them inline.

  # View all defaults
  forgectl default

  # Update defaults without running separate config commands
  forgectl default --wallet alice
  forgectl default --network base
  forgectl default --wallet deployer --network base --mode mainnet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := false

		// ── Apply any inline updates ──────────────────────────────────────────
		if defaultSetWallet != "" {
			mgr := newWalletManager()
			if _, err := mgr.Get(defaultSetWallet); err != nil {
				return fmt.Errorf("wallet %q not found — run `forgectl wallet list` to see all wallets", defaultSetWallet)
			}
			cfg.DefaultWallet = defaultSetWallet
			changed = true
			fmt.Println(ui.Success(fmt.Sprintf("Default wallet → %s", defaultSetWallet)))
		}

		if defaultSetNetwork != "" {
			cfg.DefaultNetwork = defaultSetNetwork
			changed = true
			fmt.Println(ui.Success(fmt.Sprintf("Default network → %s", defaultSetNetwork)))
		}

		if defaultSetMode != "" {
			switch defaultSetMode {
			case "mainnet", "testnet":
			default:
				return fmt.Errorf("invalid mode %q — choose: mainnet, testnet", defaultSetMode)
			}
			cfg.NetworkMode = defaultSetMode
			changed = true
			fmt.Println(ui.Success(fmt.Sprintf("Network mode → %s", defaultSetMode)))
		}

		if changed {
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Println()
		}

		// ── Resolve wallet display ────────────────────────────────────────────
		walletName := cfg.DefaultWallet
		walletLine := ui.Meta("(not set)")
		if walletName != "" {
			mgr := newWalletManager()
			if w, err := mgr.Get(walletName); err == nil {
				typeLabel := walletTypeLabel(w.Type)
				walletLine = fmt.Sprintf("%s  %s  %s",
					ui.Val(walletName),
					ui.Meta("("+typeLabel+")"),
					ui.Addr(ui.TruncateAddr(w.Address)),
				)
			} else {
				walletLine = ui.Warn(walletName + " (wallet not found)")
			}
		}

		// ── Resolve network display ───────────────────────────────────────────
		networkLine := ui.Meta("(not set)")
		if cfg.DefaultNetwork != "" {
			networkLine = ui.ChainName(cfg.DefaultNetwork)
		}

		// ── Mode display ──────────────────────────────────────────────────────
		mode := cfg.NetworkMode
		if mode == "" {
			mode = "mainnet"
		}
		modeColor := ui.StyleSuccess
		if mode == "testnet" {
			modeColor = ui.StyleWarning
		}
		modeLine := modeColor.Render(mode) + ui.Meta("  (override per call: --mainnet / --testnet)")

		// ── Session display ───────────────────────────────────────────────────
		sessionLine := ui.Err("not unlocked — keychain will prompt on each creation")
		if wallet.SessionActive() {
			snap := wallet.LoadSessionSnapshot()
			sessionLine = ui.Success(fmt.Sprintf("%d wallet(s) cached · zero keychain prompts", len(snap)))
		}

		// ── Custom RPCs ───────────────────────────────────────────────────────
		rpcCount := 0
		for _, urls := range cfg.CustomRPCs {
			rpcCount += len(urls)
		}
		rpcLine := ui.Val(cfg.RPCAlgorithm)
		if rpcCount > 0 {
			rpcLine += ui.Meta(fmt.Sprintf("  · %d custom override(s)", rpcCount))
		}

		// ── Factory overrides ─────────────────────────────────────────────────
		factoryLine := ui.Meta("canonical address on every chain")
		if n := len(cfg.FactoryOverrides); n > 0 {
			factoryLine = ui.Warn(fmt.Sprintf("%d chain(s) overridden", n))
		}

		// ── Print ─────────────────────────────────────────────────────────────
		fmt.Println(ui.KeyValueBlock("Active Defaults", [][2]string{
			{"Wallet", walletLine},
			{"Network", networkLine},
			{"Mode", modeLine},
			{"Session", sessionLine},
			{"Confirmations", ui.Val(fmt.Sprintf("%d", cfg.Confirmations))},
		}))

		fmt.Println(ui.KeyValueBlock("Connectivity", [][2]string{
			{"RPC Algorithm", rpcLine},
			{"Factory", factoryLine},
		}))

		fmt.Println(ui.KeyValueBlock("Quick Update  (flags apply immediately)", [][2]string{
			{"Wallet", "forgectl default --wallet <name>"},
			{"Network", "forgectl default --network <chain>"},
			{"Mode", "forgectl default --mode mainnet|testnet"},
			{"Unlock session", "forgectl wallet unlock --all"},
			{"Lock session", "forgectl wallet lock"},
			{"RPC override", "forgectl config set-rpc <chain> <url>"},
			{"Factory override", "forgectl config set-factory <chain> <address>"},
		}))

		return nil
	},
}

func init() {
	defaultCmd.Flags().StringVar(&defaultSetWallet, "wallet", "", "set the default wallet")
	defaultCmd.Flags().StringVar(&defaultSetNetwork, "network", "", "set the default network chain")
	defaultCmd.Flags().StringVar(&defaultSetMode, "mode", "", "set the network mode (mainnet|testnet)")
}
