package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/config"
	"github.com/tokenforge/forgectl/internal/contract"
	"github.com/tokenforge/forgectl/internal/forge"
	"github.com/tokenforge/forgectl/internal/tokens"
	"github.com/tokenforge/forgectl/internal/ui"
	"github.com/tokenforge/forgectl/internal/wallet"
)

var (
	createNetwork  string
	createWallet   string
	createName     string
	createSymbol   string
	createDecimals uint8
	createSupply   string
	createYes      bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new ERC-20 token",
	Long: `Create a fixed-supply ERC-20 token through the factory contract.

Without flags an interactive wizard walks you through name, symbol,
decimals, and supply. With --name, --symbol, and --supply the token is
created directly; add --yes to skip the confirmation prompt.

The creation fee is read live from the factory and sent as the
transaction value. Testnets are free.

Examples:
  forgectl create                                          # wizard
  forgectl create --name "My Token" --symbol MTK --supply 1000000
  forgectl create --network base --testnet --name Test --symbol TST --supply 1000 --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := prepareCreation()
		if err != nil {
			return err
		}

		if createName != "" || createSymbol != "" || createSupply != "" {
			return runCreateDirect(setup)
		}
		return runCreateInteractive(setup)
	},
}

// creationSetup bundles everything a creation run needs: the resolved chain,
// endpoint, factory, fee, and a wired orchestrator.
type creationSetup struct {
	chain       *chain.Chain
	mode        string
	chainID     int64
	rpcURL      string
	factoryAddr string
	fee         *big.Int
	orch        *forge.Orchestrator
	walletName  string
	walletAddr  string
}

// receiptWaiter adapts the JSON-RPC client to the orchestrator's receipt
// interface and resolves the created token's address from the factory event.
type receiptWaiter struct {
	client *chain.EVMClient
}

func (w *receiptWaiter) AwaitReceipt(ctx context.Context, txHash string, confirmations uint64) (forge.Receipt, error) {
	rc, err := w.client.AwaitReceipt(ctx, txHash, confirmations)
	if err != nil {
		return forge.Receipt{}, err
	}
	addr := contract.TokenAddressFromLogs(rc.Logs)
	if addr == "" {
		addr = rc.ContractAddress
	}
	return forge.Receipt{
		Success:         rc.Status == 1,
		BlockNumber:     rc.BlockNumber,
		ContractAddress: addr,
	}, nil
}

func prepareCreation() (*creationSetup, error) {
	chainName := createNetwork
	if chainName == "" {
		chainName = cfg.DefaultNetwork
	}
	reg := chain.NewRegistry()
	c, err := reg.GetByName(chainName)
	if err != nil {
		return nil, fmt.Errorf("unknown chain %q — run `forgectl network list` to see all chains", chainName)
	}
	mode := cfg.NetworkMode
	chainID := c.ChainIDFor(mode)

	spin := ui.NewSpinner(fmt.Sprintf("Connecting to %s (%s)...", ui.ChainName(c.Name), mode))
	spin.Start()

	rpcURL, err := pickBestRPC(c, mode)
	if err != nil {
		spin.Stop()
		return nil, err
	}
	client := chain.NewEVMClient(rpcURL)

	factoryAddr := c.Factory()
	if o := cfg.FactoryOverride(c.Name); o != "" {
		factoryAddr = o
	}

	spin.SetMessage("Checking factory contract...")
	deployed, err := contract.IsFactoryDeployed(client, factoryAddr)
	if err != nil {
		spin.Stop()
		return nil, fmt.Errorf("checking factory: %w", err)
	}
	if !deployed {
		spin.Stop()
		return nil, fmt.Errorf("no contract code at factory address %s on %s (%s)", factoryAddr, c.DisplayName, mode)
	}

	spin.SetMessage("Fetching creation fee...")
	fee, err := contract.FetchCreationFee(rpcURL, factoryAddr)
	spin.Stop()
	if err != nil {
		// The registry carries the published fee as a fallback.
		fee = c.CreationFee(mode)
		fmt.Println(ui.Warn(fmt.Sprintf("Could not read fee from factory (%v) — using published fee %s", err, feeLabel(c, mode))))
	}

	walletName := createWallet
	if walletName == "" {
		walletName = cfg.DefaultWallet
	}
	w, _, err := loadSigningWallet(walletName)
	if err != nil {
		return nil, err
	}
	warnIfNoSession()

	signer := wallet.NewSigner(w, wallet.DefaultKeystore())
	submitter := contract.NewSubmitter(rpcURL, signer, chainID)
	store := tokens.NewStore(cfg.TokensPath())

	orch := forge.NewOrchestrator(forge.Options{
		Signer:        submitter,
		Client:        &receiptWaiter{client: client},
		Store:         store,
		FactoryAddr:   factoryAddr,
		CreationFee:   fee,
		ChainID:       chainID,
		Confirmations: cfg.Confirmations,
		Encode: func(f forge.TokenForm) ([]byte, error) {
			return contract.EncodeCreateToken(f.Name, f.Symbol, f.Decimals, f.InitialSupply)
		},
	})

	return &creationSetup{
		chain:       c,
		mode:        mode,
		chainID:     chainID,
		rpcURL:      rpcURL,
		factoryAddr: factoryAddr,
		fee:         fee,
		orch:        orch,
		walletName:  w.Name,
		walletAddr:  w.Address,
	}, nil
}

func (s *creationSetup) chainLabel() string {
	return s.chain.DisplayName + " (" + s.mode + ")"
}

func (s *creationSetup) feeLabel() string {
	if s.fee == nil || s.fee.Sign() == 0 {
		return "free"
	}
	return chain.WeiToETH(s.fee) + " " + s.chain.NativeCurrency
}

// runCreateInteractive hands control to the full-screen wizard.
func runCreateInteractive(s *creationSetup) error {
	outcome, err := ui.RunCreateWizard(ui.CreateParams{
		Orchestrator:  s.orch,
		ChainLabel:    s.chainLabel(),
		FeeLabel:      s.feeLabel(),
		WalletLabel:   s.walletName + " " + ui.TruncateAddr(s.walletAddr),
		ExplorerTxURL: func(hash string) string { return s.chain.ExplorerTxURL(s.mode, hash) },
	})
	if err != nil {
		return err
	}
	if outcome.Created {
		printCreationSuccess(s, outcome.Form, outcome.TxHash, outcome.TokenAddress)
	}
	return nil
}

// runCreateDirect creates a token from flags, no TUI.
func runCreateDirect(s *creationSetup) error {
	form := forge.TokenForm{
		Name:          createName,
		Symbol:        createSymbol,
		Decimals:      createDecimals,
		InitialSupply: createSupply,
	}

	results := forge.ValidateForm(form)
	invalid := false
	for _, f := range []forge.Field{forge.FieldName, forge.FieldSymbol, forge.FieldDecimals, forge.FieldSupply} {
		v := results[f]
		if !v.Valid {
			fmt.Println(ui.Err(fmt.Sprintf("%s: %s", f, v.Message)))
			invalid = true
		} else if v.Message != "" {
			fmt.Println(ui.Warn(fmt.Sprintf("%s: %s", f, v.Message)))
		}
	}
	if invalid {
		return fmt.Errorf("invalid token parameters")
	}

	fmt.Println(ui.KeyValueBlock("Token Creation", [][2]string{
		{"Name", form.Name},
		{"Symbol", form.Symbol},
		{"Decimals", fmt.Sprintf("%d", form.Decimals)},
		{"Supply", form.InitialSupply},
		{"Network", s.chainLabel()},
		{"Wallet", s.walletName + " " + ui.TruncateAddr(s.walletAddr)},
		{"Creation fee", s.feeLabel()},
	}))

	if !createYes && !ui.Confirm("Create this token?") {
		fmt.Println(ui.Meta("Cancelled."))
		return nil
	}

	// Capture the confirmed receipt for the token address. The callback runs
	// on the tracking goroutine, so hand it over through a channel.
	confirmed := make(chan forge.Receipt, 1)
	s.orch.Tracker().OnSuccess(func(_ string, r forge.Receipt) {
		confirmed <- r
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.TxConfirmTimeout)
	defer cancel()

	spin := ui.NewSpinner("Preparing transaction...")
	spin.Start()

	if !s.orch.Submit(ctx, form) {
		spin.Stop()
		return fmt.Errorf("a submission is already in progress")
	}

	tracker := s.orch.Tracker()
	for !tracker.Phase().Terminal() {
		spin.SetMessage(phaseMessage(tracker))
		time.Sleep(200 * time.Millisecond)
	}
	spin.Stop()

	if tracker.Phase() == forge.PhaseFailed {
		perr := tracker.Err()
		fmt.Println(ui.Err(perr.Title))
		fmt.Println("  " + perr.Message)
		fmt.Println(ui.Hint(perr.Suggestion))
		return fmt.Errorf("token creation failed")
	}

	var tokenAddr string
	select {
	case r := <-confirmed:
		tokenAddr = r.ContractAddress
	case <-time.After(2 * time.Second):
	}

	printCreationSuccess(s, form, tracker.TxHash(), tokenAddr)
	return nil
}

func phaseMessage(t *forge.Tracker) string {
	switch t.Phase() {
	case forge.PhasePreparing:
		return "Preparing transaction..."
	case forge.PhaseAwaitingSignature:
		return "Signing..."
	case forge.PhasePending:
		return fmt.Sprintf("Waiting for tx %s to be mined...", ui.TruncateAddr(t.TxHash()))
	case forge.PhaseConfirming:
		return "Mined — waiting for confirmations..."
	}
	return "Working..."
}

func printCreationSuccess(s *creationSetup, form forge.TokenForm, txHash, tokenAddr string) {
	pairs := [][2]string{
		{"Name", form.Name},
		{"Symbol", form.Symbol},
		{"Supply", form.InitialSupply},
		{"Network", s.chainLabel()},
		{"Tx", ui.Addr(txHash)},
	}
	if tokenAddr != "" {
		pairs = append(pairs, [2]string{"Token", ui.Addr(tokenAddr)})
		pairs = append(pairs, [2]string{"Explorer", s.chain.ExplorerAddressURL(s.mode, tokenAddr)})
	} else {
		pairs = append(pairs, [2]string{"Explorer", s.chain.ExplorerTxURL(s.mode, txHash)})
	}

	fmt.Println()
	fmt.Println(ui.Success("Token created!"))
	fmt.Println(ui.KeyValueBlock("", pairs))
	fmt.Println(ui.Hint("See all your tokens with: forgectl tokens list"))
}

func init() {
	createCmd.Flags().StringVar(&createNetwork, "network", "", "chain to create on (default: config)")
	createCmd.Flags().StringVar(&createWallet, "wallet", "", "signing wallet name (default: config)")
	createCmd.Flags().StringVar(&createName, "name", "", "token name")
	createCmd.Flags().StringVar(&createSymbol, "symbol", "", "token symbol")
	createCmd.Flags().Uint8Var(&createDecimals, "decimals", 18, "token decimals (0-18)")
	createCmd.Flags().StringVar(&createSupply, "supply", "", "initial supply in whole tokens")
	createCmd.Flags().BoolVar(&createYes, "yes", false, "skip the confirmation prompt")
}
