package cmd

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/contract"
	"github.com/tokenforge/forgectl/internal/tokens"
	"github.com/tokenforge/forgectl/internal/ui"
)

var tokensNetwork string

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Browse tokens you have created",
}

var tokensListCmd = &cobra.Command{
	Use:   "list",
	Short: "List created tokens, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := tokens.NewStore(cfg.TokensPath())
		records, err := store.List()
		if err != nil {
			return err
		}

		if tokensNetwork != "" {
			reg := chain.NewRegistry()
			c, err := reg.GetByName(tokensNetwork)
			if err != nil {
				return fmt.Errorf("unknown chain %q", tokensNetwork)
			}
			records, err = store.ForChain(c.ChainIDFor(cfg.NetworkMode))
			if err != nil {
				return err
			}
		}

		if len(records) == 0 {
			fmt.Println(ui.Info("No tokens created yet."))
			fmt.Println(ui.Hint("Launch your first with: forgectl create"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Name", Width: 20},
			{Title: "Supply", Width: 16},
			{Title: "Chain", Width: 10},
			{Title: "Address", Width: 44},
			{Title: "Created", Width: 12},
		})

		reg := chain.NewRegistry()
		for _, r := range records {
			chainName := strconv.FormatInt(r.ChainID, 10)
			if c, err := reg.GetByChainID(r.ChainID); err == nil {
				chainName = c.Name
			}
			t.AddRow(ui.Row{
				ui.Val(r.Symbol),
				r.Name,
				r.InitialSupply,
				ui.ChainName(chainName),
				ui.Addr(r.Address),
				ui.Meta(r.CreatedAt.Format("2006-01-02")),
			})
		}

		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d token(s) created", len(records))))
		return nil
	},
}

var tokensShowCmd = &cobra.Command{
	Use:   "show <address>",
	Short: "Show a token's live on-chain state",
	Long: `Read a token's metadata and total supply directly from the chain.

The token does not have to be one created with forgectl — any ERC-20
address works.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := args[0]

		chainName := tokensNetwork
		if chainName == "" {
			chainName = cfg.DefaultNetwork
		}
		reg := chain.NewRegistry()
		c, err := reg.GetByName(chainName)
		if err != nil {
			return fmt.Errorf("unknown chain %q — run `forgectl network list` to see all chains", chainName)
		}
		mode := cfg.NetworkMode

		spin := ui.NewSpinner(fmt.Sprintf("Reading token on %s (%s)...", ui.ChainName(chainName), mode))
		spin.Start()

		rpcURL, err := pickBestRPC(c, mode)
		if err != nil {
			spin.Stop()
			return err
		}

		caller := contract.NewCallerFromEntries(rpcURL, contract.GetBuiltinABI("erc20"))
		name, err := callOne(caller, addr, "name")
		if err != nil {
			spin.Stop()
			return fmt.Errorf("reading token at %s: %w", addr, err)
		}
		symbol, _ := callOne(caller, addr, "symbol")
		decimals, _ := callOne(caller, addr, "decimals")
		rawSupply, _ := callOne(caller, addr, "totalSupply")
		spin.Stop()

		pairs := [][2]string{
			{"Name", ui.Val(name)},
			{"Symbol", ui.Val(symbol)},
			{"Decimals", decimals},
			{"Total supply", formatSupply(rawSupply, decimals)},
			{"Network", c.DisplayName + " (" + mode + ")"},
			{"Explorer", c.ExplorerAddressURL(mode, addr)},
		}

		// Enrich from the local record when we created this one.
		store := tokens.NewStore(cfg.TokensPath())
		if rec, ok, err := store.FindByAddress(addr); err == nil && ok {
			pairs = append(pairs,
				[2]string{"Created", rec.CreatedAt.Format("2006-01-02 15:04 MST")},
				[2]string{"Creation tx", ui.Addr(rec.TxHash)},
			)
		}

		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("Token %s", ui.Addr(addr)), pairs))
		return nil
	},
}

// callOne calls a no-arg read function and returns its single result.
func callOne(caller *contract.Caller, addr, fn string) (string, error) {
	results, err := caller.Call(addr, fn)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%s returned no result", fn)
	}
	return results[0], nil
}

// formatSupply converts a raw base-unit supply to whole tokens.
func formatSupply(raw, decimals string) string {
	supply, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return raw
	}
	dec, err := strconv.Atoi(decimals)
	if err != nil || dec == 0 {
		return supply.String()
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(dec)), nil)
	whole, rem := new(big.Int).QuoRem(supply, scale, new(big.Int))
	if rem.Sign() == 0 {
		return whole.String()
	}
	return fmt.Sprintf("%s.%0*d", whole, dec, rem)
}

func init() {
	tokensListCmd.Flags().StringVar(&tokensNetwork, "network", "", "filter by chain")
	tokensShowCmd.Flags().StringVar(&tokensNetwork, "network", "", "chain to query (default: config)")
	tokensCmd.AddCommand(tokensListCmd, tokensShowCmd)
}
