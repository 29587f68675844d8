package chain

import (
	"errors"
	"math/big"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// DefaultFactoryAddress is where the token factory lives on every supported
// chain. The factory is deployed via CREATE2 so the address is identical
// across chains and modes.
const DefaultFactoryAddress = "0x7F0e4b7a3D9C51a8B2E6f4c0A91d83E5b6C24f9D"

// Chain holds all metadata for a single supported chain.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	ChainID         int64    `json:"chain_id"`
	TestnetChainID  int64    `json:"testnet_chain_id"`
	NativeCurrency  string   `json:"native_currency"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	TestnetName     string   `json:"testnet_name"`
	// FactoryAddress is the token factory on this chain. Empty means the
	// registry default (CREATE2, same address everywhere).
	FactoryAddress string `json:"factory_address,omitempty"`
	// Creation fees in wei, charged by the factory's createToken.
	MainnetFeeWei int64 `json:"mainnet_fee_wei"`
	TestnetFeeWei int64 `json:"testnet_fee_wei"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates and returns the full registry of supported chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
		if c.TestnetChainID != 0 {
			r.byID[c.TestnetChainID] = c
		}
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "base", "arbitrum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID (mainnet or testnet).
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// RPCs returns the RPC list for a chain in the given mode ("mainnet"/"testnet").
func (c *Chain) RPCs(mode string) []string {
	if mode == "testnet" {
		return c.TestnetRPCs
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer base URL for a chain in the given mode.
func (c *Chain) Explorer(mode string) string {
	if mode == "testnet" {
		return c.TestnetExplorer
	}
	return c.MainnetExplorer
}

// ExplorerTxURL returns the explorer page for a transaction hash.
func (c *Chain) ExplorerTxURL(mode, hash string) string {
	return c.Explorer(mode) + "/tx/" + hash
}

// ExplorerAddressURL returns the explorer page for an address.
func (c *Chain) ExplorerAddressURL(mode, address string) string {
	return c.Explorer(mode) + "/address/" + address
}

// ChainIDFor returns the numeric chain ID for the given mode.
func (c *Chain) ChainIDFor(mode string) int64 {
	if mode == "testnet" {
		return c.TestnetChainID
	}
	return c.ChainID
}

// Factory returns the token factory address on this chain.
func (c *Chain) Factory() string {
	if c.FactoryAddress != "" {
		return c.FactoryAddress
	}
	return DefaultFactoryAddress
}

// CreationFee returns the factory's creation fee in wei for the given mode.
func (c *Chain) CreationFee(mode string) *big.Int {
	if mode == "testnet" {
		return big.NewInt(c.TestnetFeeWei)
	}
	return big.NewInt(c.MainnetFeeWei)
}

// --- chain data ---

// Mainnet fee is 0.0005 native units (5e14 wei); testnets charge nothing.
const defaultFeeWei = 500_000_000_000_000

func allChains() []Chain {
	return []Chain{
		// 1. Base
		{
			Name: "base", DisplayName: "Base", ChainID: 8453, TestnetChainID: 84532,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.base.org"},
			MainnetExplorer: "https://basescan.org",
			TestnetExplorer: "https://sepolia.basescan.org",
			TestnetName:     "Base Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
		// 2. Arbitrum
		{
			Name: "arbitrum", DisplayName: "Arbitrum", ChainID: 42161, TestnetChainID: 421614,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia-rollup.arbitrum.io/rpc"},
			MainnetExplorer: "https://arbiscan.io",
			TestnetExplorer: "https://sepolia.arbiscan.io",
			TestnetName:     "Arb Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
		// 3. Optimism
		{
			Name: "optimism", DisplayName: "Optimism", ChainID: 10, TestnetChainID: 11155420,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://mainnet.optimism.io", "https://optimism.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.optimism.io"},
			MainnetExplorer: "https://optimistic.etherscan.io",
			TestnetExplorer: "https://sepolia-optimism.etherscan.io",
			TestnetName:     "OP Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
		// 4. Polygon
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137, TestnetChainID: 80002,
			NativeCurrency:  "POL",
			MainnetRPCs:     []string{"https://polygon-bor-rpc.publicnode.com", "https://polygon-pokt.nodies.app"},
			TestnetRPCs:     []string{"https://rpc-amoy.polygon.technology"},
			MainnetExplorer: "https://polygonscan.com",
			TestnetExplorer: "https://amoy.polygonscan.com",
			TestnetName:     "Amoy",
			// POL is cheap, so the fee is higher in native units: 1 POL.
			MainnetFeeWei: 1_000_000_000_000_000_000,
		},
		// 5. Scroll
		{
			Name: "scroll", DisplayName: "Scroll", ChainID: 534352, TestnetChainID: 534351,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://rpc.scroll.io", "https://scroll-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://sepolia-rpc.scroll.io"},
			MainnetExplorer: "https://scrollscan.com",
			TestnetExplorer: "https://sepolia.scrollscan.com",
			TestnetName:     "Scroll Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
		// 6. Linea
		{
			Name: "linea", DisplayName: "Linea", ChainID: 59144, TestnetChainID: 59141,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://rpc.linea.build", "https://linea-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://rpc.sepolia.linea.build"},
			MainnetExplorer: "https://lineascan.build",
			TestnetExplorer: "https://sepolia.lineascan.build",
			TestnetName:     "Linea Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
		// 7. Blast
		{
			Name: "blast", DisplayName: "Blast", ChainID: 81457, TestnetChainID: 168587773,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://rpc.blast.io", "https://blast-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://sepolia.blast.io"},
			MainnetExplorer: "https://blastscan.io",
			TestnetExplorer: "https://testnet.blastscan.io",
			TestnetName:     "Blast Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
		// 8. Zora
		{
			Name: "zora", DisplayName: "Zora", ChainID: 7777777, TestnetChainID: 999999999,
			NativeCurrency:  "ETH",
			MainnetRPCs:     []string{"https://rpc.zora.energy"},
			TestnetRPCs:     []string{"https://sepolia.rpc.zora.energy"},
			MainnetExplorer: "https://explorer.zora.energy",
			TestnetExplorer: "https://sepolia.explorer.zora.energy",
			TestnetName:     "Zora Sepolia",
			MainnetFeeWei:   defaultFeeWei,
		},
	}
}
