package config

// Config holds all forgectl configuration.
type Config struct {
	DefaultNetwork string              `json:"default_network" mapstructure:"default_network"`
	DefaultWallet  string              `json:"default_wallet"  mapstructure:"default_wallet"`
	NetworkMode    string              `json:"network_mode"    mapstructure:"network_mode"`  // "mainnet" | "testnet"
	RPCAlgorithm   string              `json:"rpc_algorithm"   mapstructure:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	Confirmations  uint64              `json:"confirmations"   mapstructure:"confirmations"` // receipt depth before a creation counts as confirmed
	CustomRPCs     map[string][]string `json:"custom_rpcs"     mapstructure:"custom_rpcs"`
	// FactoryOverrides maps chain slug → factory address, for private or
	// pre-release factory deployments.
	FactoryOverrides map[string]string `json:"factory_overrides,omitempty" mapstructure:"factory_overrides"`

	// internal: config dir path used for Save()
	configDir string
}
