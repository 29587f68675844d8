package contract

// erc20 is the read side of the standard ERC-20 interface (EIP-20), used to
// inspect tokens after creation.
//
// Function selectors:
//
//	name()              → 0x06fdde03
//	symbol()            → 0x95d89b41
//	decimals()          → 0x313ce567
//	totalSupply()       → 0x18160ddd
//	balanceOf(address)  → 0x70a08231
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "erc20",
		Name:        "ERC-20 Standard Token",
		Description: "Read side of the standard ERC-20 interface (EIP-20).",
		ABI:         erc20ABI,
	})
}

var erc20ABI = []ABIEntry{
	{
		Name: "name", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "symbol", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "totalSupply", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name:   "Transfer",
		Type:   "event",
		Inputs: []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
	},
}
