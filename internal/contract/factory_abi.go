package contract

// factory is the token factory deployed on every supported chain. createToken
// is payable: the factory charges a flat creation fee on mainnets.
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "factory",
		Name:        "Token Factory",
		Description: "Deploys fixed-supply ERC-20 tokens for a flat fee.",
		ABI:         factoryABI,
	})
}

var factoryABI = []ABIEntry{
	{
		Name: "createToken", Type: "function",
		Inputs: []ABIParam{
			{Name: "name", Type: "string"},
			{Name: "symbol", Type: "string"},
			{Name: "decimals", Type: "uint8"},
			{Name: "initialSupply", Type: "uint256"},
		},
		Outputs:         []ABIParam{{Name: "token", Type: "address"}},
		StateMutability: "payable",
	},
	{
		Name: "creationFee", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "tokensCreated", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "TokenCreated", Type: "event",
		Inputs: []ABIParam{
			{Name: "creator", Type: "address"},
			{Name: "token", Type: "address"},
			{Name: "name", Type: "string"},
			{Name: "symbol", Type: "string"},
		},
	},
}
