package contract

import (
	"fmt"

	"github.com/tokenforge/forgectl/internal/chain"
)

// Caller calls read-only (view/pure) contract functions.
type Caller struct {
	client *chain.EVMClient
	abi    []ABIEntry
}

// NewCaller creates a Caller using a raw ABI JSON byte slice.
func NewCaller(rpcURL string, abiJSON []byte) *Caller {
	abi, _ := parseABI(abiJSON)
	return &Caller{
		client: chain.NewEVMClient(rpcURL),
		abi:    abi,
	}
}

// NewCallerFromEntries creates a Caller from already-parsed ABI entries.
func NewCallerFromEntries(rpcURL string, abi []ABIEntry) *Caller {
	return &Caller{
		client: chain.NewEVMClient(rpcURL),
		abi:    abi,
	}
}

// Call calls a read function on a contract and returns decoded results as strings.
func (c *Caller) Call(contractAddr, funcName string, args ...string) ([]string, error) {
	fn := c.findFunction(funcName)
	if fn == nil {
		return nil, fmt.Errorf("function %q not found in ABI", funcName)
	}

	if !fn.IsReadFunction() {
		return nil, fmt.Errorf("function %q is not a read function (stateMutability: %s)", funcName, fn.StateMutability)
	}

	calldata, err := encodeCall(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	result, err := c.client.CallContract(contractAddr, calldata)
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}

	decoded, err := decodeResult(fn, result)
	if err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}

	return decoded, nil
}

// findFunction finds an ABI function entry by name.
func (c *Caller) findFunction(name string) *ABIEntry {
	for i := range c.abi {
		if c.abi[i].Type == "function" && c.abi[i].Name == name {
			return &c.abi[i]
		}
	}
	return nil
}
