package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tokenforge/forgectl/internal/chain"
)

// ErrFractionalSupply is returned when a supply value cannot be represented
// in base units at the chosen decimal count.
var ErrFractionalSupply = errors.New("supply is not a whole number of base units")

// ScaleSupply converts a human-readable supply (e.g. "1000000" or "1.5") to
// base units at the given decimal count.
func ScaleSupply(supply string, decimals uint8) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(supply))
	if !ok {
		return nil, fmt.Errorf("invalid supply: %q", supply)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	if !r.IsInt() {
		return nil, ErrFractionalSupply
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("supply must be positive")
	}
	return r.Num(), nil
}

// EncodeCreateToken builds the calldata for factory.createToken.
// Supply is the human-readable amount; it is scaled to base units here.
func EncodeCreateToken(name, symbol string, decimals uint8, supply string) ([]byte, error) {
	raw, err := ScaleSupply(supply, decimals)
	if err != nil {
		return nil, err
	}

	fn := findEntry(factoryABI, "createToken")
	calldata, err := encodeCall(fn, []string{
		name,
		symbol,
		fmt.Sprintf("%d", decimals),
		raw.String(),
	})
	if err != nil {
		return nil, err
	}
	return hexToBytes(calldata), nil
}

// FetchCreationFee reads creationFee() from the factory contract.
func FetchCreationFee(rpcURL, factoryAddr string) (*big.Int, error) {
	results, err := NewCallerFromEntries(rpcURL, factoryABI).Call(factoryAddr, "creationFee")
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("empty creationFee result")
	}
	fee, ok := new(big.Int).SetString(results[0], 10)
	if !ok {
		return nil, fmt.Errorf("invalid creationFee result: %q", results[0])
	}
	return fee, nil
}

// IsFactoryDeployed checks whether the factory has code at addr.
func IsFactoryDeployed(client *chain.EVMClient, addr string) (bool, error) {
	code, err := client.GetCode(addr)
	if err != nil {
		return false, err
	}
	return code != "" && code != "0x", nil
}

// TokenCreatedTopic returns the keccak topic hash of the TokenCreated event.
func TokenCreatedTopic() string {
	return EventTopic(findEntry(factoryABI, "TokenCreated"))
}

// TokenAddressFromLogs extracts the created token's address from a receipt's
// logs by looking for the factory's TokenCreated event. Returns "" when the
// event is absent.
func TokenAddressFromLogs(logs []chain.TxLog) string {
	topic := TokenCreatedTopic()
	for _, l := range logs {
		if len(l.Topics) >= 3 && strings.EqualFold(l.Topics[0], topic) {
			// topics[1] = creator, topics[2] = token, both left-padded to 32 bytes.
			t := strings.TrimPrefix(l.Topics[2], "0x")
			if len(t) == 64 {
				return "0x" + t[24:]
			}
		}
	}
	return ""
}

func findEntry(abi []ABIEntry, name string) *ABIEntry {
	for i := range abi {
		if abi[i].Name == name {
			return &abi[i]
		}
	}
	return nil
}
