package chain

import (
	"encoding/json"
	"math/big"
)

// GasInfo holds current gas pricing data for a chain.
type GasInfo struct {
	GasPrice     *big.Int // legacy eth_gasPrice (Wei)
	BaseFee      *big.Int // EIP-1559 base fee (Wei), nil on legacy chains
	GasPriceGwei float64
	BaseFeeGwei  float64
}

// GasPriceDisplay returns the best gas price for display (Gwei) and whether
// the chain supports EIP-1559.
func (g *GasInfo) GasPriceDisplay() (gwei float64, isEIP1559 bool) {
	if g.BaseFee != nil && g.BaseFeeGwei > 0 {
		return g.BaseFeeGwei, true
	}
	return g.GasPriceGwei, false
}

// GetGasInfo fetches gas price via eth_gasPrice and base fee from latest block.
func (c *EVMClient) GetGasInfo() (*GasInfo, error) {
	gp, err := c.GasPrice()
	if err != nil {
		return nil, err
	}
	info := &GasInfo{
		GasPrice:     gp,
		GasPriceGwei: WeiToGwei(gp),
	}
	// Try EIP-1559 base fee from latest block header.
	blockResult, err := c.call("eth_getBlockByNumber", "latest", false)
	if err == nil && blockResult != nil {
		raw, _ := json.Marshal(blockResult)
		var rb struct {
			BaseFeePerGas string `json:"baseFeePerGas"`
		}
		if json.Unmarshal(raw, &rb) == nil && rb.BaseFeePerGas != "" {
			if bf, ok := parseBigHex(rb.BaseFeePerGas); ok {
				info.BaseFee = bf
				info.BaseFeeGwei = WeiToGwei(bf)
			}
		}
	}
	return info, nil
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}
