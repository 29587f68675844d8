package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/tokenforge/forgectl/internal/chain"
	"github.com/tokenforge/forgectl/internal/config"
	"github.com/tokenforge/forgectl/internal/wallet"
)

// Submitter signs and broadcasts payable contract transactions.
type Submitter struct {
	client  *chain.EVMClient
	signer  *wallet.Signer
	chainID *big.Int
}

// NewSubmitter creates a Submitter for the given RPC endpoint and signer.
func NewSubmitter(rpcURL string, signer *wallet.Signer, chainID int64) *Submitter {
	return &Submitter{
		client:  chain.NewEVMClient(rpcURL),
		signer:  signer,
		chainID: big.NewInt(chainID),
	}
}

// Address returns the sending wallet's address.
func (s *Submitter) Address() string {
	return s.signer.Address()
}

// ChainID returns the chain this submitter signs for.
func (s *Submitter) ChainID() int64 {
	return s.chainID.Int64()
}

// EstimateAndSubmit estimates gas, signs an EIP-1559 transaction carrying
// calldata and value, broadcasts it, and returns the transaction hash.
func (s *Submitter) EstimateAndSubmit(ctx context.Context, contractAddr string, calldata []byte, value *big.Int) (string, error) {
	from := s.signer.Address()
	data := "0x" + bytesToHex(calldata)
	if value == nil {
		value = big.NewInt(0)
	}

	// Token creation deploys a contract, so the fallback is generous.
	gas, err := s.client.EstimateGas(from, contractAddr, data, value)
	if err != nil {
		gas = config.GasLimitTokenCreate
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	gasPrice, err := s.client.GasPrice()
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.GetNonce(from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	toAddr := common.HexToAddress(contractAddr)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     value,
		Data:      calldata,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction("0x" + bytesToHex(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}

	return hash, nil
}
