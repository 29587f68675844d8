package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// ReceiptPollInterval is the cadence at which AwaitReceipt re-checks the node.
const ReceiptPollInterval = 2 * time.Second

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Balance holds a native balance result.
type Balance struct {
	Wei *big.Int
	ETH string
}

// GetBalance returns the native balance for an address.
func (c *EVMClient) GetBalance(address string) (*Balance, error) {
	result, err := c.call("eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	wei, err := resultToBig(result)
	if err != nil {
		return nil, fmt.Errorf("could not parse balance: %w", err)
	}
	return &Balance{Wei: wei, ETH: weiToETH(wei)}, nil
}

// GetBlockNumber returns the latest block number.
func (c *EVMClient) GetBlockNumber() (uint64, error) {
	result, err := c.call("eth_blockNumber")
	if err != nil {
		return 0, err
	}
	n, err := resultToBig(result)
	if err != nil {
		return 0, fmt.Errorf("could not parse block number: %w", err)
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *EVMClient) SendRawTransaction(rawTx string) (string, error) {
	result, err := c.call("eth_sendRawTransaction", rawTx)
	if err != nil {
		return "", err
	}
	hash, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return hash, nil
}

// EstimateGas estimates gas for a transaction.
func (c *EVMClient) EstimateGas(from, to, data string, value *big.Int) (uint64, error) {
	params := map[string]string{
		"from": from,
		"to":   to,
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	result, err := c.call("eth_estimateGas", params, "latest")
	if err != nil {
		return 0, err
	}
	n, err := resultToBig(result)
	if err != nil {
		return 21000, nil
	}
	return n.Uint64(), nil
}

// GasPrice returns the current gas price in wei.
func (c *EVMClient) GasPrice() (*big.Int, error) {
	result, err := c.call("eth_gasPrice")
	if err != nil {
		return nil, err
	}
	gp, err := resultToBig(result)
	if err != nil {
		return nil, fmt.Errorf("could not parse gas price: %w", err)
	}
	return gp, nil
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID() (int64, error) {
	result, err := c.call("eth_chainId")
	if err != nil {
		return 0, err
	}
	id, err := resultToBig(result)
	if err != nil {
		return 0, fmt.Errorf("could not parse chain id: %w", err)
	}
	return id.Int64(), nil
}

// GetNonce returns the transaction count (nonce) for an address.
func (c *EVMClient) GetNonce(address string) (uint64, error) {
	result, err := c.call("eth_getTransactionCount", address, "latest")
	if err != nil {
		return 0, err
	}
	n, err := resultToBig(result)
	if err != nil {
		return 0, fmt.Errorf("could not parse nonce: %w", err)
	}
	return n.Uint64(), nil
}

// GetCode returns the bytecode at an address. "0x" means no contract there.
func (c *EVMClient) GetCode(address string) (string, error) {
	result, err := c.call("eth_getCode", address, "latest")
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return s, nil
}

// CallContract calls a read-only function with the given calldata.
func (c *EVMClient) CallContract(toAddr, calldata string) (string, error) {
	result, err := c.call("eth_call", map[string]string{
		"to":   toAddr,
		"data": calldata,
	}, "latest")
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return s, nil
}

// SimulateCall simulates a contract call using eth_call (with from field).
// Returns (true, returnData, nil) on success or (false, revertReason, nil)
// when the call reverts. Transport errors come back as err.
func (c *EVMClient) SimulateCall(from, to, data string, value *big.Int) (bool, string, error) {
	params := map[string]string{
		"from": from,
		"to":   to,
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	result, err := c.call("eth_call", params, "latest")
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "revert") || strings.Contains(errMsg, "execution") {
			return false, ExtractRevertReason(errMsg), nil
		}
		return false, "", err
	}

	hexStr, _ := result.(string)
	return true, hexStr, nil
}

// ExtractRevertReason pulls the revert reason out of an RPC error message.
func ExtractRevertReason(errMsg string) string {
	if idx := strings.Index(errMsg, "execution reverted:"); idx >= 0 {
		return strings.TrimSpace(errMsg[idx:])
	}
	if idx := strings.Index(errMsg, "revert"); idx >= 0 {
		return strings.TrimSpace(errMsg[idx:])
	}
	return errMsg
}

// TxLog is one event log from a receipt.
type TxLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash            string
	Status          uint64 // 1 = success, 0 = reverted
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress string // non-empty when a contract was deployed directly
	Logs            []TxLog
}

// GetTransactionReceipt fetches the receipt for hash.
// Returns nil, nil while the transaction is still pending.
func (c *EVMClient) GetTransactionReceipt(hash string) (*TxReceipt, error) {
	result, err := c.call("eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil // still pending
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	var r struct {
		Status          string  `json:"status"`
		BlockNumber     string  `json:"blockNumber"`
		GasUsed         string  `json:"gasUsed"`
		ContractAddress string  `json:"contractAddress"`
		Logs            []TxLog `json:"logs"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}

	receipt := &TxReceipt{Hash: hash, ContractAddress: r.ContractAddress, Logs: r.Logs}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	return receipt, nil
}

// AwaitReceipt polls until hash has been mined and the chain head sits at
// least confirmations-1 blocks past the receipt's block, then returns the
// receipt. Reverted receipts (Status 0) are returned, not turned into errors;
// the caller decides what a revert means. The poll loop stops as soon as ctx
// is done.
func (c *EVMClient) AwaitReceipt(ctx context.Context, hash string, confirmations uint64) (*TxReceipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}
	ticker := time.NewTicker(ReceiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.GetTransactionReceipt(hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if confirmations <= 1 {
				return receipt, nil
			}
			head, err := c.GetBlockNumber()
			if err != nil {
				return nil, err
			}
			if head >= receipt.BlockNumber+confirmations-1 {
				return receipt, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	result, err := c.callCtx(ctx, "eth_blockNumber")
	latency = time.Since(start)
	if err != nil {
		return latency, 0, err
	}
	n, err := resultToBig(result)
	if err != nil {
		return latency, 0, fmt.Errorf("could not parse block number")
	}
	return latency, n.Uint64(), nil
}

// --- JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *EVMClient) call(method string, params ...interface{}) (interface{}, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.url, "application/json", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var result interface{}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, fmt.Errorf("parsing result: %w", err)
	}

	return result, nil
}

func (c *EVMClient) callCtx(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, err
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error: %s", rpcResp.Error.Message)
	}

	var result interface{}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// --- math helpers ---

var weiPerETH = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// WeiToETH converts a wei amount to an ETH decimal string.
func WeiToETH(wei *big.Int) string { return weiToETH(wei) }

func weiToETH(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, weiPerETH)
	return f.Text('f', 18)
}

func parseBigHex(s string) (*big.Int, bool) {
	n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	return n, ok
}

func resultToBig(result interface{}) (*big.Int, error) {
	hexStr, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}
	n, ok := parseBigHex(hexStr)
	if !ok {
		return nil, fmt.Errorf("not a hex quantity: %s", hexStr)
	}
	return n, nil
}
