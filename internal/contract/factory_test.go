package contract

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenforge/forgectl/internal/chain"
)

// rpcStub serves a fixed JSON-RPC result for every method.
func rpcStub(t *testing.T, result interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

// ---------------------------------------------------------------------------
// ScaleSupply
// ---------------------------------------------------------------------------

func TestScaleSupplyWholeTokens(t *testing.T) {
	raw, err := ScaleSupply("1000000", 18)
	require.NoError(t, err)

	want := new(big.Int).Mul(
		big.NewInt(1_000_000),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
	)
	assert.Equal(t, want, raw)
}

func TestScaleSupplyZeroDecimals(t *testing.T) {
	raw, err := ScaleSupply("42", 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), raw)
}

func TestScaleSupplyFractionalFits(t *testing.T) {
	raw, err := ScaleSupply("1.5", 1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(15), raw)
}

func TestScaleSupplyFractionalTooFine(t *testing.T) {
	_, err := ScaleSupply("1.5", 0)
	assert.ErrorIs(t, err, ErrFractionalSupply)
}

func TestScaleSupplyZeroRejected(t *testing.T) {
	_, err := ScaleSupply("0", 18)
	assert.Error(t, err)
}

func TestScaleSupplyGarbageRejected(t *testing.T) {
	_, err := ScaleSupply("lots", 18)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// EncodeCreateToken
// ---------------------------------------------------------------------------

func TestEncodeCreateToken(t *testing.T) {
	calldata, err := EncodeCreateToken("My Token", "MTK", 18, "1000000")
	require.NoError(t, err)

	fn := findEntry(factoryABI, "createToken")
	selector := hexToBytes(functionSelector(fn))
	assert.Equal(t, selector, calldata[:4])
	// 4 head words + two string tails of 2 words each.
	assert.Len(t, calldata, 4+8*32)
}

func TestEncodeCreateTokenBadSupply(t *testing.T) {
	_, err := EncodeCreateToken("My Token", "MTK", 18, "zero")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// factory reads
// ---------------------------------------------------------------------------

func TestFetchCreationFee(t *testing.T) {
	srv := rpcStub(t, "0x"+strings.Repeat("0", 62)+"64")
	defer srv.Close()

	fee, err := FetchCreationFee(srv.URL, "0xFactory")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), fee)
}

func TestIsFactoryDeployed(t *testing.T) {
	srv := rpcStub(t, "0x60806040")
	defer srv.Close()

	ok, err := IsFactoryDeployed(chain.NewEVMClient(srv.URL), "0xFactory")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsFactoryDeployedNoCode(t *testing.T) {
	srv := rpcStub(t, "0x")
	defer srv.Close()

	ok, err := IsFactoryDeployed(chain.NewEVMClient(srv.URL), "0xFactory")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// TokenAddressFromLogs
// ---------------------------------------------------------------------------

func TestTokenAddressFromLogs(t *testing.T) {
	tokenWord := "0x" + strings.Repeat("0", 24) + "00000000000000000000000000000000deadbeef"
	logs := []chain.TxLog{
		{Address: "0xFactory", Topics: []string{"0xother"}},
		{
			Address: "0xFactory",
			Topics: []string{
				TokenCreatedTopic(),
				"0x" + strings.Repeat("0", 64), // creator
				tokenWord,
			},
		},
	}
	assert.Equal(t, "0x00000000000000000000000000000000deadbeef", TokenAddressFromLogs(logs))
}

func TestTokenAddressFromLogsAbsent(t *testing.T) {
	logs := []chain.TxLog{{Address: "0xFactory", Topics: []string{"0xother"}}}
	assert.Equal(t, "", TokenAddressFromLogs(logs))
}

func TestTokenAddressFromLogsEmpty(t *testing.T) {
	assert.Equal(t, "", TokenAddressFromLogs(nil))
}

// ---------------------------------------------------------------------------
// builtins
// ---------------------------------------------------------------------------

func TestBuiltinFactoryRegistered(t *testing.T) {
	b, ok := GetBuiltin("factory")
	require.True(t, ok)
	assert.Equal(t, "Token Factory", b.Name)
	assert.NotNil(t, findEntry(b.ABI, "createToken"))
}

func TestBuiltinERC20Registered(t *testing.T) {
	abi := GetBuiltinABI("erc20")
	require.NotNil(t, abi)
	assert.NotNil(t, findEntry(abi, "balanceOf"))
}

func TestAllBuiltinsSorted(t *testing.T) {
	all := AllBuiltins()
	require.GreaterOrEqual(t, len(all), 2)
	assert.Equal(t, "erc20", all[0].ID)
	assert.Equal(t, "factory", all[1].ID)
}
