package tokens_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenforge/forgectl/internal/forge"
	"github.com/tokenforge/forgectl/internal/tokens"
)

func testStore(t *testing.T) *tokens.Store {
	t.Helper()
	return tokens.NewStore(filepath.Join(t.TempDir(), "tokens.json"))
}

func record(addr, symbol string, chainID int64) forge.TokenRecord {
	return forge.TokenRecord{
		Address:       addr,
		Name:          "Token " + symbol,
		Symbol:        symbol,
		Decimals:      18,
		InitialSupply: "1000000",
		TxHash:        "0xhash" + symbol,
		ChainID:       chainID,
		CreatedAt:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestListEmptyStore(t *testing.T) {
	s := testStore(t)
	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveAndList(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveToken(record("0xaaa", "AAA", 8453)))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AAA", records[0].Symbol)
	assert.Equal(t, int64(8453), records[0].ChainID)
}

func TestNewestFirst(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveToken(record("0xaaa", "AAA", 8453)))
	require.NoError(t, s.SaveToken(record("0xbbb", "BBB", 8453)))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "BBB", records[0].Symbol)
	assert.Equal(t, "AAA", records[1].Symbol)
}

func TestFindByAddress(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveToken(record("0xAbCd", "FND", 8453)))

	rec, ok, err := s.FindByAddress("0xabcd")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "FND", rec.Symbol)
}

func TestFindByAddressMissing(t *testing.T) {
	s := testStore(t)
	_, ok, err := s.FindByAddress("0xghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestForChain(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.SaveToken(record("0xaaa", "AAA", 8453)))
	require.NoError(t, s.SaveToken(record("0xbbb", "BBB", 42161)))
	require.NoError(t, s.SaveToken(record("0xccc", "CCC", 8453)))

	records, err := s.ForChain(8453)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "CCC", records[0].Symbol)
	assert.Equal(t, "AAA", records[1].Symbol)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, tokens.NewStore(path).SaveToken(record("0xaaa", "AAA", 8453)))

	records, err := tokens.NewStore(path).List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0xaaa", records[0].Address)
}
