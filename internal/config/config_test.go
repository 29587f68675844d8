package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenforge/forgectl/internal/config"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "base", cfg.DefaultNetwork)
	assert.Equal(t, "mainnet", cfg.NetworkMode)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, uint64(1), cfg.Confirmations)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.DefaultNetwork = "arbitrum"
	cfg.DefaultWallet = "mywallet"
	cfg.RPCAlgorithm = "round-robin"
	cfg.Confirmations = 3

	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "arbitrum", reloaded.DefaultNetwork)
	assert.Equal(t, "mywallet", reloaded.DefaultWallet)
	assert.Equal(t, "round-robin", reloaded.RPCAlgorithm)
	assert.Equal(t, uint64(3), reloaded.Confirmations)
}

func TestZeroConfirmationsNormalised(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"confirmations": 0}`), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.Confirmations)
}

func TestAddCustomRPC(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://custom.base.rpc"))

	rpcs := cfg.GetRPCs("base")
	assert.Contains(t, rpcs, "https://custom.base.rpc")
}

func TestAddDuplicateRPCErrors(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.Load(dir)

	cfg.AddRPC("base", "https://custom.base.rpc") //nolint:errcheck
	err := cfg.AddRPC("base", "https://custom.base.rpc")
	assert.Error(t, err)
}

func TestRemoveCustomRPC(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://a.example.com"))
	require.NoError(t, cfg.AddRPC("base", "https://b.example.com"))
	require.NoError(t, cfg.RemoveRPC("base", "https://a.example.com"))

	assert.Equal(t, []string{"https://b.example.com"}, cfg.GetRPCs("base"))
}

func TestRemoveNonExistentRPCErrors(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Error(t, cfg.RemoveRPC("base", "https://ghost.example.com"))
}

func TestFactoryOverrideRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Empty(t, cfg.FactoryOverride("base"))

	cfg.SetFactoryOverride("base", "0x1234")
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "0x1234", reloaded.FactoryOverride("base"))
}

func TestFactoryOverrideRemoval(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.SetFactoryOverride("base", "0x1234")
	cfg.SetFactoryOverride("base", "")
	assert.Empty(t, cfg.FactoryOverride("base"))
}

func TestConfigFileCreatedOnSave(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	_, err = os.Stat(filepath.Join(dir, "config.json"))
	assert.NoError(t, err)
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
}

func TestStatePaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "tokens.json"), cfg.TokensPath())
}

func TestLoadCorruptConfigErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}
