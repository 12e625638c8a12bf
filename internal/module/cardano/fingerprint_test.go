package cardano_test

import (
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usdcPolicy      = "986f0548a2fd9758bc2a38d698041debe89568749e20ab9b75a7f4b7"
	usdcAssetName   = "55534443"
	usdcFingerprint = "asset1fc7e54kds62yggplh0vs65vcgrmn5n577per23"
)

func TestFingerprintVectors(t *testing.T) {
	tests := []struct {
		policyID    string
		assetName   string
		fingerprint string
	}{
		{"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373", "", "asset1rjklcrnsdzqp65wjgrg55sy9723kw09mlgvlc3"},
		{"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc37e", "", "asset1nl0puwxmhas8fawxp8nx4e2q3wekg969n2auw3"},
		{"1e349c9bdea19fd6c147626a5260bc44b71635f398b67c59881df209", "", "asset1uyuxku60yqe57nusqzjx38aan3f2wq6s93f6ea"},
		{"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373", "504154415445", "asset13n25uv0yaf5kus35fm2k86cqy60z58d9xmde92"},
		{"1e349c9bdea19fd6c147626a5260bc44b71635f398b67c59881df209", "504154415445", "asset1hv4p5tv2a837mzqrst04d0dcptdjmluqvdx9k3"},
		{"1e349c9bdea19fd6c147626a5260bc44b71635f398b67c59881df209", "7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373", "asset1aqrdypg669jgazruv5ah07nuyqe0wxjhe2el6f"},
		{"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373", "1e349c9bdea19fd6c147626a5260bc44b71635f398b67c59881df209", "asset17jd78wukhtrnmjh3fngzasxm8rck0l2r4hhyyt"},
		{"7eae28af2208be856f7a119668ae52a49b73725e326dc16579dcc373", "0000000000000000000000000000000000000000000000000000000000000000", "asset1pkpwyknlvul7az0xx8czhl60pyel45rpje4z8w"},
		{usdcPolicy, usdcAssetName, usdcFingerprint},
	}

	for _, tt := range tests {
		t.Run(tt.fingerprint, func(t *testing.T) {
			fp, err := cardano.Fingerprint(tt.policyID, tt.assetName)
			require.NoError(t, err)
			assert.Equal(t, tt.fingerprint, fp)

			again, err := cardano.Fingerprint(tt.policyID, tt.assetName)
			require.NoError(t, err)
			assert.Equal(t, fp, again)
		})
	}
}

func TestFingerprintRejectsBadInput(t *testing.T) {
	_, err := cardano.Fingerprint("zz", "")
	assert.Error(t, err)

	_, err = cardano.Fingerprint("7eae28af", "")
	assert.Error(t, err)

	_, err = cardano.Fingerprint(usdcPolicy, "0")
	assert.Error(t, err)
}

func TestDecodeFingerprint(t *testing.T) {
	hash, err := cardano.DecodeFingerprint(usdcFingerprint)
	require.NoError(t, err)
	assert.Equal(t, "4e3d9a56cd869444203fbbd90d519840f73a4e9e", hex.EncodeToString(hash))

	_, err = cardano.DecodeFingerprint("asset1fc7e54kds62yggplh0vs65vcgrmn5n577per24")
	assert.ErrorIs(t, err, cardano.ErrInvalidFingerprint)

	_, err = cardano.DecodeFingerprint("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	assert.ErrorIs(t, err, cardano.ErrInvalidFingerprint)

	assert.True(t, cardano.IsFingerprint(usdcFingerprint))
	assert.False(t, cardano.IsFingerprint("ASSET1FC7E54KDS62YGGPLH0VS65VCGRMN5N577PER23"))
}

func TestRegistry(t *testing.T) {
	registry, err := cardano.NewRegistry([]cardano.Entry{
		{Fingerprint: usdcFingerprint, PolicyID: usdcPolicy, AssetName: usdcAssetName},
	})
	require.NoError(t, err)

	entry, ok := registry.Lookup(usdcFingerprint)
	require.True(t, ok)
	assert.Equal(t, usdcPolicy, entry.PolicyID)
	assert.Equal(t, usdcAssetName, entry.AssetName)

	entry, ok = registry.LookupUnit(usdcPolicy + usdcAssetName)
	require.True(t, ok)
	assert.Equal(t, usdcFingerprint, entry.Fingerprint)

	_, ok = registry.Lookup("asset1rjklcrnsdzqp65wjgrg55sy9723kw09mlgvlc3")
	assert.False(t, ok)
}

func TestRegistryRejectsMismatchedEntry(t *testing.T) {
	_, err := cardano.NewRegistry([]cardano.Entry{
		{Fingerprint: usdcFingerprint, PolicyID: usdcPolicy, AssetName: ""},
	})
	assert.Error(t, err)
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fingerprints.json")
	require.NoError(t, shared.WriteJSON(path, []cardano.Entry{
		{Fingerprint: usdcFingerprint, PolicyID: usdcPolicy, AssetName: usdcAssetName},
	}, 2))

	registry, err := cardano.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	empty, err := cardano.LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}
