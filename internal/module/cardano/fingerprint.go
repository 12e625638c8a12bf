// Package cardano encodes Cardano native asset fingerprints (CIP-14).
package cardano

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	HRP          = "asset"
	PolicyIDSize = 28
	HashSize     = 20
)

var ErrInvalidFingerprint = errors.New("invalid asset fingerprint")

// Fingerprint returns bech32("asset", blake2b-160(policy_id || asset_name)).
func Fingerprint(policyID string, assetNameHex string) (string, error) {
	policy, err := hex.DecodeString(policyID)
	if err != nil {
		return "", fmt.Errorf("policy id %q: %w", policyID, err)
	}
	if len(policy) != PolicyIDSize {
		return "", fmt.Errorf("policy id %q: expected %d bytes, got %d", policyID, PolicyIDSize, len(policy))
	}
	name, err := hex.DecodeString(assetNameHex)
	if err != nil {
		return "", fmt.Errorf("asset name %q: %w", assetNameHex, err)
	}
	if len(name) > 32 {
		return "", fmt.Errorf("asset name %q: longer than 32 bytes", assetNameHex)
	}

	h, err := blake2b.New(HashSize, nil)
	if err != nil {
		return "", err
	}
	h.Write(policy)
	h.Write(name)

	words, err := bech32.ConvertBits(h.Sum(nil), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(HRP, words)
}

// DecodeFingerprint validates fp and returns the 20 byte hash it carries.
func DecodeFingerprint(fp string) ([]byte, error) {
	hrp, words, err := bech32.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	if hrp != HRP {
		return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidFingerprint, hrp)
	}
	hash, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFingerprint, err)
	}
	if len(hash) != HashSize {
		return nil, fmt.Errorf("%w: hash is %d bytes", ErrInvalidFingerprint, len(hash))
	}
	return hash, nil
}

// IsFingerprint reports whether s is a well formed lower case asset fingerprint.
func IsFingerprint(s string) bool {
	if s != strings.ToLower(s) {
		return false
	}
	_, err := DecodeFingerprint(s)
	return err == nil
}
