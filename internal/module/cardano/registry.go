package cardano

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blockchain/coin-definitions/internal/module/shared"
)

// Entry maps a fingerprint back to the pair it was derived from.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	PolicyID    string `json:"policyId"`
	AssetName   string `json:"assetName"`
}

// Unit is the policy id followed by the asset name, the form CoinGecko uses for Cardano platform addresses.
func (e Entry) Unit() string {
	return e.PolicyID + e.AssetName
}

// Registry resolves fingerprints, which are one-way hashes, through a curated mapping table.
type Registry struct {
	byFingerprint map[string]Entry
	byUnit        map[string]Entry
}

func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		byFingerprint: make(map[string]Entry, len(entries)),
		byUnit:        make(map[string]Entry, len(entries)),
	}
	for _, entry := range entries {
		if err := r.Add(entry); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadRegistry reads a JSON array of entries. A missing file yields an empty registry.
func LoadRegistry(path string) (*Registry, error) {
	var entries []Entry
	if path != "" && shared.Exists(path) {
		if err := shared.ReadJSON(path, &entries); err != nil {
			return nil, err
		}
	}
	return NewRegistry(entries)
}

// Add verifies the entry by re-encoding it.
func (r *Registry) Add(entry Entry) error {
	entry.PolicyID = strings.ToLower(entry.PolicyID)
	entry.AssetName = strings.ToLower(entry.AssetName)

	fp, err := Fingerprint(entry.PolicyID, entry.AssetName)
	if err != nil {
		return fmt.Errorf("fingerprint entry %s: %w", entry.Fingerprint, err)
	}
	if fp != entry.Fingerprint {
		return fmt.Errorf("fingerprint entry %s: policy %s and asset name %q encode to %s",
			entry.Fingerprint, entry.PolicyID, entry.AssetName, fp)
	}
	if existing, ok := r.byFingerprint[fp]; ok && existing != entry {
		return fmt.Errorf("fingerprint entry %s declared twice", fp)
	}

	r.byFingerprint[fp] = entry
	r.byUnit[entry.Unit()] = entry
	return nil
}

// Lookup decodes a fingerprint into its policy id and asset name.
func (r *Registry) Lookup(fp string) (Entry, bool) {
	entry, ok := r.byFingerprint[strings.ToLower(fp)]
	return entry, ok
}

// LookupUnit finds the entry of a policyId+assetName hex string.
func (r *Registry) LookupUnit(unit string) (Entry, bool) {
	entry, ok := r.byUnit[strings.ToLower(unit)]
	return entry, ok
}

func (r *Registry) Len() int {
	return len(r.byFingerprint)
}

// Entries returns all entries sorted by fingerprint.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.byFingerprint))
	for _, entry := range r.byFingerprint {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Fingerprint < entries[j].Fingerprint
	})
	return entries
}
