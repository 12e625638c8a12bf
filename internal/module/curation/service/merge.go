package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
)

// MergeOptions tunes MergeTokens.
type MergeOptions struct {
	// BumpSymbols renames an added token whose symbol collides with a kept one: X becomes X2, X3...
	// The base is cut so the bumped symbol stays within model.MaxSymbolLength.
	BumpSymbols bool
}

// MergeTokens unions published and fresh tokens by address. A token present in both keeps its published
// symbol and takes every other field from the fresh record. Order is published first, then new addresses.
func MergeTokens(published []model.Token, fresh []model.Token, opts MergeOptions) []model.Token {
	merged := make([]model.Token, 0, len(published)+len(fresh))
	position := make(map[string]int, len(published)+len(fresh))
	symbols := make(map[string]struct{}, len(published)+len(fresh))

	for _, token := range published {
		if _, ok := position[token.Key()]; ok {
			continue
		}
		position[token.Key()] = len(merged)
		symbols[strings.ToLower(token.Symbol)] = struct{}{}
		merged = append(merged, token)
	}

	for _, token := range fresh {
		if i, ok := position[token.Key()]; ok {
			token.Symbol = merged[i].Symbol
			merged[i] = token
			continue
		}
		if opts.BumpSymbols {
			token.Symbol = bumpSymbol(token.Symbol, symbols)
		}
		position[token.Key()] = len(merged)
		symbols[strings.ToLower(token.Symbol)] = struct{}{}
		merged = append(merged, token)
	}
	return merged
}

func bumpSymbol(symbol string, taken map[string]struct{}) string {
	if _, ok := taken[strings.ToLower(symbol)]; !ok {
		return symbol
	}
	for n := 2; ; n++ {
		suffix := strconv.Itoa(n)
		base := symbol
		if cut := model.MaxSymbolLength - len(suffix); len(base) > cut {
			base = base[:cut]
		}
		candidate := base + suffix
		if _, ok := taken[strings.ToLower(candidate)]; !ok {
			return candidate
		}
	}
}

// ApplyExtensions adds extension tokens; an extension replaces any token with the same address.
func ApplyExtensions(tokens []model.Token, extensions []model.Token) []model.Token {
	byKey := make(map[string]model.Token, len(extensions))
	for _, extension := range extensions {
		byKey[extension.Key()] = extension
	}

	merged := make([]model.Token, 0, len(tokens)+len(extensions))
	for _, token := range tokens {
		if _, ok := byKey[token.Key()]; ok {
			continue
		}
		merged = append(merged, token)
	}
	seen := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		if _, ok := seen[extension.Key()]; ok {
			continue
		}
		seen[extension.Key()] = struct{}{}
		merged = append(merged, byKey[extension.Key()])
	}
	return merged
}

// ApplyOverrides patches tokens by lower-cased address.
func ApplyOverrides(tokens []model.Token, overrides map[string]model.TokenOverride) []model.Token {
	if len(overrides) == 0 {
		return tokens
	}
	patched := make([]model.Token, len(tokens))
	for i, token := range tokens {
		if override, ok := overrides[token.Key()]; ok {
			token = override.Apply(token)
		}
		patched[i] = token
	}
	return patched
}

// SortByAddress orders tokens by their address as written.
func SortByAddress(tokens []model.Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].Address < tokens[j].Address
	})
}
