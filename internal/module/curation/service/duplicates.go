package service

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
)

type DuplicateGroup[T any] struct {
	Key   string
	Items []T
}

// FindDuplicates sorts by key, groups equal neighbours and returns the groups with more than one member.
func FindDuplicates[T any](items []T, key func(T) string) []DuplicateGroup[T] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) < key(sorted[j])
	})

	var duplicates []DuplicateGroup[T]
	for i := 0; i < len(sorted); {
		k := key(sorted[i])
		j := i + 1
		for j < len(sorted) && key(sorted[j]) == k {
			j++
		}
		if j-i > 1 {
			duplicates = append(duplicates, DuplicateGroup[T]{Key: k, Items: sorted[i:j]})
		}
		i = j
	}
	return duplicates
}

func TokenSymbolKey(token model.Token) string {
	return strings.ToLower(token.Symbol)
}

func CoinSymbolKey(coin model.Coin) string {
	return strings.ToLower(coin.Symbol)
}

// DuplicateLosers picks the members to deny-list: those not published yet, or all of them when none is.
func DuplicateLosers(groups []DuplicateGroup[model.Token], published []model.Token) []model.Token {
	publishedKeys := make(map[string]struct{}, len(published))
	for _, token := range published {
		publishedKeys[token.Key()] = struct{}{}
	}

	var losers []model.Token
	for _, group := range groups {
		var fresh []model.Token
		for _, token := range group.Items {
			if _, ok := publishedKeys[token.Key()]; !ok {
				fresh = append(fresh, token)
			}
		}
		if len(fresh) == len(group.Items) {
			losers = append(losers, group.Items...)
			continue
		}
		losers = append(losers, fresh...)
	}
	return losers
}

// RemediationInfo resolves the price and CoinGecko page of a token for the duplicate dump.
type RemediationInfo func(token model.Token) (price *float64, coinGeckoURL string)

// DumpDuplicates prints each group with the links needed to pick a winner by hand.
func DumpDuplicates(w io.Writer, groups []DuplicateGroup[model.Token], network model.Network, info RemediationInfo) {
	fmt.Fprintf(w, "Found %d duplicate symbols on %s:\n", len(groups), network.Chain)

	for _, group := range groups {
		fmt.Fprintf(w, "# '%s' is shared by:\n", group.Key)
		for _, token := range group.Items {
			fmt.Fprintf(w, "# - %s%s (%s): %s\n", network.ExplorerURL, token.Address, token.Name, token.Website)

			if info != nil {
				price, coinGeckoURL := info(token)
				if price != nil {
					fmt.Fprintf(w, "#   price: $%g\n", *price)
				} else {
					fmt.Fprintf(w, "#   price: unknown\n")
				}
				if coinGeckoURL != "" {
					fmt.Fprintf(w, "#   coingecko: %s\n", coinGeckoURL)
				}
			}
			fmt.Fprintf(w, "# %s\n", token.Address)
		}
		fmt.Fprintln(w, "#")
	}
}

// DenylistLines formats losers for appending to a deny-list file.
func DenylistLines(losers []model.Token) []string {
	lines := make([]string, 0, len(losers))
	for _, token := range losers {
		lines = append(lines, fmt.Sprintf("%s # %s duplicate", token.Address, token.Symbol))
	}
	return lines
}
