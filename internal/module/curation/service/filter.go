package service

import (
	"strings"

	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/ethereum/go-ethereum/common"
)

// Keyed is anything identified by a lower-cased address.
type Keyed interface {
	Key() string
}

// Filter keeps the items every predicate accepts, in order.
func Filter[T any](items []T, predicates ...func(T) bool) []T {
	kept := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, predicate := range predicates {
			if !predicate(item) {
				continue next
			}
		}
		kept = append(kept, item)
	}
	return kept
}

func IsActive(asset model.Asset) bool {
	return asset.IsActive()
}

func InAllowlist[T Keyed](allowlist map[string]struct{}) func(T) bool {
	return func(item T) bool {
		_, ok := allowlist[item.Key()]
		return ok
	}
}

func NotInDenylist[T Keyed](denylists ...map[string]struct{}) func(T) bool {
	return func(item T) bool {
		key := item.Key()
		for _, denylist := range denylists {
			if _, ok := denylist[key]; ok {
				return false
			}
		}
		return true
	}
}

func HasValidSymbol(token model.Token) bool {
	return token.IsValid()
}

// HasPrice looks the token up under {address}.{network symbol}.
func HasPrice(prices model.PriceList, network model.Network) func(model.Token) bool {
	return func(token model.Token) bool {
		return prices.Has(token.PriceKey(network))
	}
}

// HasValidAddress checks the address format of the network. Unknown formats are accepted.
func HasValidAddress(network model.Network) func(model.Token) bool {
	return func(token model.Token) bool {
		return IsValidAddress(network, token.Address)
	}
}

func IsValidAddress(network model.Network, address string) bool {
	switch network.AddressFormat {
	case config.AddressFormatEVM:
		return common.IsHexAddress(address) && strings.HasPrefix(strings.ToLower(address), "0x")
	case config.AddressFormatCardano:
		return cardano.IsFingerprint(address)
	default:
		return address != ""
	}
}
