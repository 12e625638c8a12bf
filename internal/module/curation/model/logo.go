package model

import (
	"os"
	"path"
	"path/filepath"
)

// LogoResolver builds logo URLs, preferring our own extension tree over the upstream asset repo.
type LogoResolver struct {
	Root           string
	ExtBlockchains string
	Blockchains    string
	TWRoot         string
	BCRoot         string
}

func (l LogoResolver) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(l.Root, rel))
	return err == nil
}

// CoinLogo returns an empty string when neither tree has a logo for the chain.
func (l LogoResolver) CoinLogo(key string) string {
	if ext := path.Join(l.ExtBlockchains, key, "info", "logo.png"); l.exists(ext) {
		return l.BCRoot + ext
	}
	if l.exists(path.Join(l.Blockchains, key, "info", "logo.png")) {
		return l.TWRoot + path.Join("blockchains", key, "info", "logo.png")
	}
	return ""
}

func (l LogoResolver) TokenLogo(address string, network Network) string {
	if network.ExtAssetsDir != "" {
		if ext := path.Join(network.ExtAssetsDir, address, "logo.png"); l.exists(ext) {
			return l.BCRoot + ext
		}
	}
	return l.TWRoot + path.Join("blockchains", network.Key, "assets", address, "logo.png")
}
