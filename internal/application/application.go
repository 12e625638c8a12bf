package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// run modes selected on the command line
const (
	ModeBuild                      = "build"
	ModeFetchPrices                = "fetch-prices"
	ModeFetchDescriptions          = "fetch-descriptions"
	ModeFetchDescriptionsCryptoCmp = "fetch-descriptions-cryptocompare"
	ModeFillFromCoinGecko          = "fill-from-coingecko"
	ModeCheck                      = "check"
	ModeLegacyERC20                = "legacy-erc20"
)

// Options holds everything parsed from the command line.
type Options struct {
	RunID       string
	ConfigFile  string
	Root        string
	Mode        string
	CI          bool
	NoCache     bool
	FillNetwork string

	// positional arguments of the legacy erc20 mode
	LegacyAssetsDir  string
	LegacyAllowlist  string
	LegacyDenylist   string
	LegacyOutputFile string
}

// ParseOptions reads the flag set. Exactly one mode flag may be given; none means ModeBuild.
func ParseOptions(name string, args []string) (*Options, error) {
	opts := &Options{RunID: uuid.New().String()}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.StringVar(&opts.ConfigFile, "config", "", "path of an extra yaml config file")
	fs.StringVar(&opts.Root, "root", ".", "repository root the relative paths are resolved against")
	fs.BoolVar(&opts.CI, "ci", false, "append duplicate losers to the deny-list and retry once")
	fs.BoolVar(&opts.NoCache, "no-cache", false, "ignore cached CoinGecko and CryptoCompare lists")
	fetchPrices := fs.Bool(ModeFetchPrices, false, "fetch prices into extensions/prices.json")
	fetchDescriptions := fs.Bool(ModeFetchDescriptions, false, "fetch descriptions from CoinGecko")
	fetchDescriptionsCC := fs.Bool(ModeFetchDescriptionsCryptoCmp, false, "fetch descriptions from CryptoCompare")
	fs.StringVar(&opts.FillNetwork, ModeFillFromCoinGecko, "", "add CoinGecko tokens of the given network as extensions")
	check := fs.Bool(ModeCheck, false, "check the generated lists against custody.json")
	legacy := fs.Bool(ModeLegacyERC20, false, "build a legacy erc20 list: assets_dir allowlist denylist output_file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	selected := map[string]bool{
		ModeFetchPrices:                *fetchPrices,
		ModeFetchDescriptions:          *fetchDescriptions,
		ModeFetchDescriptionsCryptoCmp: *fetchDescriptionsCC,
		ModeFillFromCoinGecko:          opts.FillNetwork != "",
		ModeCheck:                      *check,
		ModeLegacyERC20:                *legacy,
	}
	opts.Mode = ModeBuild
	for mode, on := range selected {
		if !on {
			continue
		}
		if opts.Mode != ModeBuild {
			return nil, fmt.Errorf("flags --%s and --%s are mutually exclusive", opts.Mode, mode)
		}
		opts.Mode = mode
	}

	if opts.Mode == ModeLegacyERC20 {
		if fs.NArg() != 4 {
			return nil, errors.New("--legacy-erc20 expects: assets_dir allowlist denylist output_file")
		}
		opts.LegacyAssetsDir = fs.Arg(0)
		opts.LegacyAllowlist = fs.Arg(1)
		opts.LegacyDenylist = fs.Arg(2)
		opts.LegacyOutputFile = fs.Arg(3)
	}

	return opts, nil
}

type Application struct {
	AppName    string
	Production bool
	Root       string
	Options    *Options
}

func NewApplication(cfg *koanf.Koanf, opts *Options) (*Application, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", opts.Root, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	return &Application{
		AppName:    cfg.String("app.name"),
		Production: cfg.Bool("app.production"),
		Root:       root,
		Options:    opts,
	}, nil
}

// Path resolves a repository relative path against the root.
func (a *Application) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(a.Root, rel)
}
