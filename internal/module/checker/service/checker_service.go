package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/checker/model"
	curationmodel "github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	curationservice "github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var ErrBlockers = errors.New("blocker issue(s) found")

// References indexes the published lists by symbol.
type References struct {
	Coins  map[string]curationmodel.Coin
	ERC20  map[string]curationmodel.Token
	Chains map[string]map[string]curationmodel.Token
}

type CheckerService interface {
	Check(ctx context.Context) ([]model.CheckResult, error)
	CheckCurrencies(currencies []model.Currency, refs References, prices curationmodel.PriceList) []model.CheckResult
}

type checkerService struct {
	app       *application.Application
	curation  *config.Curation
	listRepo  repository.ListRepository
	priceRepo repository.PriceRepository
	slack     *shared.Slack
	validate  *validator.Validate
	output    io.Writer
	logger    zerolog.Logger
}

func NewCheckerService(
	app *application.Application,
	curation *config.Curation,
	listRepo repository.ListRepository,
	priceRepo repository.PriceRepository,
	slack *shared.Slack,
	logger zerolog.Logger,
) CheckerService {
	return &checkerService{
		app:       app,
		curation:  curation,
		listRepo:  listRepo,
		priceRepo: priceRepo,
		slack:     slack,
		validate:  validator.New(),
		output:    os.Stdout,
		logger:    logger,
	}
}

func (s *checkerService) Check(ctx context.Context) ([]model.CheckResult, error) {
	coins, err := s.listRepo.ReadCoins()
	if err != nil {
		return nil, err
	}
	erc20, err := s.listRepo.ReadERC20Tokens()
	if err != nil {
		return nil, err
	}
	chains, err := s.listRepo.ReadChainLists()
	if err != nil {
		return nil, err
	}

	var currencies []model.Currency
	if err := shared.ReadJSON(s.app.Path(s.curation.Paths.Custody), &currencies); err != nil {
		return nil, fmt.Errorf("read custody config: %w", err)
	}
	for i, currency := range currencies {
		if err := s.validate.Struct(currency); err != nil {
			return nil, fmt.Errorf("custody entry %d: %w", i, err)
		}
	}

	if results := CheckGlobalDuplicates(coins, erc20); len(results) > 0 {
		s.print(results)
		return results, fmt.Errorf("coins and erc20 tokens: %w", curationservice.ErrDuplicates)
	}

	prices, err := s.priceRepo.Read()
	if err != nil {
		return nil, err
	}

	results := s.CheckCurrencies(currencies, NewReferences(coins, erc20, chains), prices)
	s.print(results)

	var blockers []string
	for _, result := range results {
		if result.IsBlocker() {
			blockers = append(blockers, result.String())
		}
	}
	if len(blockers) > 0 {
		message := fmt.Sprintf("coin-definitions check: %d blocker(s)\n%s", len(blockers), strings.Join(blockers, "\n"))
		if err := s.slack.SendSlackAlert(ctx, message); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to send checker alert")
		}
		return results, fmt.Errorf("%d errors: %w", len(blockers), ErrBlockers)
	}
	return results, nil
}

func (s *checkerService) print(results []model.CheckResult) {
	fmt.Fprintln(s.output)
	for _, result := range results {
		fmt.Fprintf(s.output, "- %s\n", result)
	}
	fmt.Fprintln(s.output)
}

func NewReferences(coins []curationmodel.Coin, erc20 []curationmodel.Token, chains map[string][]curationmodel.Token) References {
	refs := References{
		Coins:  make(map[string]curationmodel.Coin, len(coins)),
		ERC20:  make(map[string]curationmodel.Token, len(erc20)),
		Chains: make(map[string]map[string]curationmodel.Token, len(chains)),
	}
	for _, coin := range coins {
		refs.Coins[coin.Symbol] = coin
	}
	for _, token := range erc20 {
		refs.ERC20[token.Symbol] = token
	}
	for name, tokens := range chains {
		bySymbol := make(map[string]curationmodel.Token, len(tokens))
		for _, token := range tokens {
			bySymbol[token.Symbol] = token
		}
		refs.Chains[name] = bySymbol
	}
	return refs
}

// CheckGlobalDuplicates reports symbols shared between coins and erc20 tokens.
func CheckGlobalDuplicates(coins []curationmodel.Coin, erc20 []curationmodel.Token) []model.CheckResult {
	type entry struct {
		symbol string
		name   string
	}
	combined := make([]entry, 0, len(coins)+len(erc20))
	for _, coin := range coins {
		combined = append(combined, entry{coin.Symbol, coin.Name})
	}
	for _, token := range erc20 {
		combined = append(combined, entry{token.Symbol, token.Name})
	}

	var results []model.CheckResult
	for _, group := range curationservice.FindDuplicates(combined, func(e entry) string { return strings.ToLower(e.symbol) }) {
		names := make([]string, 0, len(group.Items))
		for _, e := range group.Items {
			names = append(names, e.name)
		}
		results = append(results, model.CheckResult{
			Severity: model.SeverityError,
			Ref:      fmt.Sprintf("[%s]", group.Items[0].symbol),
			Message:  fmt.Sprintf("Duplicate elements found: %s", strings.Join(names, ", ")),
		})
	}
	return results
}

func (s *checkerService) CheckCurrencies(currencies []model.Currency, refs References, prices curationmodel.PriceList) []model.CheckResult {
	var results []model.CheckResult
	for _, currency := range currencies {
		if currency.Removed {
			s.logger.Debug().Msgf("Skipping removed currency %s", currency)
			continue
		}

		if strings.ToUpper(currency.Symbol) != currency.Symbol {
			results = append(results, model.Error(currency, "Contains mix of lower and upper case letters"))
		}
		if currency.Type != model.TypeCoin && currency.Type != model.TypeERC20 {
			results = append(results, model.Error(currency, "Invalid type %s", currency.Type))
			continue
		}

		ref, ok := s.resolve(currency, refs)
		if !ok {
			results = append(results, model.Error(currency, "Reference not found"))
			continue
		}

		if ref.Logo == "" {
			results = append(results, model.Warning(ref, "No logo"))
		}
		results = append(results, s.checkSymbol(currency)...)
		results = append(results, s.checkPrecision(currency, ref)...)
		results = append(results, s.checkMinConfirmations(currency, ref)...)
		results = append(results, s.checkPrice(currency, ref, prices)...)
	}
	return results
}

// resolve finds the published record of a currency: coins by symbol, erc20 on ethereum, then chain lists.
func (s *checkerService) resolve(currency model.Currency, refs References) (model.Reference, bool) {
	if currency.Type == model.TypeCoin {
		coin, ok := refs.Coins[currency.Symbol]
		if !ok {
			return model.Reference{}, false
		}
		ref := model.Reference{
			Type:     model.TypeCoin,
			Symbol:   coin.Symbol,
			Name:     coin.Name,
			Decimals: coin.Decimals,
			Logo:     coin.Logo,
			PriceKey: coin.Symbol,
		}
		if network, ok := s.curation.NetworkBySymbol(coin.Symbol); ok {
			ref.MinConfirmations = network.CoinMinConfirmations
		}
		return ref, true
	}

	var network config.Network
	var token curationmodel.Token
	var ok bool
	switch {
	case currency.Chain == "" && strings.Contains(currency.Symbol, "."):
		// grouped family: USDT.MATIC lives in the list of the MATIC network
		suffix := currency.Symbol[strings.LastIndex(currency.Symbol, ".")+1:]
		if network, ok = s.curation.NetworkBySymbol(suffix); ok {
			token, ok = refs.Chains[repository.ChainListName(network)][currency.Symbol]
		}
	case currency.Chain == "" || currency.Chain == "ethereum":
		network, _ = s.curation.NetworkByChain("ethereum")
		token, ok = refs.ERC20[currency.Symbol]
	default:
		token, ok = refs.Chains[currency.Chain][currency.Symbol]
		network, _ = s.networkByListName(currency.Chain)
	}
	if !ok {
		return model.Reference{}, false
	}

	return model.Reference{
		Type:             model.TypeERC20,
		Symbol:           token.Symbol,
		Name:             token.Name,
		Decimals:         token.Decimals,
		Logo:             token.Logo,
		PriceKey:         token.PriceKey(network),
		MinConfirmations: network.MinConfirmations,
	}, true
}

func (s *checkerService) networkByListName(name string) (config.Network, bool) {
	for _, network := range s.curation.Networks {
		if repository.ChainListName(network) == name || network.Chain == name {
			return network, true
		}
	}
	return config.Network{}, false
}

func (s *checkerService) checkSymbol(currency model.Currency) []model.CheckResult {
	if currency.DisplaySymbol != "" && currency.Symbol != currency.DisplaySymbol {
		return []model.CheckResult{model.Warning(currency, "displayed as: %s", currency.DisplaySymbol)}
	}
	return nil
}

// checkPrecision expects min(decimals, max-precision), or the fixed ETH precision for ETH.
func (s *checkerService) checkPrecision(currency model.Currency, ref model.Reference) []model.CheckResult {
	expected := ref.Decimals
	if expected > s.curation.Checker.MaxPrecision {
		expected = s.curation.Checker.MaxPrecision
	}
	if currency.Symbol == "ETH" {
		expected = s.curation.Checker.ETHPrecision
	}

	if precision := currency.NabuSettings.CustodialPrecision; precision != expected {
		return []model.CheckResult{model.Error(currency, "custodialPrecision %d, expected %d", precision, expected)}
	}
	return nil
}

func (s *checkerService) checkMinConfirmations(currency model.Currency, ref model.Reference) []model.CheckResult {
	if currency.HWSSettings == nil || ref.MinConfirmations == 0 {
		return nil
	}
	if currency.HWSSettings.MinConfirmations != ref.MinConfirmations {
		return []model.CheckResult{model.Error(currency, "minConfirmations %d, expected %d",
			currency.HWSSettings.MinConfirmations, ref.MinConfirmations)}
	}
	return nil
}

// checkPrice warns when the minimum withdrawal is worth less than the lower or more than the upper USD bound.
func (s *checkerService) checkPrice(currency model.Currency, ref model.Reference, prices curationmodel.PriceList) []model.CheckResult {
	if currency.HWSSettings == nil || currency.HWSSettings.MinWithdrawal == 0 {
		return nil
	}

	price, ok := prices.Get(ref.PriceKey)
	if !ok {
		return []model.CheckResult{model.Warning(currency, "No price: %s", ref.PriceKey)}
	}

	minWithdrawal := currency.HWSSettings.MinWithdrawal
	value := minWithdrawal / math.Pow10(ref.Decimals) * price
	low, high := s.curation.Checker.MinWithdrawalUSDMin, s.curation.Checker.MinWithdrawalUSDMax
	if !(low < value && value < high) {
		return []model.CheckResult{model.Warning(currency, "minWithdrawal %g -> $%.3f not in the $%g-$%g USD range",
			minWithdrawal, value, low, high)}
	}
	return nil
}
