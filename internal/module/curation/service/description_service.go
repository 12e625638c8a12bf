package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

var cryptoCompareAttribution = regexp.MustCompile(`Blockchain data provided by:`)

type DescriptionService interface {
	FetchFromCoinGecko(ctx context.Context) error
	FetchFromCryptoCompare(ctx context.Context) error
}

type descriptionService struct {
	curation             *config.Curation
	listRepo             repository.ListRepository
	coinGeckoService     CoinGeckoService
	cryptoCompareService CryptoCompareService
	logger               zerolog.Logger
}

func NewDescriptionService(
	curation *config.Curation,
	listRepo repository.ListRepository,
	coinGeckoService CoinGeckoService,
	cryptoCompareService CryptoCompareService,
	logger zerolog.Logger,
) DescriptionService {
	return &descriptionService{
		curation:             curation,
		listRepo:             listRepo,
		coinGeckoService:     coinGeckoService,
		cryptoCompareService: cryptoCompareService,
		logger:               logger,
	}
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(fragment string) string {
	var text strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return text.String()
		case html.TextToken:
			text.Write(tokenizer.Text())
		}
	}
}

// TrimCryptoCompareDescription drops the attribution footer CryptoCompare appends.
func TrimCryptoCompareDescription(description string) string {
	return strings.TrimSpace(cryptoCompareAttribution.Split(description, 2)[0])
}

func (s *descriptionService) FetchFromCoinGecko(ctx context.Context) error {
	coins, err := s.listRepo.ReadCoins()
	if err != nil {
		return err
	}

	mapping := s.curation.CoinGeckoIDs()
	symbolsByID := make(map[string][]string)
	for _, coin := range coins {
		if id, ok := mapping[coin.Symbol]; ok {
			symbolsByID[id] = append(symbolsByID[id], coin.Symbol)
		}
	}
	s.logger.Info().Msgf("Fetching descriptions for %d coins", len(symbolsByID))
	descriptions := s.fetchCoinGeckoDescriptions(ctx, symbolsByID)

	index, _ := s.coinGeckoService.Index(ctx)
	for _, network := range s.curation.Networks {
		tokens, err := s.listRepo.ReadTokens(network)
		if err != nil {
			return err
		}

		symbolsByID := make(map[string][]string)
		for _, token := range tokens {
			if coin, ok := index.ByAddress(network.CoinGeckoPlatform, token.Address); ok {
				symbolsByID[coin.ID] = append(symbolsByID[coin.ID], token.Symbol)
			}
		}
		s.logger.Info().Msgf("Fetching descriptions for %d %s tokens", len(symbolsByID), network.Symbol)
		for symbol, description := range s.fetchCoinGeckoDescriptions(ctx, symbolsByID) {
			descriptions[symbol] = description
		}
	}

	return s.write(descriptions, nil)
}

func (s *descriptionService) fetchCoinGeckoDescriptions(ctx context.Context, symbolsByID map[string][]string) map[string]model.Description {
	descriptions := make(map[string]model.Description)
	shared.MapChunked(sortedKeys(symbolsByID), 1, progressWriter, func(ids []string) struct{} {
		detail, err := s.coinGeckoService.CoinDetail(ctx, ids[0])
		if err != nil {
			s.logger.Error().Err(err).Msgf("Error fetching CoinGecko description of %s", ids[0])
			return struct{}{}
		}
		for _, symbol := range symbolsByID[ids[0]] {
			descriptions[symbol] = model.Description{
				Symbol:      symbol,
				Description: strings.TrimSpace(StripHTML(detail.Description.En)),
				Website:     detail.Homepage(),
			}
		}
		return struct{}{}
	})
	return descriptions
}

func (s *descriptionService) FetchFromCryptoCompare(ctx context.Context) error {
	symbols, err := s.publishedSymbols()
	if err != nil {
		return err
	}

	data, err := s.cryptoCompareService.CoinList(ctx)
	if err != nil {
		return err
	}

	descriptions := make(map[string]model.Description)
	var missing []string
	for _, symbol := range symbols {
		details, ok := data[symbol]
		if !ok {
			missing = append(missing, symbol)
			continue
		}
		descriptions[symbol] = model.Description{
			Symbol:      symbol,
			Description: TrimCryptoCompareDescription(details.Description),
			Website:     details.AssetWebsiteURL,
			Whitepaper:  details.AssetWhitepaperURL,
		}
	}

	return s.write(descriptions, missing)
}

// publishedSymbols is every symbol of coins.json, erc20-tokens.json and the chain lists, sorted.
func (s *descriptionService) publishedSymbols() ([]string, error) {
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

	set := make(map[string]struct{})
	for _, coin := range coins {
		set[coin.Symbol] = struct{}{}
	}
	for _, token := range erc20 {
		set[token.Symbol] = struct{}{}
	}
	for _, tokens := range chains {
		for _, token := range tokens {
			set[token.Symbol] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (s *descriptionService) write(descriptions map[string]model.Description, missing []string) error {
	texts := make(map[string]string, len(descriptions))
	infos := make([]model.Description, 0, len(descriptions))
	for symbol, description := range descriptions {
		texts[symbol] = description.Description
		infos = append(infos, description)
	}
	sort.Strings(missing)
	if len(missing) > 0 {
		s.logger.Warn().Strs("symbols", missing).Msgf("No description found for %d symbols", len(missing))
	}
	return s.listRepo.WriteDescriptions(texts, infos)
}
