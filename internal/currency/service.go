package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
)

const (
	defaultCountriesURL = "https://restcountries.com/v3.1/all"
	defaultRatesURL     = "https://open.er-api.com/v6/latest"

	countriesCacheKey = "countries"
	countriesCacheTTL = 24 * time.Hour
	ratesCacheTTL     = time.Hour
)

// ServiceParams bundles the currency service dependencies.
type ServiceParams struct {
	Cache        KV
	Logger       *logger.Logger
	HTTPClient   *http.Client
	CountriesURL string
	RatesURL     string
}

// Service exposes country and exchange-rate lookups backed by public APIs.
type Service interface {
	Countries(ctx context.Context) ([]CountryDTO, error)
	Rates(ctx context.Context, base string) (RatesDTO, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (ConversionDTO, error)
}

type service struct {
	cache        KV
	logg         *logger.Logger
	httpClient   *http.Client
	countriesURL string
	ratesURL     string
}

// NewService validates dependencies and builds the currency service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cache is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if params.CountriesURL == "" {
		params.CountriesURL = defaultCountriesURL
	}
	if params.RatesURL == "" {
		params.RatesURL = defaultRatesURL
	}
	return &service{
		cache:        params.Cache,
		logg:         params.Logger,
		httpClient:   params.HTTPClient,
		countriesURL: strings.TrimRight(params.CountriesURL, "/"),
		ratesURL:     strings.TrimRight(params.RatesURL, "/"),
	}, nil
}

type restCountryPayload struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2       string `json:"cca2"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

type ratesPayload struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// Countries returns all countries that declare at least one currency.
func (s *service) Countries(ctx context.Context) ([]CountryDTO, error) {
	var cached []CountryDTO
	if s.readCache(ctx, countriesCacheKey, &cached) {
		return cached, nil
	}

	url := s.countriesURL + "?fields=name,cca2,currencies"
	var payload []restCountryPayload
	if err := s.fetchJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	countries := make([]CountryDTO, 0, len(payload))
	for _, entry := range payload {
		if len(entry.Currencies) == 0 {
			continue
		}
		dto := CountryDTO{
			Name: entry.Name.Common,
			Code: entry.CCA2,
		}
		for code, info := range entry.Currencies {
			dto.Currencies = append(dto.Currencies, CurrencyInfo{
				Code:   code,
				Name:   info.Name,
				Symbol: info.Symbol,
			})
		}
		sort.Slice(dto.Currencies, func(i, j int) bool {
			return dto.Currencies[i].Code < dto.Currencies[j].Code
		})
		countries = append(countries, dto)
	}
	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Name < countries[j].Name
	})

	s.writeCache(ctx, countriesCacheKey, countries, countriesCacheTTL)
	return countries, nil
}

// Rates returns exchange rates for the base currency.
func (s *service) Rates(ctx context.Context, base string) (RatesDTO, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = "USD"
	}

	cacheKey := "rates:" + base
	var cached RatesDTO
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	url := s.ratesURL + "/" + base
	var payload ratesPayload
	if err := s.fetchJSON(ctx, url, &payload); err != nil {
		return RatesDTO{}, err
	}
	if payload.Result != "success" || len(payload.Rates) == 0 {
		return RatesDTO{}, pkgerrors.New(pkgerrors.CodeDependency, "exchange rate provider returned no rates")
	}

	rates := RatesDTO{Base: payload.BaseCode, Rates: payload.Rates}
	if rates.Base == "" {
		rates.Base = base
	}
	s.writeCache(ctx, cacheKey, rates, ratesCacheTTL)
	return rates, nil
}

// Convert applies the current exchange rate to an amount.
func (s *service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (ConversionDTO, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return ConversionDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "both currencies are required")
	}

	if from == to {
		return ConversionDTO{
			From:      from,
			To:        to,
			Rate:      decimal.NewFromInt(1),
			Amount:    amount,
			Converted: amount,
		}, nil
	}

	rates, err := s.Rates(ctx, from)
	if err != nil {
		return ConversionDTO{}, err
	}
	rate, ok := rates.Rates[to]
	if !ok {
		return ConversionDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported currency %q", to))
	}

	rateDec := decimal.NewFromFloat(rate)
	return ConversionDTO{
		From:      from,
		To:        to,
		Rate:      rateDec,
		Amount:    amount,
		Converted: amount.Mul(rateDec).Round(2),
	}, nil
}

func (s *service) fetchJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "currency provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("currency provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read provider response")
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode provider response")
	}
	return nil
}

// readCache loads a cached payload; any cache failure is logged and treated
// as a miss.
func (s *service) readCache(ctx context.Context, key string, dest any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			s.logg.Warn(ctx, "currency cache read failed: "+err.Error())
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logg.Warn(ctx, "currency cache entry unreadable: "+err.Error())
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logg.Warn(ctx, "currency cache encode failed: "+err.Error())
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), ttl); err != nil {
		s.logg.Warn(ctx, "currency cache write failed: "+err.Error())
	}
}
