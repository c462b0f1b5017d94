package currency

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
)

const countriesBody = `[
  {"name":{"common":"United States"},"cca2":"US","currencies":{"USD":{"name":"United States dollar","symbol":"$"}}},
  {"name":{"common":"Antarctica"},"cca2":"AQ","currencies":{}},
  {"name":{"common":"Japan"},"cca2":"JP","currencies":{"JPY":{"name":"Japanese yen","symbol":"¥"}}}
]`

const ratesBody = `{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.9,"JPY":150.25}}`

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, error) {
	return "", errors.New("cache down")
}

func (brokenKV) Set(context.Context, string, string, time.Duration) error {
	return errors.New("cache down")
}

func newCurrencyService(t *testing.T, cache KV, countriesURL, ratesURL string) Service {
	t.Helper()

	if cache == nil {
		cache = NewMemoryKV()
	}
	svc, err := NewService(ServiceParams{
		Cache:        cache,
		Logger:       logger.New(logger.Options{ServiceName: "currency-test", Output: io.Discard}),
		HTTPClient:   &http.Client{Timeout: time.Second},
		CountriesURL: countriesURL + "/v3.1/all",
		RatesURL:     ratesURL + "/v6/latest",
	})
	require.NoError(t, err)
	return svc
}

func TestCountriesFiltersAndCaches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/v3.1/all", r.URL.Path)
		require.Equal(t, "name,cca2,currencies", r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(countriesBody))
	}))
	defer server.Close()

	svc := newCurrencyService(t, nil, server.URL, server.URL)
	ctx := context.Background()

	countries, err := svc.Countries(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 2, "countries without currencies are dropped")
	require.Equal(t, "Japan", countries[0].Name)
	require.Equal(t, "US", countries[1].Code)
	require.Equal(t, "USD", countries[1].Currencies[0].Code)

	// second call is served from cache
	_, err = svc.Countries(ctx)
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestRatesCachedPerBase(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/v6/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ratesBody))
	}))
	defer server.Close()

	svc := newCurrencyService(t, nil, server.URL, server.URL)
	ctx := context.Background()

	rates, err := svc.Rates(ctx, "usd")
	require.NoError(t, err)
	require.Equal(t, "USD", rates.Base)
	require.InDelta(t, 0.9, rates.Rates["EUR"], 0.0001)

	_, err = svc.Rates(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestRatesProviderFailureIsDependencyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newCurrencyService(t, nil, server.URL, server.URL)

	_, err := svc.Rates(context.Background(), "USD")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}

func TestConvert(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ratesBody))
	}))
	defer server.Close()

	svc := newCurrencyService(t, nil, server.URL, server.URL)
	ctx := context.Background()

	// same currency bypasses the provider
	same, err := svc.Convert(ctx, decimal.NewFromInt(42), "USD", "usd")
	require.NoError(t, err)
	require.True(t, same.Rate.Equal(decimal.NewFromInt(1)))
	require.True(t, same.Converted.Equal(decimal.NewFromInt(42)))

	converted, err := svc.Convert(ctx, decimal.NewFromInt(100), "USD", "EUR")
	require.NoError(t, err)
	require.True(t, converted.Converted.Equal(decimal.NewFromInt(90)))

	_, err = svc.Convert(ctx, decimal.NewFromInt(100), "USD", "XXX")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCacheOutageFailsOpen(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ratesBody))
	}))
	defer server.Close()

	svc := newCurrencyService(t, brokenKV{}, server.URL, server.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rates, err := svc.Rates(ctx, "USD")
		require.NoError(t, err)
		require.NotEmpty(t, rates.Rates)
	}
	require.Equal(t, int32(2), hits.Load(), "every call goes to the provider when the cache is down")
}

type wrappedMissKV struct{}

func (wrappedMissKV) Get(context.Context, string) (string, error) {
	return "", fmt.Errorf("cache lookup: %w", ErrMiss)
}

func (wrappedMissKV) Set(context.Context, string, string, time.Duration) error {
	return nil
}

func TestWrappedCacheMissIsNotAnOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ratesBody))
	}))
	defer server.Close()

	var logs bytes.Buffer
	svc, err := NewService(ServiceParams{
		Cache:        wrappedMissKV{},
		Logger:       logger.New(logger.Options{ServiceName: "currency-test", Output: &logs}),
		HTTPClient:   &http.Client{Timeout: time.Second},
		CountriesURL: server.URL + "/v3.1/all",
		RatesURL:     server.URL + "/v6/latest",
	})
	require.NoError(t, err)

	rates, err := svc.Rates(context.Background(), "USD")
	require.NoError(t, err)
	require.NotEmpty(t, rates.Rates)
	require.NotContains(t, logs.String(), "cache read failed", "a wrapped miss is a plain miss, not a cache failure")
}
