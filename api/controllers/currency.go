package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cartlyhq/cartly-backend/api/responses"
	"github.com/cartlyhq/cartly-backend/internal/currency"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
)

// CurrencyCountries returns all countries that declare a currency.
func CurrencyCountries(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		countries, err := svc.Countries(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, countries)
	}
}

// CurrencyRates returns exchange rates for a base currency (default USD).
func CurrencyRates(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rates, err := svc.Rates(ctx, r.URL.Query().Get("base"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, rates)
	}
}

// CurrencyConvert converts an amount between two currencies.
func CurrencyConvert(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawAmount := strings.TrimSpace(r.URL.Query().Get("amount"))
		if rawAmount == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount is required"))
			return
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		conversion, err := svc.Convert(ctx, amount, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, conversion)
	}
}
