package currency

import "github.com/shopspring/decimal"

// CurrencyInfo describes one currency a country uses.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// CountryDTO is one country with its currencies.
type CountryDTO struct {
	Name       string         `json:"name"`
	Code       string         `json:"code"`
	Currencies []CurrencyInfo `json:"currencies"`
}

// RatesDTO carries exchange rates relative to a base currency.
type RatesDTO struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// ConversionDTO is the result of one currency conversion.
type ConversionDTO struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
}
