package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a unit the converter can price in CLP.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Series string `json:"-"` // Banco Central series id
}

// SupportedCurrencies lists the convertible currencies in display order.
var SupportedCurrencies = []Currency{
	{Code: "USD", Name: "Dólar Estadounidense", Series: "F073.TCO.PRE.Z.D"},
	{Code: "EUR", Name: "Euro", Series: "F073.TCO.EUR.Z.D"},
	{Code: "UF", Name: "Unidad de Fomento", Series: "F073.UF.PRE.Z.D"},
	{Code: "UTM", Name: "Unidad Tributaria Mensual", Series: "F073.UTM.PRE.Z.D"},
}

// LookupCurrency finds a supported currency by code.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range SupportedCurrencies {
		if c.Code == code {
			return c, true
		}
	}

	return Currency{}, false
}

// ExchangeRate is the CLP value of one unit of Currency on Date.
type ExchangeRate struct {
	Currency string
	Rate     decimal.Decimal
	Date     time.Time
}

// Conversion is the result of converting a foreign amount to CLP.
type Conversion struct {
	AmountCLP      decimal.Decimal
	Rate           decimal.Decimal
	Currency       string
	OriginalAmount decimal.Decimal
	Date           time.Time
}
