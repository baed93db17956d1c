package currency

import (
	"errors"
	"fmt"

	"banks-etl/lib/marketcap"

	"github.com/shopspring/decimal"
)

var ErrMissingValue = errors.New("missing market cap value")

const (
	// Source is the currency the market cap is extracted in, it is never
	// derived from the rates.
	Source = "USD"

	// Places is the number of decimal places converted values are rounded to.
	Places = 2
)

// Targets are the currencies every record is converted into.
var Targets = []string{"GBP", "EUR", "INR"}

// ConvertValue returns round(value * rate, Places).
func ConvertValue(value float64, rate decimal.Decimal) float64 {
	return decimal.NewFromFloat(value).Mul(rate).Round(Places).InexactFloat64()
}

// Convert returns a copy of the table with a market cap column added for
// every target currency. Neither the table nor the rates are modified.
// Every target rate is looked up before any record is converted.
func Convert(table marketcap.Table, rates Rates) (marketcap.Table, error) {
	targetRates := make([]decimal.Decimal, len(Targets))
	for i, code := range Targets {
		rate, err := rates.Get(code)
		if err != nil {
			return marketcap.Table{}, err
		}
		targetRates[i] = rate
	}

	out := table.Clone()
	for _, code := range Targets {
		column := marketcap.Column(code)
		if !out.HasColumn(column) {
			out.Columns = append(out.Columns, column)
		}
	}

	for i := range out.Records {
		record := &out.Records[i]
		usd, ok := record.MarketCap[Source]
		if !ok {
			return marketcap.Table{}, fmt.Errorf("%w: %s has no %s value", ErrMissingValue, record.Name, Source)
		}
		for j, code := range Targets {
			record.MarketCap[code] = ConvertValue(usd, targetRates[j])
		}
	}

	return out, nil
}
