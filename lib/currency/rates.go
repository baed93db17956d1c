package currency

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrResource    = errors.New("invalid exchange rate resource")
	ErrMissingRate = errors.New("missing exchange rate")
)

const (
	currencyHeader = "Currency"
	rateHeader     = "Rate"
)

// Rates maps a currency code to how many units of it one US dollar buys.
type Rates struct {
	rates map[string]decimal.Decimal
}

func NewRates(rates map[string]float64) (Rates, error) {
	out := Rates{rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		d := decimal.NewFromFloat(rate)
		if !d.IsPositive() {
			return Rates{}, fmt.Errorf("%w: rate for %s must be positive, got %v", ErrResource, code, rate)
		}
		out.rates[code] = d
	}
	return out, nil
}

// LoadRates reads a csv file with a "Currency" and a "Rate" column.
func LoadRates(path string) (Rates, error) {
	f, err := os.Open(path)
	if err != nil {
		return Rates{}, fmt.Errorf("%w: %s", ErrResource, err.Error())
	}
	defer f.Close()
	return ReadRates(f)
}

func ReadRates(r io.Reader) (Rates, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Rates{}, fmt.Errorf("%w: empty file", ErrResource)
	}
	if err != nil {
		return Rates{}, fmt.Errorf("%w: %s", ErrResource, err.Error())
	}

	currencyIdx, rateIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case currencyHeader:
			currencyIdx = i
		case rateHeader:
			rateIdx = i
		}
	}
	if currencyIdx < 0 || rateIdx < 0 {
		return Rates{}, fmt.Errorf(
			"%w: expected columns %s and %s, got %v",
			ErrResource, currencyHeader, rateHeader, header,
		)
	}

	out := Rates{rates: map[string]decimal.Decimal{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rates{}, fmt.Errorf("%w: %s", ErrResource, err.Error())
		}

		code := strings.TrimSpace(record[currencyIdx])
		rate, err := decimal.NewFromString(strings.TrimSpace(record[rateIdx]))
		if err != nil {
			return Rates{}, fmt.Errorf("%w: rate for %s: %s", ErrResource, code, err.Error())
		}
		if !rate.IsPositive() {
			return Rates{}, fmt.Errorf("%w: rate for %s must be positive, got %s", ErrResource, code, rate)
		}
		out.rates[code] = rate
	}

	return out, nil
}

// Get returns the rate of a currency, there is no default.
func (r Rates) Get(code string) (decimal.Decimal, error) {
	rate, ok := r.rates[code]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMissingRate, code)
	}
	return rate, nil
}

func (r Rates) Len() int {
	return len(r.rates)
}
