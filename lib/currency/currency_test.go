package currency

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"banks-etl/lib/marketcap"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const rateFile = `Currency,Rate
EUR,0.93
GBP,0.8
INR,82.95
`

func testRates(t testing.TB) Rates {
	rates, err := ReadRates(strings.NewReader(rateFile))
	if err != nil {
		t.Fatal(err)
	}
	return rates
}

func bankTable(records ...marketcap.Record) marketcap.Table {
	table := marketcap.NewTable(marketcap.DefaultColumns)
	table.Records = records
	return table
}

func usd(name string, value float64) marketcap.Record {
	return marketcap.Record{Name: name, MarketCap: map[string]float64{Source: value}}
}

func TestReadRates(t *testing.T) {
	rates := testRates(t)
	require.Equal(t, 3, rates.Len())

	eur, err := rates.Get("EUR")
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.93").Equal(eur))

	_, err = rates.Get("JPY")
	require.ErrorIs(t, err, ErrMissingRate)
}

func TestReadRatesColumnOrder(t *testing.T) {
	rates, err := ReadRates(strings.NewReader("\ufeffRate,Note,Currency\n0.8,pound,GBP\n"))
	if err != nil {
		t.Fatal(err)
	}
	gbp, err := rates.Get("GBP")
	require.NoError(t, err)
	require.Equal(t, "0.8", gbp.String())
}

func TestReadRatesErrors(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{name: "empty", contents: ""},
		{name: "missing rate column", contents: "Currency,Value\nEUR,0.93\n"},
		{name: "missing currency column", contents: "Code,Rate\nEUR,0.93\n"},
		{name: "rate not a number", contents: "Currency,Rate\nEUR,abc\n"},
		{name: "non positive rate", contents: "Currency,Rate\nEUR,0\n"},
		{name: "ragged row", contents: "Currency,Rate\nEUR\n"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadRates(strings.NewReader(test.contents))
			require.ErrorIs(t, err, ErrResource)
		})
	}
}

func TestLoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange_rate.csv")
	err := os.WriteFile(path, []byte(rateFile), 0644)
	if err != nil {
		t.Fatal(err)
	}

	rates, err := LoadRates(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 3, rates.Len())

	_, err = LoadRates(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, ErrResource)
}

func TestConvert(t *testing.T) {
	rates := testRates(t)
	input := bankTable(usd("Bank A", 100.0))

	out, err := Convert(input, rates)
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, marketcap.DefaultColumns, out.Columns)
	require.Equal(t, map[string]float64{
		"USD": 100.0,
		"EUR": 93.0,
		"GBP": 80.0,
		"INR": 8295.0,
	}, out.Records[0].MarketCap)

	// the input table is left untouched
	require.Equal(t, map[string]float64{"USD": 100.0}, input.Records[0].MarketCap)
}

func TestConvertRounding(t *testing.T) {
	rates := testRates(t)
	input := bankTable(
		usd("JPMorgan Chase", 432.92),
		usd("Bank of America", 231.52),
		usd("ICBC", 194.56),
		usd("Agricultural Bank of China", 160.68),
	)

	out, err := Convert(input, rates)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, input.Len(), out.Len())

	for i, record := range out.Records {
		source := input.Records[i].MarketCap[Source]
		for _, code := range Targets {
			rate, err := rates.Get(code)
			require.NoError(t, err)

			expected := decimal.NewFromFloat(source).Mul(rate).Round(2)
			actual := decimal.NewFromFloat(record.MarketCap[code])
			require.True(t, expected.Equal(actual), "%s %s: expected %s, got %s", record.Name, code, expected, actual)
			require.True(t, actual.Equal(actual.Round(2)))
		}
	}

	require.Equal(t, 346.34, out.Records[0].MarketCap["GBP"])
	require.Equal(t, 402.62, out.Records[0].MarketCap["EUR"])
	require.Equal(t, 35910.71, out.Records[0].MarketCap["INR"])
}

func TestConvertMissingRate(t *testing.T) {
	rates, err := NewRates(map[string]float64{"GBP": 0.8, "INR": 82.95})
	if err != nil {
		t.Fatal(err)
	}

	out, err := Convert(bankTable(usd("Bank A", 100.0)), rates)
	require.ErrorIs(t, err, ErrMissingRate)
	require.Equal(t, 0, out.Len())
}

func TestConvertMissingValue(t *testing.T) {
	rates := testRates(t)
	_, err := Convert(bankTable(marketcap.Record{Name: "Bank A", MarketCap: map[string]float64{}}), rates)
	require.ErrorIs(t, err, ErrMissingValue)
}

func TestConvertAddsColumns(t *testing.T) {
	rates := testRates(t)
	input := marketcap.NewTable([]string{marketcap.NameColumn, marketcap.Column(Source)})
	input.Records = []marketcap.Record{usd("Bank A", 1)}

	out, err := Convert(input, rates)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, marketcap.DefaultColumns, out.Columns)
}

func TestNewRatesRejectsNonPositive(t *testing.T) {
	_, err := NewRates(map[string]float64{"EUR": -1})
	require.ErrorIs(t, err, ErrResource)
}
