package marketcap

import (
	"fmt"
	"slices"
	"strings"
)

const (
	NameColumn = "Name"

	columnPrefix = "MC_"
	columnSuffix = "_Billion"
)

// Column returns the column holding the market cap in the given
// currency, e.g. "USD" -> "MC_USD_Billion".
func Column(code string) string {
	return columnPrefix + code + columnSuffix
}

// CurrencyOf is the inverse of Column.
func CurrencyOf(column string) (string, bool) {
	if !strings.HasPrefix(column, columnPrefix) || !strings.HasSuffix(column, columnSuffix) {
		return "", false
	}
	code := column[len(columnPrefix) : len(column)-len(columnSuffix)]
	if code == "" {
		return "", false
	}
	return code, true
}

// DefaultColumns is the column set of the largest banks table.
var DefaultColumns = []string{
	NameColumn,
	Column("USD"),
	Column("GBP"),
	Column("EUR"),
	Column("INR"),
}

// Record is a single bank. MarketCap is keyed by currency code and
// holds values in billions, a missing key means the value is absent.
type Record struct {
	Name      string
	MarketCap map[string]float64
}

// Value returns the value of the record under the given column, or nil
// if the record has no value for it.
func (r Record) Value(column string) (any, error) {
	if column == NameColumn {
		return r.Name, nil
	}
	code, ok := CurrencyOf(column)
	if !ok {
		return nil, fmt.Errorf("unknown column '%s'", column)
	}
	v, ok := r.MarketCap[code]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (r Record) Clone() Record {
	out := Record{Name: r.Name, MarketCap: make(map[string]float64, len(r.MarketCap))}
	for k, v := range r.MarketCap {
		out.MarketCap[k] = v
	}
	return out
}

// Table is an ordered list of records sharing the same column set, in
// the order the rows appeared in the source document.
type Table struct {
	Columns []string
	Records []Record
}

func NewTable(columns []string) Table {
	return Table{Columns: slices.Clone(columns)}
}

func (t Table) Len() int {
	return len(t.Records)
}

func (t Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{
		Columns: slices.Clone(t.Columns),
		Records: make([]Record, len(t.Records)),
	}
	for i, r := range t.Records {
		out.Records[i] = r.Clone()
	}
	return out
}
