package banks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"banks-etl/lib/htmlutil"
	"banks-etl/lib/marketcap"
	"banks-etl/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// headerMatchThreshold is the minimum similarity for a header cell to
// take precedence over a rule's positional cell index.
const headerMatchThreshold = 0.85

// FieldRule describes how one output column is read from a table row.
type FieldRule struct {
	// Column is the output column the rule populates.
	Column string
	// Cell is the index of the <td> the value lives in.
	Cell int
	// Header, if set, is matched against the table's header row, a match
	// overrides Cell.
	Header string
	// Extract reads the raw value out of the cell, it returns a string for
	// the name column and a float64 for market cap columns.
	Extract func(ctx context.Context, cell *goquery.Selection) (any, error)
}

type Schema []FieldRule

// LargestBanks is the layout of the "By market capitalization" table:
// rank, bank name (flag link followed by the bank link), market cap.
var LargestBanks = Schema{
	{
		Column:  marketcap.NameColumn,
		Cell:    1,
		Header:  "Bank name",
		Extract: anchorTitle(1),
	},
	{
		Column:  marketcap.Column("USD"),
		Cell:    2,
		Header:  "Market cap",
		Extract: leadingNumber,
	},
}

// anchorTitle reads the title attribute of the idx-th <a> in the cell.
func anchorTitle(idx int) func(ctx context.Context, cell *goquery.Selection) (any, error) {
	return func(ctx context.Context, cell *goquery.Selection) (any, error) {
		anchors := htmlutil.GetAnchors(ctx, cell.Find("a"))
		if len(anchors) <= idx {
			return nil, fmt.Errorf("%w: expected at least %d links in cell, got %d", ErrParse, idx+1, len(anchors))
		}
		title := htmlutil.Clean(anchors[idx].Title)
		if title == "" {
			return nil, fmt.Errorf("%w: link %d has no title", ErrParse, idx)
		}
		return title, nil
	}
}

// leadingNumber parses the first text node of the cell after dropping
// its trailing non-numeric character (usually the newline before </td>).
func leadingNumber(_ context.Context, cell *goquery.Selection) (any, error) {
	text, ok := htmlutil.FirstText(cell.Nodes[0])
	if !ok {
		return nil, fmt.Errorf("%w: cell has no text", ErrParse)
	}
	last, size := utf8.DecodeLastRuneInString(text)
	if size > 0 && !unicode.IsDigit(last) {
		text = text[:len(text)-size]
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err.Error())
	}
	return value, nil
}

// resolve returns the cell index of every rule, preferring a matching
// header over the rule's positional index.
func (s Schema) resolve(headers []string) []int {
	cells := make([]int, len(s))
	for i, rule := range s {
		cells[i] = rule.Cell
		if rule.Header == "" || len(headers) == 0 {
			continue
		}
		idx, score := textutil.BestMatch(rule.Header, headers)
		if idx >= 0 && score >= headerMatchThreshold {
			cells[i] = idx
		}
	}
	return cells
}

func setField(record *marketcap.Record, column string, value any) error {
	if column == marketcap.NameColumn {
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: expected text for column %s, got %T", ErrParse, column, value)
		}
		record.Name = name
		return nil
	}

	code, ok := marketcap.CurrencyOf(column)
	if !ok {
		return fmt.Errorf("unknown column '%s' in schema", column)
	}
	number, ok := value.(float64)
	if !ok {
		return fmt.Errorf("%w: expected number for column %s, got %T", ErrParse, column, value)
	}
	record.MarketCap[code] = number
	return nil
}
