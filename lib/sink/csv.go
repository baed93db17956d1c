package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"banks-etl/lib/marketcap"
)

// WriteCSV writes the table to path, replacing whatever is there. The
// first column is the unnamed 0-based row index. The file is written in
// place, an interrupted write leaves a partial file behind.
func WriteCSV(table marketcap.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = writeCSV(f, table)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(f *os.File, table marketcap.Table) error {
	w := csv.NewWriter(f)

	header := make([]string, 0, len(table.Columns)+1)
	header = append(header, "")
	header = append(header, table.Columns...)
	err := w.Write(header)
	if err != nil {
		return err
	}

	line := make([]string, len(header))
	for i, record := range table.Records {
		line[0] = strconv.Itoa(i)
		for j, column := range table.Columns {
			value, err := record.Value(column)
			if err != nil {
				return err
			}
			line[j+1] = FormatValue(value)
		}
		err = w.Write(line)
		if err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// FormatValue renders a cell, floats keep a fractional part so that
// whole numbers read back as floats ("93.0", not "93").
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
