package query

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("banks-etl.lib.query")

// Default is the statement run at the end of the pipeline.
const Default = "SELECT Name from Largest_banks LIMIT 5"

type Result struct {
	Columns []string
	Rows    [][]any
}

// Run executes statement and collects every row. The statement is run as
// given, it is not parameterized.
func Run(ctx context.Context, db *sql.DB, statement string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	span.SetAttributes(attribute.String("statement", statement))

	rows, err := db.QueryContext(ctx, statement)
	if err != nil {
		span.SetStatus(codes.Error, "query failed")
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	result := Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		err := rows.Scan(ptrs...)
		if err != nil {
			return Result{}, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	err = rows.Err()
	if err != nil {
		return Result{}, err
	}

	span.SetAttributes(attribute.Int("rows", len(result.Rows)))
	return result, nil
}

// Print writes the statement followed by its result set.
func Print(w io.Writer, statement string, result Result) error {
	_, err := fmt.Fprintln(w, statement)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{""}
	for _, c := range result.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i, r := range result.Rows {
		row := make(table.Row, 0, len(r)+1)
		row = append(row, i)
		for _, v := range r {
			if v == nil {
				v = "NULL"
			}
			row = append(row, v)
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
