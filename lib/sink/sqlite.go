package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"banks-etl/lib/marketcap"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("banks-etl.lib.sink")

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlType infers the column affinity from a value.
func sqlType(value any) string {
	switch value.(type) {
	case float32, float64:
		return "REAL"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func columnTypes(table marketcap.Table) ([]string, error) {
	types := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		types[i] = "TEXT"
		for _, record := range table.Records {
			value, err := record.Value(column)
			if err != nil {
				return nil, err
			}
			if value != nil {
				types[i] = sqlType(value)
				break
			}
		}
	}
	return types, nil
}

// ReplaceTable writes the table into tableName, dropping and recreating
// it if it already exists. Everything happens in a single transaction.
func ReplaceTable(ctx context.Context, db *sql.DB, tableName string, table marketcap.Table) error {
	ctx, span := tracer.Start(ctx, "ReplaceTable")
	defer span.End()

	span.SetAttributes(
		attribute.String("table", tableName),
		attribute.Int("records", table.Len()),
	)

	types, err := columnTypes(table)
	if err != nil {
		return err
	}

	definitions := make([]string, len(table.Columns))
	placeholders := make([]string, len(table.Columns))
	quoted := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		quoted[i] = quoteIdent(column)
		definitions[i] = fmt.Sprintf("%s %s", quoted[i], types[i])
		placeholders[i] = "?"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName)))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE %s (%s)",
		quoteIdent(tableName),
		strings.Join(definitions, ", "),
	))
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(table.Columns))
	for _, record := range table.Records {
		for i, column := range table.Columns {
			args[i], err = record.Value(column)
			if err != nil {
				return err
			}
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "replaced table", "table", tableName, "records", table.Len())
	return nil
}
