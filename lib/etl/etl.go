// Package etl runs the largest banks pipeline end to end: extract,
// convert, save to CSV, load into the database and query it back.
package etl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	configsqlite "banks-etl/lib/configutil/sqlite"
	"banks-etl/lib/currency"
	"banks-etl/lib/marketcap"
	"banks-etl/lib/progresslog"
	"banks-etl/lib/query"
	"banks-etl/lib/sink"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("banks-etl.lib.etl")
var meter = otel.Meter("banks-etl.lib.etl")

var recordCounter, _ = meter.Int64Counter(
	"banks_etl.records",
	metric.WithDescription("records passed through a pipeline stage"),
)

// progress messages, in the order they are written
const (
	MsgPreliminaries = "Preliminaries complete. Initiating ETL process"
	MsgExtracted     = "Data extraction complete. Initiating Transformation process."
	MsgTransformed   = "Data transformation complete. Initiating Loading process"
	MsgSavedCSV      = "Data saved to CSV file"
	MsgConnected     = "SQL Connection initiated"
	MsgLoadedDB      = "Data loaded to Database as a table, Executing queries"
	MsgComplete      = "Process Complete"
	MsgClosed        = "Server Connection closed"
)

type Extractor interface {
	Extract(ctx context.Context, sourceUrl string, columns []string) (marketcap.Table, error)
}

type Options struct {
	SourceUrl string
	RatesFile string
	CsvPath   string
	TableName string
	Query     string
	// Columns defaults to marketcap.DefaultColumns.
	Columns   []string
	Database  configsqlite.Struct
	Log       progresslog.Logger
	Extractor Extractor
	// Stdout receives the query output, defaults to os.Stdout.
	Stdout io.Writer
}

func startStage(ctx context.Context, stage Stage) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, string(stage))
	slog.DebugContext(ctx, "starting stage", "stage", stage)
	return ctx, span
}

func endStage(ctx context.Context, span trace.Span, stage Stage, records int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("records", records))
		recordCounter.Add(ctx, int64(records), metric.WithAttributes(attribute.String("stage", string(stage))))
	}
	span.End()
}

// Run executes every stage once, in order. A failing stage aborts the run
// and nothing after it is attempted. The database connection is opened
// once and always closed before Run returns.
func Run(ctx context.Context, opts Options) (stats Stats, err error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	columns := opts.Columns
	if len(columns) == 0 {
		columns = marketcap.DefaultColumns
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	err = opts.Log.Log(MsgPreliminaries)
	if err != nil {
		return stats, err
	}

	stageCtx, stageSpan := startStage(ctx, StageExtract)
	extracted, err := opts.Extractor.Extract(stageCtx, opts.SourceUrl, columns)
	endStage(stageCtx, stageSpan, StageExtract, extracted.Len(), err)
	if err != nil {
		return stats, err
	}
	stats.Extracted = extracted.Len()
	err = opts.Log.Log(MsgExtracted)
	if err != nil {
		return stats, err
	}

	stageCtx, stageSpan = startStage(ctx, StageTransform)
	transformed, err := transform(opts.RatesFile, extracted)
	endStage(stageCtx, stageSpan, StageTransform, transformed.Len(), err)
	if err != nil {
		return stats, err
	}
	stats.Transformed = transformed.Len()
	err = opts.Log.Log(MsgTransformed)
	if err != nil {
		return stats, err
	}

	stageCtx, stageSpan = startStage(ctx, StageLoadCSV)
	err = sink.WriteCSV(transformed, opts.CsvPath)
	endStage(stageCtx, stageSpan, StageLoadCSV, transformed.Len(), err)
	if err != nil {
		return stats, err
	}
	stats.Saved = transformed.Len()
	err = opts.Log.Log(MsgSavedCSV)
	if err != nil {
		return stats, err
	}

	db, err := opts.Database.OpenDB()
	if err != nil {
		return stats, err
	}
	defer func() {
		closeErr := db.Close()
		if closeErr != nil {
			err = errors.Join(err, closeErr)
			return
		}
		err = errors.Join(err, opts.Log.Log(MsgClosed))
	}()
	err = opts.Log.Log(MsgConnected)
	if err != nil {
		return stats, err
	}

	stageCtx, stageSpan = startStage(ctx, StageLoadDB)
	err = sink.ReplaceTable(stageCtx, db, opts.TableName, transformed)
	endStage(stageCtx, stageSpan, StageLoadDB, transformed.Len(), err)
	if err != nil {
		return stats, err
	}
	stats.Loaded = transformed.Len()
	err = opts.Log.Log(MsgLoadedDB)
	if err != nil {
		return stats, err
	}

	stageCtx, stageSpan = startStage(ctx, StageQuery)
	result, err := query.Run(stageCtx, db, opts.Query)
	if err == nil {
		err = query.Print(stdout, opts.Query, result)
	}
	endStage(stageCtx, stageSpan, StageQuery, len(result.Rows), err)
	if err != nil {
		return stats, err
	}
	stats.QueryRows = len(result.Rows)
	err = opts.Log.Log(MsgComplete)
	if err != nil {
		return stats, err
	}

	slog.InfoContext(ctx, "pipeline finished", "stats", stats)
	return stats, nil
}

func transform(ratesFile string, table marketcap.Table) (marketcap.Table, error) {
	rates, err := currency.LoadRates(ratesFile)
	if err != nil {
		return marketcap.Table{}, err
	}
	return currency.Convert(table, rates)
}
