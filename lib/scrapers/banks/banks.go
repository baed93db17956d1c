package banks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"banks-etl/lib/htmlutil"
	"banks-etl/lib/marketcap"
	"banks-etl/lib/restyutil"
	"banks-etl/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/banks")

var (
	ErrFetch = errors.New("failed to fetch source document")
	ErrParse = errors.New("failed to parse source document")
)

type ClientOptions struct {
	// Schema defaults to LargestBanks.
	Schema Schema
	// Timeout of the request, zero means no timeout.
	Timeout time.Duration
	// CloudflareBypass wraps the transport so requests look like they come
	// from a browser.
	CloudflareBypass bool
	UserAgent        string
	// DumpDir, when set, receives a copy of every fetched document.
	DumpDir string
}

type Client struct {
	Http   *resty.Client
	schema Schema
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	telemetry.InstrumentResty(client, "scrapers/banks/http")
	if opts.DumpDir != "" {
		dump, err := restyutil.NewDump(opts.DumpDir)
		if err != nil {
			slog.Warn("failed to create dump directory, responses will not be dumped", "dir", opts.DumpDir, "err", err)
		} else {
			dump.Attach(client)
		}
	}

	schema := opts.Schema
	if len(schema) == 0 {
		schema = LargestBanks
	}
	return &Client{Http: client, schema: schema}
}

// Extract fetches the document at sourceUrl and parses it into a table
// with the given columns.
func (c *Client) Extract(ctx context.Context, sourceUrl string, columns []string) (marketcap.Table, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	span.SetAttributes(attribute.String("source_url", sourceUrl))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(sourceUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return marketcap.Table{}, fmt.Errorf("%w: %s", ErrFetch, err.Error())
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return marketcap.Table{}, fmt.Errorf("%w: %s returned %s", ErrFetch, sourceUrl, res.Status())
	}
	slog.DebugContext(ctx, "fetched source document", "url", sourceUrl, "bytes", len(res.Body()))

	table, err := Parse(ctx, bytes.NewReader(res.Body()), c.schema, columns)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse")
		return marketcap.Table{}, err
	}
	return table, nil
}

// Parse reads the first <tbody> of the document, producing one record per
// row that has <td> cells. Rows made only of <th> cells are headers.
func Parse(ctx context.Context, r io.Reader, schema Schema, columns []string) (marketcap.Table, error) {
	ctx, span := tracer.Start(ctx, "Parse")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return marketcap.Table{}, fmt.Errorf("%w: %s", ErrParse, err.Error())
	}

	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return marketcap.Table{}, fmt.Errorf("%w: no <tbody> in document", ErrParse)
	}

	table := marketcap.NewTable(columns)
	rows := tbody.Find("tr")

	var headers []string
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if row.Find("td").Length() > 0 {
			return false
		}
		th := row.Find("th")
		if th.Length() == 0 {
			return true
		}
		headers = make([]string, th.Length())
		th.Each(func(i int, s *goquery.Selection) {
			headers[i] = htmlutil.Clean(s.Text())
		})
		return false
	})
	cells := schema.resolve(headers)
	slog.DebugContext(ctx, "resolved schema", "headers", headers, "cells", cells)

	for i := range rows.Length() {
		row := rows.Eq(i)
		td := row.Find("td")
		if td.Length() == 0 {
			continue
		}

		record := marketcap.Record{MarketCap: map[string]float64{}}
		for ruleIdx, rule := range schema {
			if !table.HasColumn(rule.Column) {
				continue
			}
			cellIdx := cells[ruleIdx]
			if cellIdx >= td.Length() {
				return marketcap.Table{}, fmt.Errorf(
					"%w: row %d has %d cells, %s expects cell %d",
					ErrParse, i, td.Length(), rule.Column, cellIdx,
				)
			}
			value, err := rule.Extract(ctx, td.Eq(cellIdx))
			if err != nil {
				return marketcap.Table{}, fmt.Errorf("row %d, column %s: %w", i, rule.Column, err)
			}
			err = setField(&record, rule.Column, value)
			if err != nil {
				return marketcap.Table{}, err
			}
		}
		if record.Name == "" {
			return marketcap.Table{}, fmt.Errorf("%w: row %d has no name", ErrParse, i)
		}

		table.Records = append(table.Records, record)
	}

	span.SetAttributes(attribute.Int("records", table.Len()))
	return table, nil
}
