package etl

import "log/slog"

// Stage identifies a step of the pipeline.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoadCSV   Stage = "load_csv"
	StageLoadDB    Stage = "load_db"
	StageQuery     Stage = "query"
)

// Stats counts the records that passed through each stage of a run.
type Stats struct {
	Extracted   int
	Transformed int
	// Saved is the number of rows written to the CSV file.
	Saved int
	// Loaded is the number of rows written to the database table.
	Loaded    int
	QueryRows int
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("extracted", s.Extracted),
		slog.Int("transformed", s.Transformed),
		slog.Int("saved", s.Saved),
		slog.Int("loaded", s.Loaded),
		slog.Int("query_rows", s.QueryRows),
	)
}
