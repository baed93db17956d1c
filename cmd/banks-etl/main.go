package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"banks-etl/cmd/banks-etl/commands"
	"banks-etl/lib/telemetry"
	"banks-etl/lib/util/serviceutil"
)

func main() {
	telemetry.InitSlog(false)

	ctx := context.Background()
	tel, err := telemetry.SetupFromEnv(ctx, "banks-etl")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("telemetry.json5 not found, telemetry is disabled")
	} else if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	err = commands.ExecuteContext(ctx)

	telemetry.RecordPerfStats(ctx)
	shutdownErr := tel.Shutdown(ctx)
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}

	if err != nil {
		os.Exit(1)
	}
}
