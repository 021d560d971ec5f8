package main

import (
	"finovo/internal/cli"
	"finovo/internal/log"
	"finovo/internal/services"
	"finovo/internal/sheets"
	gsheet "finovo/internal/sheets/google"
	"finovo/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	logger.Info("Starting finovo-worker")

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	be := cli.OpenBackend(ctx, cfg, logger)
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Failed to close repository", log.FieldError, err)
		}
	}()

	var writer sheets.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewClient(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		writer = client
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		logger.Info("Google Sheets mirror disabled, rows are only marked synced")
	}

	rdb := cli.OpenRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}
	dashboard := services.NewDashboardService(be.Repository, cli.DashboardCache(rdb, cfg.DashboardCacheTTL), logger)

	config := services.DefaultSyncProcessorConfig()
	config.BatchSize = cfg.SyncBatchSize
	config.PollInterval = cfg.SyncInterval
	processor := services.NewSyncProcessor(be.Repository, writer, config, logger)

	var source worker.EventSource
	if client := cli.OpenAMQP(cfg, logger); client != nil {
		defer client.Close()
		source = client
	}

	if err := worker.NewSyncWorker(processor, dashboard, logger).Run(ctx, source); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		return
	}
	logger.Info("Worker shutdown complete")
}
