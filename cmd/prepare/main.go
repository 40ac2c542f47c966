// Command prepare cleans the yearly PRF accident exports and persists the
// cleaned dataset as a columnar snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/app"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/config"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/operations"
	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file (defaults to acidentes.yaml when present)")
	baseDir := flag.String("base", "", "base directory for relative paths (defaults to the working directory)")
	inDirs := flag.String("in", "", "comma separated input directories")
	years := flag.String("years", "", "comma separated years to keep, e.g. 2024,2025")
	snapshot := flag.String("snapshot", "", "snapshot output path")
	reader := flag.String("reader", "", "tabular reader: csv, dataframe or xlsx")
	exportCSV := flag.Bool("export-csv", false, "also write the cleaned dataset as CSV")
	exportSQLite := flag.Bool("export-sqlite", false, "also write the cleaned dataset to SQLite")
	report := flag.Bool("report", false, "write the JSON cleaning report")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	yearList, err := app.ParseYears(*years)
	if err != nil {
		slog.Error("Invalid -years flag", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(app.Options{
		ConfigFile: *configFile,
		BaseDir:    *baseDir,
		Apply: func(cfg *config.Config) {
			if dirs := app.SplitList(*inDirs); len(dirs) > 0 {
				cfg.Input.Dirs = dirs
			}
			if len(yearList) > 0 {
				cfg.Input.Years = yearList
			}
			if *snapshot != "" {
				cfg.Snapshot.Path = *snapshot
			}
			if *reader != "" {
				cfg.Input.Reader = *reader
			}
			if *exportCSV && cfg.Export.CSVPath == "" {
				cfg.Export.CSVPath = config.LegacyCSVFileName
			}
			if *exportSQLite && cfg.Export.SQLitePath == "" {
				cfg.Export.SQLitePath = config.SQLiteExportName
			}
			if *report && cfg.Export.ReportPath == "" {
				cfg.Export.ReportPath = config.CleaningReportName
			}
		},
	})
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	_, runErr := application.Run(context.Background(), operations.CommandPrepare)
	if runErr != nil {
		application.Logger.Error("Prepare failed", slog.String("error", runErr.Error()))
	}
	if err := application.Stop(context.Background()); err != nil {
		slog.Warn("Shutdown incomplete", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
