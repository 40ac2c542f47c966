// Command analyze builds the dashboard payloads, the statistics summary and
// the optional workbook from the cleaned snapshot, rebuilding the dataset
// from the raw exports when no snapshot is readable.
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
	inDirs := flag.String("in", "", "comma separated input directories used when rebuilding")
	snapshot := flag.String("snapshot", "", "snapshot path to read")
	outDir := flag.String("out", "", "directory for the JSON payloads")
	statsFile := flag.String("stats", "", "markdown statistics output path")
	workbook := flag.String("workbook", "", "optional XLSX workbook with the frequency tables")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	application, err := app.NewApplication(app.Options{
		ConfigFile: *configFile,
		BaseDir:    *baseDir,
		Apply: func(cfg *config.Config) {
			if dirs := app.SplitList(*inDirs); len(dirs) > 0 {
				cfg.Input.Dirs = dirs
			}
			if *snapshot != "" {
				cfg.Snapshot.Path = *snapshot
			}
			if *outDir != "" {
				cfg.Output.DataDir = *outDir
			}
			if *statsFile != "" {
				cfg.Output.StatsFile = *statsFile
			}
			if *workbook != "" {
				cfg.Output.Workbook = *workbook
			}
		},
	})
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	_, runErr := application.Run(context.Background(), operations.CommandAnalyze)
	if runErr != nil {
		application.Logger.Error("Analyze failed", slog.String("error", runErr.Error()))
	}
	if err := application.Stop(context.Background()); err != nil {
		slog.Warn("Shutdown incomplete", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
