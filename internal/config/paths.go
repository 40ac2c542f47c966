package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file system location a run touches, resolved against
// one base directory. This is the single source of truth for file paths.
type Paths struct {
	BaseDir    string
	InputDirs  []string
	Snapshot   string
	DataDir    string
	StatsFile  string
	Workbook   string
	LegacyCSV  string
	SQLiteFile string
	ReportFile string
	LogFile    string
	Metrics    string
}

// GetPaths resolves the configured locations against baseDir.
// An empty baseDir means the current working directory.
func GetPaths(cfg *Config, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	inputs := make([]string, 0, len(cfg.Input.Dirs))
	for _, dir := range cfg.Input.Dirs {
		inputs = append(inputs, resolve(dir))
	}

	return &Paths{
		BaseDir:    baseDir,
		InputDirs:  inputs,
		Snapshot:   resolve(cfg.Snapshot.Path),
		DataDir:    resolve(cfg.Output.DataDir),
		StatsFile:  resolve(cfg.Output.StatsFile),
		Workbook:   resolve(cfg.Output.Workbook),
		LegacyCSV:  resolve(cfg.Export.CSVPath),
		SQLiteFile: resolve(cfg.Export.SQLitePath),
		ReportFile: resolve(cfg.Export.ReportPath),
		LogFile:    resolve(cfg.Logging.FilePath),
		Metrics:    resolve(cfg.Telemetry.MetricsFile),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		filepath.Dir(p.StatsFile),
		filepath.Dir(p.Snapshot),
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, DefaultDirPermission); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// ArtifactPath returns the location of a dashboard payload file
func (p *Paths) ArtifactPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
