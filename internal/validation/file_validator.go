package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	apperrors "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
)

// FileValidator checks input folders, yearly exports and output folders
// before a step touches them. Failures are logged and returned typed.
type FileValidator struct {
	logger *slog.Logger
}

func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// stat resolves path and classifies the failure: NOT_FOUND when it is
// missing, VALIDATION when it is not of the wanted kind, INPUT otherwise.
func (v *FileValidator) stat(path string, wantDir bool) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v.logger.Warn("Path does not exist", slog.String("path", path))
		return nil, apperrors.NewNotFoundError(path).WithContext("path", path)
	case err != nil:
		v.logger.Error("Failed to stat path", slog.String("path", path), slog.String("error", err.Error()))
		return nil, apperrors.NewInputError("failed to stat "+path, err).WithContext("path", path)
	case info.IsDir() != wantDir:
		want := "a regular file"
		if wantDir {
			want = "a directory"
		}
		v.logger.Error("Unexpected path kind", slog.String("path", path), slog.String("want", want))
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("%s is not %s", path, want)).WithContext("path", path)
	}
	return info, nil
}

// ValidateInputDirectory requires dir to be an existing directory. A
// directory with no file matching pattern only draws a warning.
func (v *FileValidator) ValidateInputDirectory(dir string, pattern string) error {
	if _, err := v.stat(dir, true); err != nil {
		return err
	}
	if pattern == "" {
		return nil
	}

	n, err := v.CountFiles(dir, pattern)
	if err != nil {
		return err
	}
	if n == 0 {
		v.logger.Warn("No accident exports in directory", slog.String("directory", dir), slog.String("pattern", pattern))
		return nil
	}
	v.logger.Debug("Input directory validated", slog.String("directory", dir), slog.Int("files_found", n))
	return nil
}

// ValidateOutputDirectory creates dir when needed and proves it writable
// with a throwaway temp file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory", slog.String("directory", dir), slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory "+dir, err).WithContext("path", dir)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		v.logger.Error("Output directory is not writable", slog.String("directory", dir), slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory "+dir+" is not writable", err).WithContext("path", dir)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// ValidateFile requires path to be a regular file that can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := v.stat(path, false)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable", slog.String("file", path), slog.String("error", err.Error()))
		return apperrors.NewInputError("file "+path+" is not readable", err).WithContext("path", path)
	}
	f.Close()

	v.logger.Debug("File validated", slog.String("file", path), slog.Int64("size", info.Size()))
	return nil
}

// CountFiles counts regular files in dir whose name matches pattern.
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, apperrors.NewInputError("invalid file pattern "+pattern, err)
	}
	n := 0
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			n++
		}
	}
	return n, nil
}

var readerExtensions = map[string][]string{
	"csv":       {".csv", ".txt"},
	"dataframe": {".csv", ".txt"},
	"xlsx":      {".xlsx"},
}

// ValidateReaderInput checks path with ValidateFile and then its extension
// against the configured input reader. Readers without an entry accept
// any extension.
func (v *FileValidator) ValidateReaderInput(path string, reader string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	allowed, ok := readerExtensions[reader]
	ext := strings.ToLower(filepath.Ext(path))
	if !ok || slices.Contains(allowed, ext) {
		return nil
	}

	v.logger.Warn("File extension does not match reader",
		slog.String("file", path), slog.String("reader", reader), slog.String("extension", ext))
	return apperrors.NewAppValidationError(
		fmt.Sprintf("%s: reader %s expects %s, got %q", path, reader, strings.Join(allowed, " or "), ext))
}
