package files

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates the yearly exports
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindYearFiles returns the existing regular files named
// fmt.Sprintf(pattern, year) for every dir and year, ordered by directory
// then year as given.
func (d *Discovery) FindYearFiles(dirs []string, years []int, pattern string) ([]domain.InputFile, error) {
	if !strings.Contains(pattern, "%d") {
		return nil, fmt.Errorf("file pattern %q has no %%d year placeholder", pattern)
	}

	var found []domain.InputFile
	for _, dir := range dirs {
		fullPath := d.resolve(dir)
		for _, year := range years {
			path := filepath.Join(fullPath, fmt.Sprintf(pattern, year))
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			found = append(found, domain.InputFile{Path: path, Year: year})
		}
	}
	return found, nil
}

// FindIgnored lists files in dirs named like a yearly export for a year
// that is not configured. Names where the year slot is not a number, such
// as the acidentes_tratados.csv export, are not exports and are left out.
func (d *Discovery) FindIgnored(dirs []string, years []int, pattern string) ([]FileInfo, error) {
	yearName, err := yearNamePattern(pattern)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool)
	for _, dir := range dirs {
		for _, year := range years {
			wanted[filepath.Join(d.resolve(dir), fmt.Sprintf(pattern, year))] = true
		}
	}

	glob := strings.ReplaceAll(pattern, "%d", "*")
	var ignored []FileInfo
	for _, dir := range dirs {
		matches, err := d.FindFilesByPattern(dir, glob)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !wanted[m.Path] && yearName.MatchString(m.Name) {
				ignored = append(ignored, m)
			}
		}
	}
	return ignored, nil
}

// yearNamePattern turns "acidentes%d.csv" into ^acidentes[0-9]+\.csv$.
func yearNamePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "%d")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re, err := regexp.Compile("^" + strings.Join(parts, "[0-9]+") + "$")
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	return re, nil
}

// FindFilesByPattern finds files matching a glob pattern
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	searchPattern := filepath.Join(fullPath, pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, FileInfo{
				Path:    match,
				Name:    filepath.Base(match),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	return files, nil
}
