package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("uf\nSP\n"), 0644))
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindYearFiles(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "acidentes2025.csv"))
	touch(t, filepath.Join(base, "acidentes2024.csv"))
	touch(t, filepath.Join(base, "acidentes2023.csv"))
	touch(t, filepath.Join(base, "extra", "acidentes2024.csv"))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "dir", "acidentes2024.csv"), 0755))

	discovery := NewDiscovery(base)

	tests := []struct {
		name  string
		dirs  []string
		years []int
		want  []domain.InputFile
	}{
		{
			name:  "directory then year order",
			dirs:  []string{".", "extra"},
			years: []int{2024, 2025},
			want: []domain.InputFile{
				{Path: filepath.Join(base, "acidentes2024.csv"), Year: 2024},
				{Path: filepath.Join(base, "acidentes2025.csv"), Year: 2025},
				{Path: filepath.Join(base, "extra", "acidentes2024.csv"), Year: 2024},
			},
		},
		{
			name:  "missing years are skipped",
			dirs:  []string{"extra"},
			years: []int{2025, 2024},
			want:  []domain.InputFile{{Path: filepath.Join(base, "extra", "acidentes2024.csv"), Year: 2024}},
		},
		{
			name:  "directories are not files",
			dirs:  []string{"dir"},
			years: []int{2024},
			want:  nil,
		},
		{
			name:  "absolute dir",
			dirs:  []string{filepath.Join(base, "extra")},
			years: []int{2024},
			want:  []domain.InputFile{{Path: filepath.Join(base, "extra", "acidentes2024.csv"), Year: 2024}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := discovery.FindYearFiles(tt.dirs, tt.years, "acidentes%d.csv")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := discovery.FindYearFiles([]string{"."}, []int{2024}, "acidentes.csv")
	assert.Error(t, err)
}

func TestFindIgnored(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "acidentes2024.csv"))
	touch(t, filepath.Join(base, "acidentes2019.csv"))
	touch(t, filepath.Join(base, "outros.csv"))
	touch(t, filepath.Join(base, "acidentes_tratados.csv"))
	touch(t, filepath.Join(base, "acidentes2024_backup.csv"))

	ignored, err := NewDiscovery(base).FindIgnored([]string{"."}, []int{2024}, "acidentes%d.csv")
	require.NoError(t, err)
	require.Len(t, ignored, 1)
	assert.Equal(t, "acidentes2019.csv", ignored[0].Name)
}
