package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// AccidentHeader is the column layout of a trimmed yearly PRF export
const AccidentHeader = "data_inversa;dia_semana;causa_acidente;uf;tipo_pista;fase_dia;condicao_metereologica;" +
	"idade;ano_fabricacao_veiculo;feridos_leves;feridos_graves;mortos;latitude;longitude"

// WriteLatin1 writes lines as an ISO-8859-1 encoded file, creating parents
func WriteLatin1(t *testing.T, path string, lines ...string) {
	t.Helper()
	encoded, err := charmap.ISO8859_1.NewEncoder().String(strings.Join(lines, "\n") + "\n")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))
}

// WriteAccidentExports lays out acidentes2024.csv and acidentes2025.csv in
// dir, plus an empty acidentes2019.csv that the default years ignore.
// Of the five data rows one belongs to 2023 and one has an unparseable date.
func WriteAccidentExports(t *testing.T, dir string) {
	t.Helper()
	WriteLatin1(t, filepath.Join(dir, "acidentes2024.csv"),
		AccidentHeader,
		"05/01/2024;Quinta;Chuva;SP;Simples;Pleno dia;Céu Claro;34;2015;1;0;0;-23,55;-46,63",
		"06/01/2023;Sexta;;RJ;Dupla;Noite;Chuva;150;1970;;1;1;-22,9;-43,2",
		"xx;Sábado;Sono;MG;Simples;Pleno dia;;;2010;0;0;0;;",
	)
	WriteLatin1(t, filepath.Join(dir, "acidentes2025.csv"),
		AccidentHeader,
		"2025-07-19;quinta-feira;Sono;SP;Dupla;Anoitecer;Nublado;;2020;2;1;0;-23,5;-46,6",
		"20/07/2025;Domingo;;BA;Simples;Pleno dia;Céu Claro;61;2030;0;0;1;-12,9;-38,5",
	)
	WriteLatin1(t, filepath.Join(dir, "acidentes2019.csv"), AccidentHeader)
}
