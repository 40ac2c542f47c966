package dataprocessing

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agilsonaraujoo/ProjetoCD-acidentes/pkg/contracts/domain"
)

func cleanedFixture(t *testing.T) (*domain.Dataset, *domain.CleaningReport) {
	t.Helper()
	ds := datasetFrom(t,
		[]string{"causa_acidente", "uf", "dia_semana", "idade", "ano_fabricacao_veiculo", "feridos_leves", "feridos_graves", "mortos", "br"},
		[]string{"Velocidade", "SP", "Sexta", "34", "2010", "1", "0", "0", "116"},
		[]string{"", "", "SÁBADO", "140", "1975", "", "2", "x", ""},
		[]string{"Chuva", "RJ", "quinta-feira", "abc", "", "3", "", "1", "101"},
		[]string{"Chuva", "MG", "", "-1", "2030", "0", "1", "", "381"},
	)
	InferKinds(ds)

	report, err := NewCleaner(quietLogger()).Clean(context.Background(), ds)
	require.NoError(t, err)
	return ds, report
}

func TestCleaner_NoAbsentOutsideExemptColumns(t *testing.T) {
	ds, _ := cleanedFixture(t)

	for _, col := range ds.Columns() {
		if slices.Contains(domain.ImputationExempt, col.Name) {
			continue
		}
		assert.Zero(t, col.AbsentCount(), col.Name)
	}
}

func TestCleaner_RangesAndExemption(t *testing.T) {
	ds, report := cleanedFixture(t)

	idade, _ := ds.Column(domain.ColAge)
	assert.Equal(t, []bool{true, false, false, false}, idade.Valid)
	assert.Equal(t, 34.0, idade.Num[0])

	ano, _ := ds.Column(domain.ColVehicleYear)
	assert.Equal(t, []bool{true, false, false, false}, ano.Valid)

	entry, ok := report.Column(domain.ColAge)
	require.True(t, ok)
	assert.Equal(t, domain.StrategyExempt, entry.Strategy)
	assert.Equal(t, 1, entry.Coerced)
	assert.Equal(t, 2, entry.OutOfRange)
	assert.Equal(t, 3, entry.AbsentAfter)
}

func TestCleaner_Imputation(t *testing.T) {
	ds, report := cleanedFixture(t)

	assert.Equal(t, []string{"Velocidade", domain.NotInformed, "Chuva", "Chuva"}, textValues(t, ds, domain.ColCause))
	assert.Equal(t, []string{"SP", domain.NotInformed, "RJ", "MG"}, textValues(t, ds, domain.ColState))

	leves, _ := ds.Column(domain.ColLightInjury)
	assert.Equal(t, []float64{1, 0, 3, 0}, leves.Num)
	mortos, _ := ds.Column(domain.ColDeaths)
	assert.Equal(t, []float64{0, 0, 1, 0}, mortos.Num)

	br, _ := ds.Column("br")
	assert.Equal(t, []float64{116, 116, 101, 381}, br.Num, "median of 116, 101, 381")

	tests := []struct {
		column   string
		strategy domain.ImputeStrategy
		filled   int
		fill     string
	}{
		{domain.ColCause, domain.StrategySentinel, 1, domain.NotInformed},
		{domain.ColLightInjury, domain.StrategyZero, 1, "0"},
		{domain.ColDeaths, domain.StrategyZero, 2, "0"},
		{"br", domain.StrategyMedian, 1, "116"},
		{domain.ColWeekday, domain.StrategySentinel, 1, domain.NotInformed},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			entry, ok := report.Column(tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.strategy, entry.Strategy)
			assert.Equal(t, tt.filled, entry.Filled)
			assert.Equal(t, tt.fill, entry.FillValue)
		})
	}
}

func TestCleaner_Weekdays(t *testing.T) {
	ds, report := cleanedFixture(t)

	assert.Equal(t, []string{"sexta-feira", "sábado", "quinta-feira", "não informado"}, textValues(t, ds, domain.ColWeekday))
	assert.Equal(t, 2, report.WeekdaysNormalized)
}

func TestCleaner_AllAbsentNumericColumnFillsZero(t *testing.T) {
	ds := datasetFrom(t, []string{"km"}, []string{""}, []string{"NaN"})
	InferKinds(ds)

	report, err := NewCleaner(quietLogger()).Clean(context.Background(), ds)
	require.NoError(t, err)

	km, _ := ds.Column("km")
	assert.Equal(t, []float64{0, 0}, km.Num)
	entry, _ := report.Column("km")
	assert.Equal(t, domain.StrategyMedian, entry.Strategy)
	assert.Equal(t, "0", entry.FillValue)
}

func TestCleaner_AllAbsentCategoricalColumnsGetSentinel(t *testing.T) {
	ds := datasetFrom(t, []string{"uf", "dia_semana", "mortos"},
		[]string{"", "", "0"},
		[]string{"NA", "", "1"},
	)
	assert.Equal(t, []string{"mortos"}, InferKinds(ds))

	_, err := NewCleaner(quietLogger()).Clean(context.Background(), ds)
	require.NoError(t, err)

	uf, _ := ds.Column(domain.ColState)
	assert.Equal(t, domain.KindText, uf.Kind)
	assert.Equal(t, []string{domain.NotInformed, domain.NotInformed}, uf.Text)
	assert.Equal(t, domain.FrequencyPayload{Labels: []string{domain.NotInformed}, Data: []int{2}}, Frequency(uf, 10, true))

	weekday, _ := ds.Column(domain.ColWeekday)
	assert.Equal(t, domain.KindText, weekday.Kind)
	assert.Equal(t, []string{"não informado", "não informado"}, weekday.Text)
}

func TestWeekdayNormalizer(t *testing.T) {
	n := NewWeekdayNormalizer()
	tests := []struct {
		in, want string
	}{
		{"Sexta", "sexta-feira"},
		{"SEXTA", "sexta-feira"},
		{"terça", "terça-feira"},
		{"Sábado", "sábado"},
		{"sábado", "sábado"},
		{"Domingo", "domingo"},
		{"Segunda-Feira", "segunda-feira"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _ := n.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddInjuryTotal(t *testing.T) {
	ds := domain.NewDataset(3)
	leves := numberColumn(domain.ColLightInjury, 1, 2, 0)
	leves.SetAbsent(2)
	require.NoError(t, ds.AddColumn(leves))
	require.NoError(t, ds.AddColumn(numberColumn(domain.ColSevereInjury, 0, 3, 4)))

	built, err := AddInjuryTotal(context.Background(), ds, quietLogger())
	require.NoError(t, err)
	require.True(t, built)

	total, _ := ds.Column(domain.ColInjuryTotal)
	assert.Equal(t, []float64{1, 5, 4}, total.Num)
	assert.Zero(t, total.AbsentCount())

	t.Run("missing source", func(t *testing.T) {
		ds := domain.NewDataset(1)
		require.NoError(t, ds.AddColumn(numberColumn(domain.ColLightInjury, 1)))
		built, err := AddInjuryTotal(context.Background(), ds, quietLogger())
		require.NoError(t, err)
		assert.False(t, built)
		assert.False(t, ds.Has(domain.ColInjuryTotal))
	})
}

// Two yearly files spelling Thursday differently end up in one bucket.
func TestQuintaScenario(t *testing.T) {
	dir := t.TempDir()
	files := []domain.InputFile{
		{Path: writeLatin1(t, dir, "acidentes2024.csv", "data_inversa;dia_semana", "04/01/2024;Quinta"), Year: 2024},
		{Path: writeLatin1(t, dir, "acidentes2025.csv", "data_inversa;dia_semana", "02/01/2025;quinta-feira"), Year: 2025},
	}
	ctx := context.Background()

	ds, _, err := NewLoader(NewCSVReader(DefaultReaderOptions()), 2, quietLogger()).Load(ctx, files)
	require.NoError(t, err)
	_, err = NewYearFilter(domain.ColDate, []int{2024, 2025}, quietLogger()).Apply(ctx, ds)
	require.NoError(t, err)
	_, err = NewCleaner(quietLogger()).Clean(ctx, ds)
	require.NoError(t, err)

	assert.Equal(t, []string{"quinta-feira", "quinta-feira"}, textValues(t, ds, domain.ColWeekday))

	col, _ := ds.Column(domain.ColWeekday)
	payload := WeekdayCounts(col)
	assert.Equal(t, []string{"quinta-feira"}, payload.Labels)
	assert.Equal(t, []int{2}, payload.Data)
}
