// Package domain defines the accident dataset model, its column vocabulary
// and the report and payload types exchanged between pipeline steps.
package domain

import "slices"

// Column names of the PRF accident exports
const (
	ColDate         = "data_inversa"
	ColWeekday      = "dia_semana"
	ColTime         = "horario"
	ColCause        = "causa_acidente"
	ColState        = "uf"
	ColRoadType     = "tipo_pista"
	ColDayPhase     = "fase_dia"
	ColWeather      = "condicao_metereologica"
	ColAge          = "idade"
	ColVehicleYear  = "ano_fabricacao_veiculo"
	ColLightInjury  = "feridos_leves"
	ColSevereInjury = "feridos_graves"
	ColDeaths       = "mortos"
	ColInjuryTotal  = "total_feridos"
	ColLatitude     = "latitude"
	ColLongitude    = "longitude"
)

// NotInformed is the sentinel written in place of absent categorical values
const NotInformed = "Não Informado"

// DateLayout is the textual form of event dates in exports
const DateLayout = "2006-01-02"

// Plausible ranges for the range-validated columns
const (
	MinAge         = 0
	MaxAge         = 100
	MinVehicleYear = 1980
	MaxVehicleYear = 2025
)

// NumericColumns are coerced from text to numbers before any other cleaning step
var NumericColumns = []string{ColAge, ColVehicleYear, ColLightInjury, ColSevereInjury, ColDeaths}

// CountColumns fill absent values with zero instead of the median
var CountColumns = []string{ColLightInjury, ColSevereInjury, ColDeaths}

// ImputationExempt columns stay absent after range invalidation
var ImputationExempt = []string{ColAge, ColVehicleYear}

// TextOnlyColumns are never inferred as numeric.
// Coordinates in particular are opaque strings.
var TextOnlyColumns = []string{ColLatitude, ColLongitude, ColDate, ColTime}

// CategoricalColumns hold labels. They stay text even when every cell is
// absent, so they are filled with NotInformed rather than a number.
var CategoricalColumns = []string{ColWeekday, ColCause, ColState, ColRoadType, ColDayPhase, ColWeather}

// CoordinateColumns are always persisted as text
var CoordinateColumns = []string{ColLatitude, ColLongitude}

// NullTokens are the raw cell values read as absent
var NullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// Canonical weekday names
const (
	Saturday  = "sábado"
	Sunday    = "domingo"
	Friday    = "sexta-feira"
	Monday    = "segunda-feira"
	Thursday  = "quinta-feira"
	Wednesday = "quarta-feira"
	Tuesday   = "terça-feira"
)

// WeekdayAliases maps the short labels found in older exports to canonical names.
// Keys are matched case-insensitively.
var WeekdayAliases = map[string]string{
	"Sexta":   Friday,
	"Segunda": Monday,
	"Sábado":  Saturday,
	"Domingo": Sunday,
	"Quarta":  Wednesday,
	"Terça":   Tuesday,
	"Quinta":  Thursday,
}

// WeekdayDisplayOrder is the dashboard ordering of the weekday chart
var WeekdayDisplayOrder = []string{Saturday, Sunday, Friday, Monday, Thursday, Wednesday, Tuesday}

// IsNullToken reports whether a raw cell should be read as absent
func IsNullToken(s string) bool {
	return slices.Contains(NullTokens, s)
}
