package constants

// Canonical city names. Every record stored by the pipeline carries one of
// these (or the source string unchanged when the city is unrecognized).
const (
	CityTaoyuan   = "桃園市"
	CityTainan    = "台南市"
	CityKaohsiung = "高雄市"
)

// KnownCities lists every city with a configured data source, in sync order
var KnownCities = []string{CityTaoyuan, CityTainan, CityKaohsiung}

// CityAliases maps variant spellings (romanized, simplified, pre-2014
// county names) to the canonical form. Unrecognized names pass through.
var CityAliases = map[string]string{
	"桃園市":       CityTaoyuan,
	"桃园市":       CityTaoyuan,
	"桃園縣":       CityTaoyuan,
	"桃園":        CityTaoyuan,
	"Taoyuan":   CityTaoyuan,
	"台南市":       CityTainan,
	"臺南市":       CityTainan,
	"台南":        CityTainan,
	"臺南":        CityTainan,
	"Tainan":    CityTainan,
	"高雄市":       CityKaohsiung,
	"高雄":        CityKaohsiung,
	"Kaohsiung": CityKaohsiung,
}

// NormalizeCity resolves a city name to its canonical form.
// Unknown names are returned unchanged rather than rejected.
func NormalizeCity(name string) string {
	if canonical, ok := CityAliases[name]; ok {
		return canonical
	}
	return name
}

// StatusUnderManagement is the default record status when a source
// provides none: the parcel is listed for state management (列冊管理).
const StatusUnderManagement = "列冊管理中"

// SquareMetersPerPing is the fixed conversion constant: 1 坪 = 3.30579 m².
// Used bidirectionally, results rounded to 2 decimal places.
const SquareMetersPerPing = 3.30579
