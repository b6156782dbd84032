// Package geo owns the static district-coordinate lookup. Coverage is
// intentionally partial and grows by editing districts.json only; the
// points are approximate display aids, never survey geometry.
package geo

import (
	_ "embed"
	"encoding/json"

	"taiwan-opendata/landsync/internal/models"
)

//go:embed districts.json
var districtsJSON []byte

type coordinateTable struct {
	Cities    map[string]models.Coordinates            `json:"cities"`
	Districts map[string]map[string]models.Coordinates `json:"districts"`
}

var table coordinateTable

func init() {
	if err := json.Unmarshal(districtsJSON, &table); err != nil {
		panic("geo: invalid districts.json: " + err.Error())
	}
}

// DistrictPoint returns the approximate point for a district within a
// city, if the table covers it
func DistrictPoint(city, district string) (models.Coordinates, bool) {
	districts, ok := table.Districts[city]
	if !ok {
		return models.Coordinates{}, false
	}
	point, ok := districts[district]
	return point, ok
}

// CityCenter returns the fallback center point for a city
func CityCenter(city string) (models.Coordinates, bool) {
	point, ok := table.Cities[city]
	return point, ok
}

// KnownDistricts returns how many districts the table covers for a city
func KnownDistricts(city string) int {
	return len(table.Districts[city])
}
