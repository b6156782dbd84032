package normalizer

import (
	"strings"

	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/geo"
	"taiwan-opendata/landsync/internal/models"
	"taiwan-opendata/landsync/internal/parsers"
)

// Normalize maps intermediate records to the canonical storage shape:
// canonical city names, derived 坪 areas, approximate coordinates and a
// defaulted status. sourceURL tags provenance on every record.
func Normalize(records []models.RawLandRecord, sourceURL string) []models.NormalizedLand {
	out := make([]models.NormalizedLand, 0, len(records))

	for _, raw := range records {
		city := constants.NormalizeCity(strings.TrimSpace(raw.SourceCity))
		district := strings.TrimSpace(raw.District)

		land := models.NormalizedLand{
			SourceCity:  city,
			District:    district,
			Section:     raw.Section,
			LandNumber:  raw.LandNumber,
			OwnerName:   raw.OwnerName,
			AreaM2:      raw.AreaM2,
			AreaPing:    raw.AreaPing,
			Status:      constants.StatusUnderManagement,
			Coordinates: ResolveCoordinates(city, district),
			RawData:     raw.RawData,
		}

		if raw.Status != nil && *raw.Status != "" {
			land.Status = *raw.Status
		}

		if land.AreaPing == nil && land.AreaM2 != nil {
			ping := parsers.SquareMetersToPing(*land.AreaM2)
			land.AreaPing = &ping
		}

		if sourceURL != "" {
			url := sourceURL
			land.SourceURL = &url
		}

		out = append(out, land)
	}

	return out
}

// ResolveCoordinates resolves an approximate point for a district:
// exact table match first, then a retry with the city-name prefix
// stripped (sources sometimes prepend "桃園市" to the district), then
// the city center, then nil when even the city is unknown.
func ResolveCoordinates(city, district string) *models.Coordinates {
	if district != "" {
		if point, ok := geo.DistrictPoint(city, district); ok {
			return &point
		}

		if stripped := stripCityPrefix(city, district); stripped != district {
			if point, ok := geo.DistrictPoint(city, stripped); ok {
				return &point
			}
		}
	}

	if point, ok := geo.CityCenter(city); ok {
		return &point
	}

	return nil
}

// stripCityPrefix removes a leading city name (canonical or any alias)
// from a district string
func stripCityPrefix(city, district string) string {
	if strings.HasPrefix(district, city) {
		return strings.TrimPrefix(district, city)
	}
	for alias, canonical := range constants.CityAliases {
		if canonical == city && strings.HasPrefix(district, alias) {
			return strings.TrimPrefix(district, alias)
		}
	}
	return district
}
