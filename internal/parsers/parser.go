package parsers

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/models"
)

// Parser turns raw tabular text (header row plus data rows) into
// intermediate land records. One implementation per government source;
// dispatch is the closed table in ParserFor.
type Parser interface {
	// SourceCity returns the canonical city this parser handles
	SourceCity() string

	// Parse produces intermediate records. Malformed rows degrade
	// gracefully (dropped or filled with nil fields); only a completely
	// unparseable payload returns an error.
	Parse(text string) ([]models.RawLandRecord, error)
}

// ParserFor resolves a canonical city name to its parser. The set is
// closed: unknown cities return nil and the caller fails that city's
// sync without touching the network.
func ParserFor(city string) Parser {
	switch city {
	case constants.CityTaoyuan:
		return NewTaoyuanParser()
	case constants.CityTainan:
		return NewTainanParser()
	case constants.CityKaohsiung:
		return NewKaohsiungParser()
	default:
		return nil
	}
}

// fieldColumns declares which raw header spellings map to each canonical
// field. Sources disagree on column names, so each field carries the
// variants seen in the wild, checked in order.
type fieldColumns struct {
	District   []string
	Section    []string
	LandNumber []string
	OwnerName  []string
	AreaM2     []string
	AreaPing   []string
	Status     []string
}

// baseParser carries the behavior shared by every source: CSV decoding,
// noise-row filtering, owner-name cleaning, area parsing and the m²→坪
// conversion. Concrete parsers supply only the city and column mapping.
type baseParser struct {
	city    string
	columns fieldColumns
}

// SourceCity returns the canonical city this parser handles
func (p *baseParser) SourceCity() string {
	return p.city
}

// Parse decodes the CSV payload into intermediate records
func (p *baseParser) Parse(text string) ([]models.RawLandRecord, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unparseable payload for %s: %w", p.city, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []models.RawLandRecord

	for idx, row := range rows[1:] {
		rowMap := make(map[string]string, len(header))
		for i, cell := range row {
			if i < len(header) {
				rowMap[header[i]] = strings.TrimSpace(cell)
			}
		}

		owner := CleanOwnerName(p.lookup(rowMap, p.columns.OwnerName))
		landNumber := p.lookup(rowMap, p.columns.LandNumber)

		// Rows with neither signal are footers or notes, not parcels
		if owner == "" && landNumber == "" {
			continue
		}

		// Distinct placeholder per row so empty land numbers never
		// collapse under the upsert key
		if landNumber == "" {
			landNumber = fmt.Sprintf("unknown-%d", idx)
		}

		rec := models.RawLandRecord{
			SourceCity: p.city,
			District:   p.lookup(rowMap, p.columns.District),
			LandNumber: landNumber,
			RawData:    rowMap,
		}

		if owner != "" {
			rec.OwnerName = &owner
		}
		if section := p.lookup(rowMap, p.columns.Section); section != "" {
			rec.Section = &section
		}
		if status := p.lookup(rowMap, p.columns.Status); status != "" {
			rec.Status = &status
		}

		rec.AreaM2 = ParseArea(p.lookup(rowMap, p.columns.AreaM2))
		rec.AreaPing = ParseArea(p.lookup(rowMap, p.columns.AreaPing))
		if rec.AreaPing == nil && rec.AreaM2 != nil {
			ping := SquareMetersToPing(*rec.AreaM2)
			rec.AreaPing = &ping
		}

		records = append(records, rec)
	}

	return records, nil
}

// lookup returns the first non-empty value among the candidate columns
func (p *baseParser) lookup(row map[string]string, candidates []string) string {
	for _, col := range candidates {
		if v, ok := row[col]; ok && v != "" {
			return v
		}
	}
	return ""
}

// CleanOwnerName trims and collapses internal whitespace
func CleanOwnerName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ParseArea parses a decimal area string, tolerating thousands
// separators. Malformed or absent values yield nil; a zero area is
// never fabricated from bad input.
func ParseArea(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// SquareMetersToPing converts m² to 坪, rounded to 2 decimal places
func SquareMetersToPing(m2 float64) float64 {
	return math.Round(m2/constants.SquareMetersPerPing*100) / 100
}

// PingToSquareMeters converts 坪 to m², rounded to 2 decimal places
func PingToSquareMeters(ping float64) float64 {
	return math.Round(ping*constants.SquareMetersPerPing*100) / 100
}
