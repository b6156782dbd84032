package normalizer

import (
	"testing"

	"taiwan-opendata/landsync/internal/constants"
	"taiwan-opendata/landsync/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestNormalize_EndToEndRow(t *testing.T) {
	raw := []models.RawLandRecord{
		{
			SourceCity: "臺南市",
			District:   "東區",
			LandNumber: "123-4",
			OwnerName:  strPtr("王O"),
			AreaM2:     floatPtr(150.5),
			RawData:    map[string]string{"被繼承人姓名": "王O", "地號": "123-4", "面積": "150.5"},
		},
	}

	lands := Normalize(raw, "https://data.tainan.gov.tw/dataset/lands.csv")
	if len(lands) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(lands))
	}

	land := lands[0]
	if land.SourceCity != constants.CityTainan {
		t.Errorf("Expected canonical city %s, got %s", constants.CityTainan, land.SourceCity)
	}
	if land.OwnerName == nil || *land.OwnerName != "王O" {
		t.Errorf("Expected owner 王O, got %v", land.OwnerName)
	}
	if land.AreaM2 == nil || *land.AreaM2 != 150.5 {
		t.Errorf("Expected area 150.5, got %v", land.AreaM2)
	}
	if land.AreaPing == nil || *land.AreaPing != 45.53 {
		t.Errorf("Expected derived ping 45.53, got %v", land.AreaPing)
	}
	if land.Status != constants.StatusUnderManagement {
		t.Errorf("Expected default status %s, got %s", constants.StatusUnderManagement, land.Status)
	}
	if land.Coordinates == nil {
		t.Fatal("Expected coordinates for a known district")
	}
	if land.Coordinates.Lat != 22.9869 || land.Coordinates.Lng != 120.2269 {
		t.Errorf("Expected 東區 point, got %+v", land.Coordinates)
	}
	if land.SourceURL == nil || *land.SourceURL != "https://data.tainan.gov.tw/dataset/lands.csv" {
		t.Errorf("Expected source URL provenance, got %v", land.SourceURL)
	}
}

func TestNormalize_KeepsExplicitStatus(t *testing.T) {
	raw := []models.RawLandRecord{
		{
			SourceCity: constants.CityKaohsiung,
			District:   "左營區",
			LandNumber: "310",
			Status:     strPtr("已標售"),
		},
	}

	lands := Normalize(raw, "")
	if lands[0].Status != "已標售" {
		t.Errorf("Expected explicit status preserved, got %s", lands[0].Status)
	}
	if lands[0].SourceURL != nil {
		t.Errorf("Expected nil source URL, got %v", *lands[0].SourceURL)
	}
}

func TestResolveCoordinates_ExactMatch(t *testing.T) {
	point := ResolveCoordinates(constants.CityTaoyuan, "中壢區")
	if point == nil {
		t.Fatal("Expected a point for 中壢區")
	}
	if point.Lat != 24.9654 {
		t.Errorf("Expected 中壢區 latitude, got %v", point.Lat)
	}
}

func TestResolveCoordinates_PrefixStripped(t *testing.T) {
	// Some sources prepend the city name to the district column
	point := ResolveCoordinates(constants.CityTaoyuan, "桃園市中壢區")
	if point == nil {
		t.Fatal("Expected a point after stripping the city prefix")
	}
	if point.Lat != 24.9654 {
		t.Errorf("Expected 中壢區 latitude, got %v", point.Lat)
	}
}

func TestResolveCoordinates_CityCenterFallback(t *testing.T) {
	point := ResolveCoordinates(constants.CityTainan, "不存在區")
	if point == nil {
		t.Fatal("Expected the city center fallback")
	}
	if point.Lat != 22.9999 || point.Lng != 120.2269 {
		t.Errorf("Expected 台南市 center, got %+v", point)
	}
}

func TestResolveCoordinates_UnknownCityIsNil(t *testing.T) {
	if point := ResolveCoordinates("基隆市", "中正區"); point != nil {
		t.Errorf("Expected nil for unrecognized city, got %+v", point)
	}
}

func TestNormalize_UnrecognizedCityPassesThrough(t *testing.T) {
	raw := []models.RawLandRecord{
		{SourceCity: "花蓮縣", District: "花蓮市", LandNumber: "1"},
	}

	lands := Normalize(raw, "")
	if lands[0].SourceCity != "花蓮縣" {
		t.Errorf("Expected unrecognized city unchanged, got %s", lands[0].SourceCity)
	}
	if lands[0].Coordinates != nil {
		t.Errorf("Expected nil coordinates for unrecognized city, got %+v", lands[0].Coordinates)
	}
}

func TestNormalize_CityAliases(t *testing.T) {
	cases := map[string]string{
		"桃园市":       constants.CityTaoyuan,
		"桃園縣":       constants.CityTaoyuan,
		"Taoyuan":   constants.CityTaoyuan,
		"臺南市":       constants.CityTainan,
		"Kaohsiung": constants.CityKaohsiung,
	}

	for alias, want := range cases {
		if got := constants.NormalizeCity(alias); got != want {
			t.Errorf("NormalizeCity(%q) = %q, want %q", alias, got, want)
		}
	}
}

func TestNormalize_NoAreaStaysNil(t *testing.T) {
	raw := []models.RawLandRecord{
		{SourceCity: constants.CityTainan, District: "東區", LandNumber: "9"},
	}

	lands := Normalize(raw, "")
	if lands[0].AreaM2 != nil || lands[0].AreaPing != nil {
		t.Errorf("Expected nil areas, got m2=%v ping=%v", lands[0].AreaM2, lands[0].AreaPing)
	}
}
