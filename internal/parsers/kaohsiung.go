package parsers

import "taiwan-opendata/landsync/internal/constants"

// KaohsiungParser handles the 高雄市 CSV download. This source is the
// only one that publishes an explicit 坪 column, so the base parser's
// derived conversion is skipped when that column is present.
type KaohsiungParser struct {
	baseParser
}

// NewKaohsiungParser creates the 高雄市 parser
func NewKaohsiungParser() *KaohsiungParser {
	return &KaohsiungParser{baseParser{
		city: constants.CityKaohsiung,
		columns: fieldColumns{
			District:   []string{"行政區", "鄉鎮市區"},
			Section:    []string{"地段", "段小段"},
			LandNumber: []string{"地號"},
			OwnerName:  []string{"被繼承人", "被繼承人姓名"},
			AreaM2:     []string{"面積(平方公尺)", "面積"},
			AreaPing:   []string{"坪數", "面積(坪)"},
			Status:     []string{"列管情形", "辦理情形"},
		},
	}}
}
