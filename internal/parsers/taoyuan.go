package parsers

import "taiwan-opendata/landsync/internal/constants"

// TaoyuanParser handles the 桃園市 paginated listing dataset. The listing
// strategy serializes JSON pages to CSV, so column names arrive exactly
// as the portal's field names.
type TaoyuanParser struct {
	baseParser
}

// NewTaoyuanParser creates the 桃園市 parser
func NewTaoyuanParser() *TaoyuanParser {
	return &TaoyuanParser{baseParser{
		city: constants.CityTaoyuan,
		columns: fieldColumns{
			District:   []string{"鄉鎮市區", "行政區"},
			Section:    []string{"段小段", "地段"},
			LandNumber: []string{"地號", "土地地號"},
			OwnerName:  []string{"被繼承人姓名", "被繼承人"},
			AreaM2:     []string{"面積(平方公尺)", "面積", "土地面積"},
			Status:     []string{"辦理情形", "列管狀態"},
		},
	}}
}
