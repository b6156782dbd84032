package parsers

import "taiwan-opendata/landsync/internal/constants"

// TainanParser handles the 台南市 public-listing CSV published through
// the city's CKAN portal.
type TainanParser struct {
	baseParser
}

// NewTainanParser creates the 台南市 parser
func NewTainanParser() *TainanParser {
	return &TainanParser{baseParser{
		city: constants.CityTainan,
		columns: fieldColumns{
			District:   []string{"鄉鎮市區", "行政區", "區別"},
			Section:    []string{"段別", "地段名稱"},
			LandNumber: []string{"地號", "土地標示"},
			OwnerName:  []string{"被繼承人姓名", "被繼承人", "所有權人"},
			AreaM2:     []string{"面積(平方公尺)", "面積", "土地面積(平方公尺)"},
			Status:     []string{"辦理情形", "處理情形"},
		},
	}}
}
