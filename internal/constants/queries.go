package constants

const (
	ListLands = `
	SELECT id, source_city, district, section, land_number, owner_name,
	       area_m2, area_ping, status, latitude, longitude, raw_data,
	       source_url, created_at, updated_at
	FROM unclaimed_lands
	WHERE ($1 = '' OR source_city = $1)
	  AND ($2 = '' OR district = $2)
	  AND ($3 = '' OR owner_name LIKE '%' || $3 || '%' OR land_number LIKE '%' || $3 || '%' OR section LIKE '%' || $3 || '%')
	ORDER BY source_city, district, land_number
	LIMIT $4 OFFSET $5
	`

	CountLands = `
	SELECT COUNT(*)
	FROM unclaimed_lands
	WHERE ($1 = '' OR source_city = $1)
	  AND ($2 = '' OR district = $2)
	  AND ($3 = '' OR owner_name LIKE '%' || $3 || '%' OR land_number LIKE '%' || $3 || '%' OR section LIKE '%' || $3 || '%')
	`

	CityStatsQuery = `
	SELECT source_city,
	       COUNT(*)                     AS record_count,
	       ROUND(SUM(area_m2), 2)       AS total_area_m2,
	       ROUND(SUM(area_ping), 2)     AS total_area_ping
	FROM unclaimed_lands
	GROUP BY source_city
	ORDER BY record_count DESC
	`

	DistinctCities = `
	SELECT DISTINCT source_city FROM unclaimed_lands ORDER BY source_city
	`

	ExportLands = `
	SELECT id, source_city, district, section, land_number, owner_name,
	       area_m2, area_ping, status, latitude, longitude, raw_data,
	       source_url, created_at, updated_at
	FROM unclaimed_lands
	WHERE ($1 = '' OR source_city = $1)
	ORDER BY source_city, district, land_number
	`
)
