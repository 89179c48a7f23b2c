package autopopulate

import "strings"

// countryNames maps ISO 3166-1 alpha-2 codes to English country names for
// the institutions the facility serves. Codes missing here pass through
// unchanged rather than blanking the field.
var countryNames = map[string]string{
	"AT": "Austria",
	"AU": "Australia",
	"BE": "Belgium",
	"BR": "Brazil",
	"CA": "Canada",
	"CH": "Switzerland",
	"CN": "China",
	"CZ": "Czech Republic",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GB": "United Kingdom",
	"GR": "Greece",
	"HU": "Hungary",
	"IE": "Ireland",
	"IL": "Israel",
	"IN": "India",
	"IT": "Italy",
	"JP": "Japan",
	"KR": "South Korea",
	"LT": "Lithuania",
	"LV": "Latvia",
	"NL": "Netherlands",
	"NO": "Norway",
	"NZ": "New Zealand",
	"PL": "Poland",
	"PT": "Portugal",
	"RU": "Russia",
	"SE": "Sweden",
	"SG": "Singapore",
	"SI": "Slovenia",
	"SK": "Slovakia",
	"US": "United States",
	"ZA": "South Africa",
}

// countryName translates a country code to its name, returning the input
// unchanged when the code is unknown or already a name.
func countryName(code string) string {
	if name, ok := countryNames[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}
