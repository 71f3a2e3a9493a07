// Package pricing grants purchasing-power-parity discounts based on verified
// IP geolocation, refusing visitors who mask their location with a VPN.
package pricing

import "math"

// defaultPPP is assumed for countries missing from the table.
const defaultPPP = 0.8

// pppByCountry maps ISO 3166-1 alpha-2 country codes to a purchasing power
// parity coefficient relative to the US. A small representative slice of the
// World Bank dataset; unlisted countries fall back to defaultPPP.
var pppByCountry = map[string]float64{
	"US": 1.0,
	"GB": 0.89,
	"DE": 0.81,
	"FR": 0.78,
	"CA": 0.86,
	"AU": 0.95,
	"JP": 0.69,
	"CZ": 0.55,
	"PL": 0.45,
	"PT": 0.62,
	"ES": 0.66,
	"IT": 0.71,
	"GR": 0.58,
	"TR": 0.23,
	"BR": 0.39,
	"MX": 0.48,
	"AR": 0.31,
	"IN": 0.26,
	"ID": 0.33,
	"PH": 0.37,
	"VN": 0.35,
	"TH": 0.42,
	"ZA": 0.44,
	"NG": 0.36,
	"EG": 0.24,
	"UA": 0.30,
	"RO": 0.46,
	"BG": 0.43,
	"HU": 0.50,
	"RS": 0.41,
}

// RegionalDiscount returns the discount percentage for a country code,
// rounded to two decimal places.
func RegionalDiscount(countryCode string) float64 {
	ppp, ok := pppByCountry[countryCode]
	if !ok {
		ppp = defaultPPP
	}
	return roundToPlaces((1-ppp)*100, 2)
}

func roundToPlaces(num float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(num*factor) / factor
}
