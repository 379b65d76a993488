// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geo

// cityNames is the embedded city gazetteer: research-hub cities that
// appear in bibliographic affiliation strings. Multi-word names are
// matched across adjacent capitalized tokens. "University" is carried
// because it exists as a place name, and filtered at resolve time.
var cityNames = []string{
	// North America
	"Boston", "Cambridge", "New York", "Baltimore", "Bethesda",
	"Philadelphia", "Pittsburgh", "Chicago", "Houston", "Dallas",
	"Atlanta", "Miami", "Denver", "Phoenix", "Seattle", "Portland",
	"San Francisco", "San Diego", "Los Angeles", "Berkeley", "Stanford",
	"Ann Arbor", "Madison", "Minneapolis", "St Louis", "Nashville",
	"Durham", "Rochester", "New Haven", "Cleveland", "Columbus",
	"Cincinnati", "Detroit", "Washington", "Toronto", "Montreal",
	"Vancouver", "Ottawa", "Mexico City",
	// Europe
	"London", "Oxford", "Manchester", "Edinburgh", "Glasgow", "Bristol",
	"Leeds", "Dublin", "Paris", "Lyon", "Marseille", "Berlin", "Munich",
	"Hamburg", "Heidelberg", "Tubingen", "Zurich", "Geneva", "Basel",
	"Lausanne", "Vienna", "Amsterdam", "Utrecht", "Rotterdam", "Leiden",
	"Groningen", "Brussels", "Ghent", "Leuven", "Copenhagen", "Aarhus",
	"Stockholm", "Uppsala", "Gothenburg", "Lund", "Oslo", "Helsinki",
	"Madrid", "Barcelona", "Valencia", "Rome", "Milan", "Bologna",
	"Naples", "Turin", "Padua", "Lisbon", "Porto", "Athens", "Prague",
	"Warsaw", "Krakow", "Budapest", "Moscow", "Saint Petersburg",
	"Istanbul", "Ankara",
	// Middle East and Africa
	"Tel Aviv", "Jerusalem", "Haifa", "Cairo", "Cape Town",
	"Johannesburg", "Nairobi", "Lagos",
	// Asia-Pacific
	"Tokyo", "Osaka", "Kyoto", "Nagoya", "Sendai", "Seoul", "Beijing",
	"Shanghai", "Guangzhou", "Shenzhen", "Nanjing", "Wuhan", "Chengdu",
	"Hangzhou", "Hong Kong", "Taipei", "Singapore", "Bangkok", "Hanoi",
	"Manila", "Jakarta", "Kuala Lumpur", "Mumbai", "Delhi", "New Delhi",
	"Bangalore", "Chennai", "Kolkata", "Hyderabad", "Sydney",
	"Melbourne", "Brisbane", "Perth", "Adelaide", "Auckland",
	"Wellington",
	// South America
	"Bogota", "Lima", "Santiago", "Buenos Aires", "Sao Paulo",
	"Rio de Janeiro", "Havana",
	// Known gazetteer false positive, excluded by Resolve.
	"University",
}

// countryAliases maps lowercase country spellings to canonical names.
// The alias side covers the forms that show up in affiliation text.
var countryAliases = map[string]string{
	"united states":            "United States",
	"united states of america": "United States",
	"usa":                      "United States",
	"united kingdom":           "United Kingdom",
	"uk":                       "United Kingdom",
	"england":                  "United Kingdom",
	"scotland":                 "United Kingdom",
	"wales":                    "United Kingdom",
	"ireland":                  "Ireland",
	"canada":                   "Canada",
	"mexico":                   "Mexico",
	"france":                   "France",
	"germany":                  "Germany",
	"switzerland":              "Switzerland",
	"austria":                  "Austria",
	"netherlands":              "Netherlands",
	"the netherlands":          "Netherlands",
	"belgium":                  "Belgium",
	"denmark":                  "Denmark",
	"sweden":                   "Sweden",
	"norway":                   "Norway",
	"finland":                  "Finland",
	"spain":                    "Spain",
	"italy":                    "Italy",
	"portugal":                 "Portugal",
	"greece":                   "Greece",
	"poland":                   "Poland",
	"czech republic":           "Czech Republic",
	"hungary":                  "Hungary",
	"russia":                   "Russia",
	"turkey":                   "Turkey",
	"israel":                   "Israel",
	"egypt":                    "Egypt",
	"south africa":             "South Africa",
	"kenya":                    "Kenya",
	"nigeria":                  "Nigeria",
	"japan":                    "Japan",
	"south korea":              "South Korea",
	"republic of korea":        "South Korea",
	"korea":                    "South Korea",
	"china":                    "China",
	"taiwan":                   "Taiwan",
	"singapore":                "Singapore",
	"thailand":                 "Thailand",
	"vietnam":                  "Vietnam",
	"philippines":              "Philippines",
	"indonesia":                "Indonesia",
	"malaysia":                 "Malaysia",
	"india":                    "India",
	"australia":                "Australia",
	"new zealand":              "New Zealand",
	"colombia":                 "Colombia",
	"peru":                     "Peru",
	"chile":                    "Chile",
	"argentina":                "Argentina",
	"brazil":                   "Brazil",
	"cuba":                     "Cuba",
}

// cityLookup maps lowercase city spellings to canonical names.
var cityLookup = func() map[string]string {
	m := make(map[string]string, len(cityNames))
	for _, c := range cityNames {
		m[lower(c)] = c
	}
	return m
}()
