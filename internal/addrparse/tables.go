package addrparse

import "strings"

// abbrToState maps lowercase state abbreviations to lowercase full names.
var abbrToState = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"fl": "florida", "ga": "georgia", "hi": "hawaii", "id": "idaho",
	"il": "illinois", "in": "indiana", "ia": "iowa", "ks": "kansas",
	"ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi",
	"mo": "missouri", "mt": "montana", "ne": "nebraska", "nv": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio", "ok": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tn": "tennessee", "tx": "texas", "ut": "utah",
	"vt": "vermont", "va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming", "dc": "district of columbia",
}

// stateToAbbr maps lowercase full names to lowercase abbreviations.
var stateToAbbr = func() map[string]string {
	m := make(map[string]string, len(abbrToState))
	for abbr, full := range abbrToState {
		m[full] = abbr
	}
	return m
}()

// directionals are pre/post street directionals in both short and long form.
var directionals = map[string]bool{
	"n": true, "s": true, "e": true, "w": true,
	"ne": true, "nw": true, "se": true, "sw": true,
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
}

// streetSuffixes are post-type street designators, abbreviated and spelled
// out. Matched case-insensitively with a trailing period stripped.
var streetSuffixes = map[string]bool{
	"st": true, "street": true,
	"ave": true, "av": true, "avenue": true,
	"blvd": true, "boulevard": true,
	"dr": true, "drive": true,
	"rd": true, "road": true,
	"ln": true, "lane": true,
	"ct": true, "court": true,
	"pl": true, "place": true,
	"way": true,
	"ter": true, "terrace": true,
	"cir": true, "circle": true,
	"pkwy": true, "parkway": true,
	"hwy": true, "highway": true,
	"trl": true, "trail": true,
	"sq": true, "square": true,
	"loop": true,
	"aly": true, "alley": true,
	"xing": true, "crossing": true,
	"pike": true, "run": true, "walk": true, "row": true,
}

// unitDesignators introduce an occupancy identifier.
var unitDesignators = map[string]bool{
	"apt": true, "apartment": true,
	"unit": true,
	"ste": true, "suite": true,
	"bldg": true, "building": true,
	"fl": true, "floor": true,
	"rm": true, "room": true,
	"lot": true, "spc": true, "space": true,
	"trlr": true, "no": true,
	"#": true,
}

// norm lowercases a token and strips a trailing period for table lookups.
func norm(token string) string {
	return strings.TrimSuffix(strings.ToLower(token), ".")
}

func isDirectional(token string) bool { return directionals[norm(token)] }
func isSuffix(token string) bool      { return streetSuffixes[norm(token)] }
func isUnitDesignator(token string) bool {
	return unitDesignators[norm(token)] || strings.HasPrefix(token, "#")
}

// isStateAbbr reports whether the token is a two-letter state abbreviation.
func isStateAbbr(token string) bool {
	_, ok := abbrToState[norm(token)]
	return ok
}

// isStateName reports whether the joined tokens form a full state name.
func isStateName(tokens []string) bool {
	_, ok := stateToAbbr[strings.ToLower(strings.Join(tokens, " "))]
	return ok
}
