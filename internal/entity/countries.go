package entity

import "strings"

// isoCountries is the set of ISO 3166-1 alpha-2 codes accepted for
// country-typed properties.
var isoCountries = map[string]bool{
	"ad": true, "ae": true, "af": true, "ag": true, "ai": true, "al": true,
	"am": true, "ao": true, "aq": true, "ar": true, "as": true, "at": true,
	"au": true, "aw": true, "ax": true, "az": true, "ba": true, "bb": true,
	"bd": true, "be": true, "bf": true, "bg": true, "bh": true, "bi": true,
	"bj": true, "bl": true, "bm": true, "bn": true, "bo": true, "bq": true,
	"br": true, "bs": true, "bt": true, "bv": true, "bw": true, "by": true,
	"bz": true, "ca": true, "cc": true, "cd": true, "cf": true, "cg": true,
	"ch": true, "ci": true, "ck": true, "cl": true, "cm": true, "cn": true,
	"co": true, "cr": true, "cu": true, "cv": true, "cw": true, "cx": true,
	"cy": true, "cz": true, "de": true, "dj": true, "dk": true, "dm": true,
	"do": true, "dz": true, "ec": true, "ee": true, "eg": true, "eh": true,
	"er": true, "es": true, "et": true, "fi": true, "fj": true, "fk": true,
	"fm": true, "fo": true, "fr": true, "ga": true, "gb": true, "gd": true,
	"ge": true, "gf": true, "gg": true, "gh": true, "gi": true, "gl": true,
	"gm": true, "gn": true, "gp": true, "gq": true, "gr": true, "gs": true,
	"gt": true, "gu": true, "gw": true, "gy": true, "hk": true, "hm": true,
	"hn": true, "hr": true, "ht": true, "hu": true, "id": true, "ie": true,
	"il": true, "im": true, "in": true, "io": true, "iq": true, "ir": true,
	"is": true, "it": true, "je": true, "jm": true, "jo": true, "jp": true,
	"ke": true, "kg": true, "kh": true, "ki": true, "km": true, "kn": true,
	"kp": true, "kr": true, "kw": true, "ky": true, "kz": true, "la": true,
	"lb": true, "lc": true, "li": true, "lk": true, "lr": true, "ls": true,
	"lt": true, "lu": true, "lv": true, "ly": true, "ma": true, "mc": true,
	"md": true, "me": true, "mf": true, "mg": true, "mh": true, "mk": true,
	"ml": true, "mm": true, "mn": true, "mo": true, "mp": true, "mq": true,
	"mr": true, "ms": true, "mt": true, "mu": true, "mv": true, "mw": true,
	"mx": true, "my": true, "mz": true, "na": true, "nc": true, "ne": true,
	"nf": true, "ng": true, "ni": true, "nl": true, "no": true, "np": true,
	"nr": true, "nu": true, "nz": true, "om": true, "pa": true, "pe": true,
	"pf": true, "pg": true, "ph": true, "pk": true, "pl": true, "pm": true,
	"pn": true, "pr": true, "ps": true, "pt": true, "pw": true, "py": true,
	"qa": true, "re": true, "ro": true, "rs": true, "ru": true, "rw": true,
	"sa": true, "sb": true, "sc": true, "sd": true, "se": true, "sg": true,
	"sh": true, "si": true, "sj": true, "sk": true, "sl": true, "sm": true,
	"sn": true, "so": true, "sr": true, "ss": true, "st": true, "sv": true,
	"sx": true, "sy": true, "sz": true, "tc": true, "td": true, "tf": true,
	"tg": true, "th": true, "tj": true, "tk": true, "tl": true, "tm": true,
	"tn": true, "to": true, "tr": true, "tt": true, "tv": true, "tw": true,
	"tz": true, "ua": true, "ug": true, "um": true, "us": true, "uy": true,
	"uz": true, "va": true, "vc": true, "ve": true, "vg": true, "vi": true,
	"vn": true, "vu": true, "wf": true, "ws": true, "ye": true, "yt": true,
	"za": true, "zm": true, "zw": true,
}

// countryNames maps common country name spellings seen in the source
// data to ISO codes.
var countryNames = map[string]string{
	"moldova":            "md",
	"republica moldova":  "md",
	"romania":            "ro",
	"românia":            "ro",
	"rusia":              "ru",
	"federatia rusa":     "ru",
	"federația rusă":     "ru",
	"ucraina":            "ua",
	"ukraine":            "ua",
	"usa":                "us",
	"sua":                "us",
	"united states":      "us",
	"united kingdom":     "gb",
	"uk":                 "gb",
	"marea britanie":     "gb",
	"germania":           "de",
	"germany":            "de",
	"italia":             "it",
	"italy":              "it",
	"franta":             "fr",
	"franța":             "fr",
	"france":             "fr",
	"turcia":             "tr",
	"turkey":             "tr",
	"israel":             "il",
	"bulgaria":           "bg",
	"belarus":            "by",
	"cipru":              "cy",
	"cyprus":             "cy",
	"grecia":             "gr",
	"greece":             "gr",
	"polonia":            "pl",
	"poland":             "pl",
	"olanda":             "nl",
	"netherlands":        "nl",
	"spania":             "es",
	"spain":              "es",
	"portugalia":         "pt",
	"austria":            "at",
	"elvetia":            "ch",
	"elveția":            "ch",
	"switzerland":        "ch",
	"cehia":              "cz",
	"ungaria":            "hu",
	"estonia":            "ee",
	"letonia":            "lv",
	"lituania":           "lt",
	"kazahstan":          "kz",
	"azerbaidjan":        "az",
	"armenia":            "am",
	"georgia":            "ge",
	"uzbekistan":         "uz",
	"china":              "cn",
	"japonia":            "jp",
	"canada":             "ca",
	"emiratele arabe unite": "ae",
	"liban":              "lb",
	"siria":              "sy",
	"irlanda":            "ie",
	"belgia":             "be",
}

// NormalizeCountry resolves a raw country token to an ISO 3166-1 alpha-2
// code. Accepts ISO codes in any case and a fixed list of country name
// spellings. Returns ok=false for tokens that do not resolve.
func NormalizeCountry(raw string) (string, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return "", false
	}
	if len(token) == 2 && isoCountries[token] {
		return token, true
	}
	if code, ok := countryNames[token]; ok {
		return code, true
	}
	return "", false
}
