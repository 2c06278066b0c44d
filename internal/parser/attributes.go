package parser

import (
	"regexp"
	"strings"
)

// flagRule sets one boolean attribute when its pattern matches.
type flagRule struct {
	name    string
	pattern *regexp.Regexp
	set     func(a *attributes)
}

type attributes struct {
	holo, reverseHolo, firstEdition, shadowless   bool
	fullArt, altArt, secret, rainbow, gold, promo bool
	deltaSymbol                                   bool
}

var (
	reverseHoloPattern = regexp.MustCompile(`(?i)\b(?:reverse|rev)\s?-?\s?holo(?:foil|graphic)?\b`)
	nonHoloPattern     = regexp.MustCompile(`(?i)\bnon\s?-?\s?holo(?:foil|graphic)?\b`)
	goldStarPattern    = regexp.MustCompile(`(?i)\bgold\s?star\b|★`)
)

// variantRules are evaluated against text with reverse-holo and non-holo
// phrases already blanked so that "holo" only fires for a plain holo.
var variantRules = []flagRule{
	{"holo", regexp.MustCompile(`(?i)\bholo(?:foil|graphic)?\b|\bfoil\b`), func(a *attributes) { a.holo = true }},
	{"first_edition", regexp.MustCompile(`(?i)\b1st\b|\bfirst\s?ed(?:ition|\.)?|\b1ED\b`), func(a *attributes) { a.firstEdition = true }},
	{"shadowless", regexp.MustCompile(`(?i)\bshadowless\b`), func(a *attributes) { a.shadowless = true }},
	{"full_art", regexp.MustCompile(`(?i)\bfull\s?art\b|\bFA\b`), func(a *attributes) { a.fullArt = true }},
	{"alt_art", regexp.MustCompile(`(?i)\balt(?:ernate|\.)?\s?art\b|\bAA\b|\b(?:special\s)?illustration\srare\b|\bSIR\b`), func(a *attributes) { a.altArt = true }},
	{"secret", regexp.MustCompile(`(?i)\bsecret(?:\s?rare)?\b`), func(a *attributes) { a.secret = true }},
	{"rainbow", regexp.MustCompile(`(?i)\brainbow(?:\s?rare)?\b|\bhyper\s?rare\b`), func(a *attributes) { a.rainbow = true }},
	{"gold", regexp.MustCompile(`(?i)\bgold(?:\s?(?:rare|secret))?\b`), func(a *attributes) { a.gold = true }},
	{"promo", regexp.MustCompile(`(?i)\bpromos?\b|\bblack\s?star\b`), func(a *attributes) { a.promo = true }},
	{"delta_symbol", regexp.MustCompile(`δ`), func(a *attributes) { a.deltaSymbol = true }},
}

func extractVariants(s string) attributes {
	var a attributes
	if reverseHoloPattern.MatchString(s) {
		a.reverseHolo = true
		s = reverseHoloPattern.ReplaceAllString(s, " ")
	}
	s = nonHoloPattern.ReplaceAllString(s, " ")
	s = goldStarPattern.ReplaceAllString(s, " ")
	for _, r := range variantRules {
		if r.pattern.MatchString(s) {
			r.set(&a)
		}
	}
	return a
}

// languageRules map title keywords to ISO 639-1 codes.
var languageRules = []struct {
	code    string
	pattern *regexp.Regexp
}{
	{"en", regexp.MustCompile(`(?i)\benglish\b|\beng\b`)},
	{"ja", regexp.MustCompile(`(?i)\b(?:japanese|japan|jpn|jap|jp)\b|[\p{Hiragana}\p{Katakana}]`)},
	{"ko", regexp.MustCompile(`(?i)\b(?:korean|kor)\b|\p{Hangul}`)},
	{"zh", regexp.MustCompile(`(?i)\b(?:chinese|simplified|traditional\schinese|s-chinese|t-chinese)\b|\p{Han}`)},
	{"de", regexp.MustCompile(`(?i)\b(?:german|deutsch)\b`)},
	{"fr", regexp.MustCompile(`(?i)\b(?:french|francais|fran[cç]aise?)\b`)},
	{"it", regexp.MustCompile(`(?i)\b(?:italian|italiano)\b`)},
	{"es", regexp.MustCompile(`(?i)\b(?:spanish|espanol)\b`)},
	{"pt", regexp.MustCompile(`(?i)\b(?:portuguese|portugues)\b`)},
	{"nl", regexp.MustCompile(`(?i)\b(?:dutch|nederlands)\b`)},
	{"th", regexp.MustCompile(`(?i)\bthai\b`)},
	{"id", regexp.MustCompile(`(?i)\bindonesian\b`)},
}

// extractLanguage defaults to English. An explicit "English" wins over any
// other signal.
func extractLanguage(s string) string {
	for _, r := range languageRules {
		if r.pattern.MatchString(s) {
			return r.code
		}
	}
	return "en"
}

// cardTypeRule detects one mechanic suffix. Case sensitivity is per rule:
// uppercase EX (XY era) and lowercase ex (EX and SV eras) are different
// types.
type cardTypeRule struct {
	cardType string
	pattern  *regexp.Regexp
}

var cardTypeRules = []cardTypeRule{
	{"LV.X", regexp.MustCompile(`(?i)\bLV\.?\s?X\b`)},
	{"VMAX", regexp.MustCompile(`(?i)\bVMAX\b`)},
	{"VSTAR", regexp.MustCompile(`(?i)\bVSTAR\b`)},
	{"V-UNION", regexp.MustCompile(`(?i)\bV[\s-]?UNION\b`)},
	{"GX", regexp.MustCompile(`(?i)\bGX\b`)},
	{"BREAK", regexp.MustCompile(`\bBREAK\b`)},
	{"Prime", regexp.MustCompile(`\b(?:Prime|PRIME)\b`)},
	{"Gold Star", goldStarPattern},
	{"EX", regexp.MustCompile(`\bEX\b`)},
	{"ex", regexp.MustCompile(`\bex\b`)},
	{"V", regexp.MustCompile(`\bV\b`)},
	{"Trainer", regexp.MustCompile(`(?i)\b(?:trainer|supporter|stadium)\b`)},
	{"Energy", regexp.MustCompile(`(?i)\benergy\b`)},
}

// exEraSetPattern blanks EX-era set names ("EX Dragon Frontiers") so their
// leading EX is not taken for the card type.
var exEraSetPattern = regexp.MustCompile(`\b(?:EX|ex)\s(?:Ruby|Sapphire|Sandstorm|Dragon|Team\s(?:Magma|Rocket)|Hidden\sLegends|FireRed|Fire\sRed|Deoxys|Emerald|Unseen|Delta|Legend\sMaker|Holon|Crystal|Power\sKeepers|Era|Series)\b`)

var trainerGalleryPattern = regexp.MustCompile(`(?i)\btrainer\s?gallery\b`)

func extractCardType(s string) string {
	s = exEraSetPattern.ReplaceAllString(s, " ")
	s = trainerGalleryPattern.ReplaceAllString(s, " ")
	for _, r := range cardTypeRules {
		if r.pattern.MatchString(s) {
			return r.cardType
		}
	}
	return ""
}

// blank replaces the byte range with spaces so later extractors do not see
// it while offsets stay valid.
func blank(s string, span [2]int) string {
	if span[0] < 0 || span[1] > len(s) || span[0] >= span[1] {
		return s
	}
	return s[:span[0]] + strings.Repeat(" ", span[1]-span[0]) + s[span[1]:]
}
