package parser

import "regexp"

// conditionRule maps title wording to a condition code. Rules are ordered
// worst condition first so "heavily played" is not read as "played".
type conditionRule struct {
	code    string
	pattern *regexp.Regexp
}

var conditionRules = []conditionRule{
	{"DMG", regexp.MustCompile(`(?i)\b(?:damaged|dmg|creased?|water\s?damage[d]?|poor)\b`)},
	{"HP", regexp.MustCompile(`(?i)\bheavily\s?played\b|\bheavy\s?play(?:ed)?\b`)},
	{"HP", regexp.MustCompile(`(?:^|[^\d\s])\s*\bHP\b`)},
	{"MP", regexp.MustCompile(`(?i)\bmoderately\s?played\b|\bMP\b`)},
	{"LP", regexp.MustCompile(`(?i)\blightly\s?played\b|\blight\s?play(?:ed)?\b|\bLP\b|\bexcellent\b`)},
	{"NM", regexp.MustCompile(`(?i)\bnear\s?mint\b|\bNM\b|\bNM/M\b|\bM/NM\b|\bmint\b|\bpack\s?fresh\b`)},
	{"MP", regexp.MustCompile(`(?i)\bplayed\b|\bgood\s?condition\b`)},
}

// Conditions lists the recognized condition codes, best first.
var Conditions = []string{"NM", "LP", "MP", "HP", "DMG"}

func extractCondition(s string) string {
	for _, r := range conditionRules {
		if r.pattern.MatchString(s) {
			return r.code
		}
	}
	return ""
}

// NormalizeCondition maps free-form marketplace condition hints onto the
// condition codes. Unknown hints yield "".
func NormalizeCondition(hint string) string {
	return extractCondition(normalize(hint))
}
