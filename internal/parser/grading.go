package parser

import (
	"regexp"
	"strings"
)

// companyAliases maps spellings seen in titles to canonical grading company
// codes.
var companyAliases = map[string]string{
	"PSA":     "PSA",
	"BGS":     "BGS",
	"BECKETT": "BGS",
	"CGC":     "CGC",
	"SGC":     "SGC",
	"ACE":     "ACE",
	"TAG":     "TAG",
	"AGS":     "AGS",
	"PCA":     "PCA",
	"GMA":     "GMA",
}

// CanonicalCompany normalizes a grading company name. Unknown names are
// returned upper-cased.
func CanonicalCompany(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	if c, ok := companyAliases[up]; ok {
		return c
	}
	return up
}

var (
	gradePattern = regexp.MustCompile(`(?i)\b(PSA|BGS|Beckett|CGC|SGC|ACE|TAG|AGS|PCA|GMA)\s?-?\s?(?:(gem\s?mint|gem\s?mt|pristine|mint|perfect|black\s?label)\s?)?(10|[1-9](?:\.5)?)?\b`)

	gradeModifierPattern = regexp.MustCompile(`(?i)\b(gem\s?mint|gem\s?mt|pristine|black\s?label|perfect)\b`)

	// Speculative grading language is not a graded slab.
	ungradedPattern = regexp.MustCompile(`(?i)\b(?:PSA|BGS|CGC|SGC|grad(?:e|ing))\s(?:ready|worthy|candidate|contender)\b|\b(?:potential|possible|future)\s(?:PSA|BGS|CGC|SGC|gem|10)\b|\b(?:ready|candidate)\sfor\sgrading\b`)

	// "TAG" and "ACE" are also ordinary words in titles (Tag Team, Ace Spec).
	ambiguousCompany = map[string]bool{"TAG": true, "ACE": true}
)

type grading struct {
	company  string
	grade    string
	modifier string
	span     [2]int
}

func extractGrading(s string) (grading, bool) {
	if ungradedPattern.MatchString(s) {
		return grading{}, false
	}
	for _, idx := range gradePattern.FindAllStringSubmatchIndex(s, -1) {
		company := CanonicalCompany(s[idx[2]:idx[3]])
		grade := ""
		if idx[6] >= 0 {
			grade = s[idx[6]:idx[7]]
		}
		if ambiguousCompany[company] && grade == "" {
			continue
		}
		g := grading{company: company, grade: grade, span: [2]int{idx[0], idx[1]}}
		if idx[4] >= 0 {
			g.modifier = canonicalModifier(s[idx[4]:idx[5]])
		} else if m := gradeModifierPattern.FindString(s); m != "" {
			g.modifier = canonicalModifier(m)
		}
		return g, true
	}
	return grading{}, false
}

func canonicalModifier(m string) string {
	m = strings.ToLower(strings.Join(strings.Fields(m), ""))
	switch m {
	case "gemmint", "gemmt":
		return "Gem Mint"
	case "pristine":
		return "Pristine"
	case "blacklabel":
		return "Black Label"
	case "perfect":
		return "Perfect"
	case "mint":
		return "Mint"
	}
	return ""
}
