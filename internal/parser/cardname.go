package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// nameTier is one level of the card-name cascade.
type nameTier struct {
	source domain.NameSource
	find   func(s string) (string, bool)
}

const (
	leftBound  = `(?:^|[^\pL\pN'])`
	rightBound = `(?:[^\pL\pN]|$)`
)

// alternation builds a case-insensitive alternation, longest name first so
// "Mime Jr." wins over "Mime" at the same position.
func alternation(names []string) string {
	sorted := append([]string(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, n := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(n), " ", `\s?`)
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}

var (
	speciesAlt = alternation(speciesNames)

	trainerCardPattern = regexp.MustCompile(`(?i)` + leftBound + `(` + alternation(trainerCards) + `)` + rightBound)
	teamPattern        = regexp.MustCompile(`(?i)` + leftBound + `(` + alternation(teamPrefixes) + `)\s(` + speciesAlt + `)` + rightBound)
	regionalPattern    = regexp.MustCompile(`(?i)` + leftBound + `(` + alternation(regionalPrefixes) + `)\s(` + speciesAlt + `)` + rightBound)
	nidoranPattern     = regexp.MustCompile(`(?i)\bNidoran\s?(♀|♂|\(F\)|\(M\)|female|male|F|M)?(?:[^\pL]|$)`)
	porygonPattern     = regexp.MustCompile(`(?i)\bPorygon[\s-]?(2|Z)\b`)
	tagTeamPattern     = regexp.MustCompile(`(?i)` + leftBound + `(` + speciesAlt + `)\s?&\s?(` + speciesAlt + `)(?:\s?&\s?(` + speciesAlt + `))?` + rightBound)
	speciesPattern     = regexp.MustCompile(`(?i)` + leftBound + `(` + speciesAlt + `)` + rightBound)
	personPattern      = regexp.MustCompile(`(?i)` + leftBound + `(` + alternation(personNames) + `)` + rightBound)

	// suffixPattern captures a card-type suffix directly after a name.
	suffixPattern = regexp.MustCompile(`^\s?-?\s?((?i:VMAX|VSTAR|V-UNION|GX|LV\.?\s?X)|EX|ex|V|BREAK|Prime|δ|★|Star)(?:[^\pL\pN]|$)`)
)

// canonical restores the list spelling of a matched name.
var canonical = func() map[string]string {
	m := make(map[string]string)
	for _, list := range [][]string{speciesNames, trainerCards, personNames, teamPrefixes, regionalPrefixes} {
		for _, n := range list {
			m[foldKey(n)] = n
		}
	}
	return m
}()

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func canon(s string) string {
	if c, ok := canonical[foldKey(s)]; ok {
		return c
	}
	return s
}

// withSuffix re-attaches a card-type suffix that follows end.
func withSuffix(name, s string, end int) string {
	m := suffixPattern.FindStringSubmatch(s[end:])
	if m == nil {
		return name
	}
	suffix := m[1]
	switch {
	case strings.HasPrefix(strings.ToUpper(suffix), "LV"):
		suffix = "LV.X"
	case strings.EqualFold(suffix, "vmax"), strings.EqualFold(suffix, "vstar"), strings.EqualFold(suffix, "gx"), strings.EqualFold(suffix, "v-union"):
		suffix = strings.ToUpper(suffix)
	case suffix == "Star":
		suffix = "★"
	}
	return name + " " + suffix
}

func submatch(s string, idx []int, n int) string {
	if 2*n+1 >= len(idx) || idx[2*n] < 0 {
		return ""
	}
	return s[idx[2*n]:idx[2*n+1]]
}

var nameTiers = []nameTier{
	{domain.NameSourceTrainer, func(s string) (string, bool) {
		idx := trainerCardPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		return canon(submatch(s, idx, 1)), true
	}},
	{domain.NameSourceTeam, func(s string) (string, bool) {
		idx := teamPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		name := canon(submatch(s, idx, 1)) + " " + canon(submatch(s, idx, 2))
		return withSuffix(name, s, idx[5]), true
	}},
	{domain.NameSourceRegional, func(s string) (string, bool) {
		idx := regionalPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		name := canon(submatch(s, idx, 1)) + " " + canon(submatch(s, idx, 2))
		return withSuffix(name, s, idx[5]), true
	}},
	{domain.NameSourceSpecial, func(s string) (string, bool) {
		idx := nidoranPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		if g := submatch(s, idx, 1); g != "" {
			return "Nidoran " + g, true
		}
		return "Nidoran", true
	}},
	{domain.NameSourceSpecial, func(s string) (string, bool) {
		idx := porygonPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		if strings.EqualFold(submatch(s, idx, 1), "z") {
			return withSuffix("Porygon-Z", s, idx[1]), true
		}
		return withSuffix("Porygon2", s, idx[1]), true
	}},
	{domain.NameSourceTagTeam, func(s string) (string, bool) {
		idx := tagTeamPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		parts := []string{canon(submatch(s, idx, 1)), canon(submatch(s, idx, 2))}
		end := idx[5]
		if third := submatch(s, idx, 3); third != "" {
			parts = append(parts, canon(third))
			end = idx[7]
		}
		return withSuffix(strings.Join(parts, " & "), s, end), true
	}},
	{domain.NameSourceSpecies, func(s string) (string, bool) {
		idx := speciesPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		return withSuffix(canon(submatch(s, idx, 1)), s, idx[3]), true
	}},
	{domain.NameSourcePerson, func(s string) (string, bool) {
		idx := personPattern.FindStringSubmatchIndex(s)
		if idx == nil {
			return "", false
		}
		return canon(submatch(s, idx, 1)), true
	}},
}

var (
	tokenSplit  = regexp.MustCompile(`[^\pL\pN'.\-♀♂]+`)
	hasDigit    = regexp.MustCompile(`\d`)
	maxFallback = 3
)

// extractName runs the cascade over text with the number, grading and set
// spans already blanked.
func extractName(s string) (string, domain.NameSource) {
	for _, tier := range nameTiers {
		if name, ok := tier.find(s); ok {
			return name, tier.source
		}
	}
	var words []string
	for _, tok := range tokenSplit.Split(s, -1) {
		tok = strings.Trim(tok, ".-'")
		if tok == "" || hasDigit.MatchString(tok) || nameStopWords[strings.ToLower(tok)] {
			continue
		}
		words = append(words, tok)
		if len(words) == maxFallback {
			break
		}
	}
	if len(words) == 0 {
		return "", domain.NameSourceNone
	}
	return strings.Join(words, " "), domain.NameSourceFallback
}
