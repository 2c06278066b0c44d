package arbitrage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Validation gates.
const (
	// PrintedTotalTolerance is how far a listing's stated set total may be
	// from the expansion's printed total.
	PrintedTotalTolerance = 3
	// NameRejectBelow rejects a matched card whose name similarity to the
	// parsed name is lower than this.
	NameRejectBelow = 0.3
	// NameAcceptOR is the minimum similarity for picking a candidate out
	// of a multi-expansion OR query.
	NameAcceptOR = 0.25
)

// checkPrintedTotal compares the listing's denominator with an expansion or
// card printed total. Subset numbering and secret-rare numbering (number
// above the stated total) are exempt.
func checkPrintedTotal(p domain.ParsedTitle, total int) (bool, string) {
	switch {
	case p.Denominator <= 0 || total <= 0:
		return true, ""
	case p.SubsetPrefix != "":
		return true, "subset numbering exempt"
	case numericPart(p.CardNumber) > p.Denominator:
		return true, "secret rare numbering exempt"
	}
	diff := p.Denominator - total
	if diff < 0 {
		diff = -diff
	}
	if diff > PrintedTotalTolerance {
		return false, fmt.Sprintf("listing total %d vs printed total %d", p.Denominator, total)
	}
	return true, ""
}

var (
	numberPattern = regexp.MustCompile(`^([A-Za-z]*)0*(\d+)([A-Za-z]?)$`)
	digitsPattern = regexp.MustCompile(`\d+`)
)

// normalizeNumber uppercases the prefix and strips leading zeros, so that
// "044", "44" and "TG05"/"TG5" compare equal.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(m[1]) + m[2] + strings.ToUpper(m[3])
}

func numericPart(s string) int {
	d := digitsPattern.FindString(s)
	if d == "" {
		return 0
	}
	n, _ := strconv.Atoi(d)
	return n
}

// padNumber zero-pads the numeric part of a prefixed number: three digits
// for SV and SWSH numbering, two otherwise.
func padNumber(prefix string, n int) string {
	switch strings.ToUpper(prefix) {
	case "SV", "SWSH":
		return fmt.Sprintf("%s%03d", strings.ToUpper(prefix), n)
	}
	return fmt.Sprintf("%s%02d", strings.ToUpper(prefix), n)
}

// nameAliases folds common spelling variants. A value may hold several
// space-separated tokens; an empty value drops the token.
var nameAliases = map[string]string{
	"mister":   "mr",
	"junior":   "jr",
	"jnr":      "jr",
	"and":      "",
	"pokemon":  "",
	"the":      "",
	"rockets":  "rocket",
	"hooh":     "ho oh",
	"porygonz": "porygon z",
	"nidoranf": "nidoran",
	"nidoranm": "nidoran",
}

// typeTokens are card-type suffixes ignored when both names still have
// other tokens.
var typeTokens = map[string]bool{
	"v": true, "vmax": true, "vstar": true, "gx": true, "ex": true,
	"break": true, "prime": true, "lv": true, "x": true, "star": true, "δ": true,
}

var genderTokens = map[string]string{
	"♀": "f", "f": "f", "female": "f",
	"♂": "m", "m": "m", "male": "m",
}

func foldName(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	out = strings.NewReplacer("'", "", "’", "", ".", " ", "-", " ", "♀", " ♀ ", "♂", " ♂ ").Replace(out)
	return out
}

// nameTokens splits a card name into comparable tokens and reports any
// Nidoran gender marker.
func nameTokens(s string) (map[string]bool, string) {
	fields := strings.FieldsFunc(foldName(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '♀' && r != '♂' && r != 'δ'
	})
	tokens := make(map[string]bool, len(fields))
	var gender string
	nidoran := false
	for _, f := range fields {
		switch f {
		case "nidoranf", "nidoran♀":
			gender = "f"
		case "nidoranm", "nidoran♂":
			gender = "m"
		}
		if strings.HasPrefix(f, "nidoran") {
			nidoran = true
		}
	}
	for _, f := range fields {
		if g, ok := genderTokens[f]; ok && nidoran {
			if gender == "" {
				gender = g
			}
			continue
		}
		if a, ok := nameAliases[f]; ok {
			for _, t := range strings.Fields(a) {
				tokens[t] = true
			}
			continue
		}
		tokens[f] = true
	}
	return tokens, gender
}

// nameSimilarity is the token Jaccard similarity of two card names, with
// card-type suffixes ignored. Nidoran of opposite genders scores 0.
func nameSimilarity(a, b string) float64 {
	ta, ga := nameTokens(a)
	tb, gb := nameTokens(b)
	if ga != "" && gb != "" && ga != gb {
		return 0
	}
	ta, tb = stripTypes(ta), stripTypes(tb)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func stripTypes(tokens map[string]bool) map[string]bool {
	out := make(map[string]bool, len(tokens))
	for t := range tokens {
		if !typeTokens[t] {
			out[t] = true
		}
	}
	if len(out) == 0 {
		return tokens
	}
	return out
}
