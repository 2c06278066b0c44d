package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// cardNumber is the outcome of a number rule.
type cardNumber struct {
	number       string
	printed      string
	denominator  int
	subsetPrefix string
	promoPrefix  string
	rule         string
	span         [2]int
}

// numberRule is one card-number pattern family. Rules are evaluated in order
// and the first match wins.
type numberRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(m []string) cardNumber
}

// subsetPair handles "TG05/TG30" style numbers where both halves carry the
// same subset prefix.
func subsetPair(prefix string) func(m []string) cardNumber {
	return func(m []string) cardNumber {
		return cardNumber{
			number:       prefix + m[1],
			printed:      prefix + m[1] + "/" + prefix + m[2],
			denominator:  atoi(m[2]),
			subsetPrefix: prefix,
		}
	}
}

// numberRules is ordered most specific first. A bare "SV75" token is never a
// card number: it collides with set codes, so SV appears only in paired or
// hash-prefixed forms.
var numberRules = []numberRule{
	{
		name:    "shiny_vault",
		pattern: regexp.MustCompile(`(?i)\bSV\s?(\d{1,3})\s*/\s*SV\s?(\d{1,3})\b`),
		extract: subsetPair("SV"),
	},
	{
		name:    "trainer_gallery",
		pattern: regexp.MustCompile(`(?i)\bTG\s?(\d{1,2})\s*/\s*TG\s?(\d{1,2})\b`),
		extract: subsetPair("TG"),
	},
	{
		name:    "galarian_gallery",
		pattern: regexp.MustCompile(`(?i)\bGG\s?(\d{1,2})\s*/\s*GG\s?(\d{1,2})\b`),
		extract: subsetPair("GG"),
	},
	{
		name:    "radiant_collection",
		pattern: regexp.MustCompile(`(?i)\bRC\s?(\d{1,2})\s*/\s*RC\s?(\d{1,2})\b`),
		extract: subsetPair("RC"),
	},
	{
		name:    "h_format",
		pattern: regexp.MustCompile(`\bH(\d{1,2})\s*/\s*H(\d{1,2})\b`),
		extract: subsetPair("H"),
	},
	{
		name:    "subset_numeric_total",
		pattern: regexp.MustCompile(`(?i)\b(SV|TG|GG|RC)(\d{1,3})\s*/\s*(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			prefix := strings.ToUpper(m[1])
			return cardNumber{
				number:       prefix + m[2],
				printed:      prefix + m[2] + "/" + m[3],
				denominator:  atoi(m[3]),
				subsetPrefix: prefix,
			}
		},
	},
	{
		name:    "hash_total",
		pattern: regexp.MustCompile(`#\s?(\d{1,3})\s*/\s*(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			return cardNumber{number: m[1], printed: m[1] + "/" + m[2], denominator: atoi(m[2])}
		},
	},
	{
		name:    "letter_suffix",
		pattern: regexp.MustCompile(`\b(\d{1,3}[a-zA-Z])\s*/\s*(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			return cardNumber{number: m[1], printed: m[1] + "/" + m[2], denominator: atoi(m[2])}
		},
	},
	{
		name:    "standard",
		pattern: regexp.MustCompile(`\b(\d{1,3})\s*/\s*(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			return cardNumber{number: m[1], printed: m[1] + "/" + m[2], denominator: atoi(m[2])}
		},
	},
	{
		name:    "promo_code",
		pattern: regexp.MustCompile(`(?i)\b(SWSH|SVP|SM|XY|BW|DP|HGSS|NP)\s?-?\s?(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			prefix := strings.ToUpper(m[1])
			return cardNumber{number: prefix + m[2], printed: prefix + m[2], promoPrefix: prefix}
		},
	},
	{
		name:    "hash_subset",
		pattern: regexp.MustCompile(`(?i)#\s?(SV|TG|GG|RC)\s?(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			prefix := strings.ToUpper(m[1])
			return cardNumber{number: prefix + m[2], printed: prefix + m[2], subsetPrefix: prefix}
		},
	},
	{
		name:    "bare_hash",
		pattern: regexp.MustCompile(`#\s?(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			return cardNumber{number: m[1], printed: m[1]}
		},
	},
	{
		name:    "number_word",
		pattern: regexp.MustCompile(`(?i)\b(?:no|num|number)\.?\s?(\d{1,3})\b`),
		extract: func(m []string) cardNumber {
			return cardNumber{number: m[1], printed: m[1]}
		},
	},
	{
		name:    "subset_standalone",
		pattern: regexp.MustCompile(`(?i)\b(TG|GG|RC)(\d{1,2})\b`),
		extract: func(m []string) cardNumber {
			prefix := strings.ToUpper(m[1])
			return cardNumber{number: prefix + m[2], printed: prefix + m[2], subsetPrefix: prefix}
		},
	},
	{
		// Scarlet & Violet and Sword & Shield print zero-padded three digit
		// numbers; an unpadded bare number is too ambiguous to take.
		name:    "padded_standalone",
		pattern: regexp.MustCompile(`(?:^|\s)(0\d{2})(?:\s|$)`),
		extract: func(m []string) cardNumber {
			return cardNumber{number: m[1], printed: m[1]}
		},
	},
}

// extractNumber runs the rule list and returns the first match.
func extractNumber(s string) (cardNumber, bool) {
	for _, r := range numberRules {
		idx := r.pattern.FindStringSubmatchIndex(s)
		if idx == nil {
			continue
		}
		m := make([]string, len(idx)/2)
		for i := range m {
			if idx[2*i] >= 0 {
				m[i] = s[idx[2*i]:idx[2*i+1]]
			}
		}
		n := r.extract(m)
		n.rule = r.name
		n.span = [2]int{idx[0], idx[1]}
		return n, true
	}
	return cardNumber{}, false
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
