// Package parser turns free-text Pokémon TCG listing titles into structured
// card attributes with a confidence score.
//
// Parse is pure: every rule table is package-level data compiled once at
// init, and no state is kept between calls.
package parser

import (
	"regexp"
	"strings"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Parse extracts card attributes from a listing title. Fake and bulk
// listings short-circuit with IsFake or IsJunk set and no further
// extraction.
func Parse(title string) domain.ParsedTitle {
	p := domain.ParsedTitle{
		OriginalTitle: title,
		LanguageCode:  "en",
		Confidence:    domain.ConfidenceVeryLow,
	}

	s := normalize(title)
	p.NormalizedTitle = s

	if fam, ok := matchFamily(fakeFamilies, s); ok {
		p.IsFake = true
		p.RejectReason = "fake or replica listing (" + fam + ")"
		return p
	}

	num, hasNum := extractNumber(s)
	grade, graded := extractGrading(s)

	if fam, ok := matchFamily(junkFamilies, junkText(s)); ok && !(hasNum && num.denominator > 0 && graded) {
		p.IsJunk = true
		p.RejectReason = "bulk or sealed listing (" + fam + ")"
		p.ConfidenceScore = junkScore
		return p
	}

	rest := s
	if hasNum {
		p.CardNumber = num.number
		p.PrintedNumber = num.printed
		p.Denominator = num.denominator
		p.SubsetPrefix = num.subsetPrefix
		p.PromoPrefix = num.promoPrefix
		p.NumberRule = num.rule
		rest = blank(rest, num.span)
	}
	if graded {
		p.IsGraded = true
		p.GradingCompany = grade.company
		p.Grade = grade.grade
		p.GradeModifier = grade.modifier
		rest = blank(rest, grade.span)
	}

	attrs := extractVariants(s)
	p.IsHolo = attrs.holo
	p.IsReverseHolo = attrs.reverseHolo
	p.IsFirstEdition = attrs.firstEdition
	p.IsShadowless = attrs.shadowless
	p.IsFullArt = attrs.fullArt
	p.IsAltArt = attrs.altArt
	p.IsSecret = attrs.secret
	p.IsRainbow = attrs.rainbow
	p.IsGold = attrs.gold
	p.IsPromo = attrs.promo || num.promoPrefix != ""

	p.LanguageCode = extractLanguage(s)
	p.CardType = extractCardType(rest)

	set := extractSet(rest, num, hasNum)
	p.SetName = set.name
	p.IsDeltaSpecies = set.delta || attrs.deltaSymbol
	if p.SubsetPrefix == "" && hasNum && set.subset != "" {
		p.SubsetPrefix = set.subset
	}

	if !p.IsGraded {
		p.Condition = extractCondition(rest)
	}

	p.CardName, p.NameSource = extractName(blankSets(rest))

	p.ConfidenceScore = score(p)
	p.Confidence = Level(p.ConfidenceScore)
	return p
}

// blankSets removes every set-name phrase so the name fallback does not
// pick up words like "Evolving Skies".
func blankSets(s string) string {
	s = blankAll(deltaSpeciesPattern, s)
	for _, e := range eraTable {
		for _, sp := range e.sets {
			s = blankAll(sp.pattern, s)
		}
	}
	return s
}

func blankAll(re *regexp.Regexp, s string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}
