package parser

import "github.com/alanyoungcy/cardarb/internal/domain"

// Confidence weights.
const (
	weightNumber      = 40
	weightSet         = 30
	weightKnownName   = 25
	weightGenericName = 15
	weightGraded      = 10
	weightPerVariant  = 5
	maxVariantBonus   = 10
	maxScore          = 100

	junkScore = 5
)

func score(p domain.ParsedTitle) int {
	s := 0
	if p.CardNumber != "" {
		s += weightNumber
	}
	if p.SetName != "" {
		s += weightSet
	}
	switch {
	case p.NameSource.Known():
		s += weightKnownName
	case p.CardName != "":
		s += weightGenericName
	}
	if p.IsGraded {
		s += weightGraded
	}
	s += min(p.VariantSignals()*weightPerVariant, maxVariantBonus)
	return min(s, maxScore)
}

// Level buckets a confidence score.
func Level(score int) domain.ConfidenceLevel {
	switch {
	case score >= 75:
		return domain.ConfidenceHigh
	case score >= 50:
		return domain.ConfidenceMedium
	case score >= 25:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceVeryLow
	}
}
