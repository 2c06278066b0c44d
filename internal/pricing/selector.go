// Package pricing selects reference prices from catalog cards and computes
// profit and deal tiers.
package pricing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/parser"
)

// Attributes are the listing facts that drive price selection.
type Attributes struct {
	IsGraded       bool
	GradingCompany string
	Grade          string
	Condition      string
	IsFirstEdition bool
	IsShadowless   bool
	IsHolo         bool
	IsReverseHolo  bool
}

// AttributesFrom builds selector attributes from a parsed title. A
// condition hint from the marketplace fills in a missing title condition.
func AttributesFrom(p domain.ParsedTitle, conditionHint string) Attributes {
	cond := p.Condition
	if cond == "" && !p.IsGraded {
		cond = parser.NormalizeCondition(conditionHint)
	}
	return Attributes{
		IsGraded:       p.IsGraded,
		GradingCompany: p.GradingCompany,
		Grade:          p.Grade,
		Condition:      cond,
		IsFirstEdition: p.IsFirstEdition,
		IsShadowless:   p.IsShadowless,
		IsHolo:         p.IsHolo,
		IsReverseHolo:  p.IsReverseHolo,
	}
}

// Selection is the chosen variant and price point.
type Selection struct {
	Variant string
	Point   domain.PricePoint
	// Reason names the precedence step that chose the variant.
	Reason string
}

// Variant precedence steps.
const (
	ReasonExact        = "exact_variant"
	ReasonFirstEdition = "relaxed_first_edition"
	ReasonUnlimited    = "forced_unlimited"
	ReasonFallback     = "fallback_order"
	ReasonFirstPriced  = "first_priced"
)

// fallbackOrder is tried when no flag-derived variant exists.
var fallbackOrder = []string{"unlimitedHolofoil", "holofoil", "normal", "reverseHolofoil", "unlimited"}

var variantKeyStrip = regexp.MustCompile(`[^a-z0-9]+`)

func variantKey(s string) string {
	return variantKeyStrip.ReplaceAllString(strings.ToLower(s), "")
}

func isFirstEdition(name string) bool {
	k := variantKey(name)
	return strings.HasPrefix(k, "1stedition") || strings.HasPrefix(k, "firstedition") || strings.HasPrefix(k, "1sted")
}

func isUnlimited(name string) bool {
	return strings.HasPrefix(variantKey(name), "unlimited")
}

// CombinedVariant derives the catalog variant name implied by the listing
// flags, e.g. "1stEditionHolofoil" or "reverseHolofoil".
func CombinedVariant(a Attributes) string {
	finish := "Normal"
	switch {
	case a.IsReverseHolo:
		finish = "ReverseHolofoil"
	case a.IsHolo:
		finish = "Holofoil"
	}
	name := ""
	if a.IsFirstEdition && !a.IsReverseHolo {
		name += "1stEdition"
	}
	if a.IsShadowless {
		name += "Shadowless"
	}
	name += finish
	if name[0] >= 'A' && name[0] <= 'Z' {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	return name
}

// SelectVariant resolves the printing variant. Only variants with price
// data are considered.
func SelectVariant(card domain.CatalogCard, a Attributes) (domain.PriceVariant, string, bool) {
	var priced []domain.PriceVariant
	for _, v := range card.Variants {
		if len(v.Prices) > 0 {
			priced = append(priced, v)
		}
	}
	if len(priced) == 0 {
		return domain.PriceVariant{}, "", false
	}

	// (a) exact combined name
	want := variantKey(CombinedVariant(a))
	for _, v := range priced {
		if variantKey(v.Name) == want {
			return v, ReasonExact, true
		}
	}

	// (b) relaxed 1st edition: best fit on finish and shadowless
	if a.IsFirstEdition {
		best, bestScore := -1, -1
		for i, v := range priced {
			if !isFirstEdition(v.Name) {
				continue
			}
			k := variantKey(v.Name)
			s := 0
			if strings.Contains(k, "holo") == (a.IsHolo || a.IsReverseHolo) {
				s += 2
			}
			if strings.Contains(k, "shadowless") == a.IsShadowless {
				s++
			}
			if s > bestScore {
				best, bestScore = i, s
			}
		}
		if best >= 0 {
			return priced[best], ReasonFirstEdition, true
		}
	}

	// (c) not 1st edition but both printings exist: use unlimited
	if !a.IsFirstEdition {
		var hasFirst bool
		var unlimited []domain.PriceVariant
		for _, v := range priced {
			switch {
			case isFirstEdition(v.Name):
				hasFirst = true
			case isUnlimited(v.Name):
				unlimited = append(unlimited, v)
			}
		}
		if hasFirst && len(unlimited) > 0 {
			for _, v := range unlimited {
				if strings.Contains(variantKey(v.Name), "holo") == a.IsHolo {
					return v, ReasonUnlimited, true
				}
			}
			return unlimited[0], ReasonUnlimited, true
		}
	}

	// (d) fixed preference order
	for _, name := range fallbackOrder {
		for _, v := range priced {
			if variantKey(v.Name) == variantKey(name) {
				return v, ReasonFallback, true
			}
		}
	}

	// (e) first priced, avoiding 1st edition unless it is all there is
	for _, v := range priced {
		if !isFirstEdition(v.Name) {
			return v, ReasonFirstPriced, true
		}
	}
	return priced[0], ReasonFirstPriced, true
}

// SelectBestPrice picks the variant and then the price point. Graded
// requests match company and grade exactly and never fall back to another
// company.
func SelectBestPrice(card domain.CatalogCard, a Attributes) (Selection, bool) {
	v, reason, ok := SelectVariant(card, a)
	if !ok {
		return Selection{}, false
	}
	var point domain.PricePoint
	if a.IsGraded {
		point, ok = gradedPoint(v.Prices, a.GradingCompany, a.Grade)
	} else {
		point, ok = rawPoint(v.Prices, a.Condition)
	}
	if !ok {
		return Selection{}, false
	}
	return Selection{Variant: v.Name, Point: point, Reason: reason}, true
}

func gradedPoint(points []domain.PricePoint, company, grade string) (domain.PricePoint, bool) {
	company = parser.CanonicalCompany(company)
	grade = normalizeGrade(grade)
	if company == "" || grade == "" {
		return domain.PricePoint{}, false
	}
	var matches []domain.PricePoint
	for _, p := range points {
		if p.Kind != domain.PriceKindGraded || p.Market <= 0 {
			continue
		}
		if parser.CanonicalCompany(p.Company) == company && normalizeGrade(p.Grade) == grade {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return domain.PricePoint{}, false
	}
	// Standard slabs before special sub-variants, then cheapest.
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].Special != "", matches[j].Special != ""
		if si != sj {
			return !si
		}
		return matches[i].Market < matches[j].Market
	})
	return matches[0], true
}

func rawPoint(points []domain.PricePoint, condition string) (domain.PricePoint, bool) {
	var raw []domain.PricePoint
	for _, p := range points {
		if p.Kind == domain.PriceKindRaw && p.Market > 0 {
			raw = append(raw, p)
		}
	}
	if len(raw) == 0 {
		return domain.PricePoint{}, false
	}
	for _, want := range []string{condition, "NM"} {
		if want == "" {
			continue
		}
		for _, p := range raw {
			if strings.EqualFold(p.Condition, want) {
				return p, true
			}
		}
	}
	return raw[0], true
}

func normalizeGrade(g string) string {
	g = strings.TrimSpace(g)
	if g == "" {
		return ""
	}
	f, err := strconv.ParseFloat(g, 64)
	if err != nil {
		return strings.ToUpper(g)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
