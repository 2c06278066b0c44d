package domain

// ConfidenceLevel buckets a parse confidence score into ordinal levels.
type ConfidenceLevel string

const (
	ConfidenceVeryLow ConfidenceLevel = "very_low"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceHigh    ConfidenceLevel = "high"
)

// NameSource records which cascade tier produced the card name.
type NameSource string

const (
	NameSourceNone     NameSource = ""
	NameSourceTrainer  NameSource = "trainer_card"
	NameSourceTeam     NameSource = "team"
	NameSourceRegional NameSource = "regional"
	NameSourceSpecial  NameSource = "special"
	NameSourceTagTeam  NameSource = "tag_team"
	NameSourceSpecies  NameSource = "species"
	NameSourcePerson   NameSource = "trainer_name"
	NameSourceFallback NameSource = "fallback"
)

// Known reports whether the name came from a curated list rather than the
// generic fallback.
func (s NameSource) Known() bool {
	return s != NameSourceNone && s != NameSourceFallback
}

// ParsedTitle is the structured reading of a listing title. It is a value
// type: produced once per title and never mutated afterwards.
type ParsedTitle struct {
	OriginalTitle   string `json:"original_title"`
	NormalizedTitle string `json:"normalized_title"`

	CardName   string     `json:"card_name,omitempty"`
	NameSource NameSource `json:"name_source,omitempty"`

	// CardNumber is the numerator as printed (e.g. "044", "TG05").
	CardNumber string `json:"card_number,omitempty"`
	// PrintedNumber is the full printed form (e.g. "4/102").
	PrintedNumber string `json:"printed_number,omitempty"`
	// Denominator is the printed set total, zero when none was stated.
	Denominator  int    `json:"denominator,omitempty"`
	SubsetPrefix string `json:"subset_prefix,omitempty"`
	PromoPrefix  string `json:"promo_prefix,omitempty"`
	NumberRule   string `json:"number_rule,omitempty"`

	SetName string `json:"set_name,omitempty"`

	IsGraded       bool   `json:"is_graded"`
	GradingCompany string `json:"grading_company,omitempty"`
	Grade          string `json:"grade,omitempty"`
	GradeModifier  string `json:"grade_modifier,omitempty"`

	IsHolo         bool `json:"is_holo"`
	IsReverseHolo  bool `json:"is_reverse_holo"`
	IsFirstEdition bool `json:"is_first_edition"`
	IsShadowless   bool `json:"is_shadowless"`
	IsFullArt      bool `json:"is_full_art"`
	IsAltArt       bool `json:"is_alt_art"`
	IsSecret       bool `json:"is_secret"`
	IsRainbow      bool `json:"is_rainbow"`
	IsGold         bool `json:"is_gold"`
	IsPromo        bool `json:"is_promo"`
	IsDeltaSpecies bool `json:"is_delta_species"`

	CardType     string `json:"card_type,omitempty"`
	Condition    string `json:"condition,omitempty"`
	LanguageCode string `json:"language_code"`

	IsFake       bool   `json:"is_fake"`
	IsJunk       bool   `json:"is_junk"`
	RejectReason string `json:"reject_reason,omitempty"`

	ConfidenceScore int             `json:"confidence_score"`
	Confidence      ConfidenceLevel `json:"confidence"`
}

// Rejected reports whether the parser classified the title as fake or junk.
func (p ParsedTitle) Rejected() bool {
	return p.IsFake || p.IsJunk
}

// VariantSignals counts the variant-style attributes detected in the title.
func (p ParsedTitle) VariantSignals() int {
	n := 0
	for _, b := range []bool{
		p.IsHolo, p.IsReverseHolo, p.IsFirstEdition, p.IsShadowless,
		p.IsFullArt, p.IsAltArt, p.IsSecret, p.IsRainbow, p.IsGold, p.IsPromo,
	} {
		if b {
			n++
		}
	}
	if p.CardType != "" {
		n++
	}
	return n
}
