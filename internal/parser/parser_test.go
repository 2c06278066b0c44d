package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

func TestParse_GradedBaseSetCharizard(t *testing.T) {
	p := Parse("Charizard 4/102 PSA 10")

	assert.True(t, p.IsGraded)
	assert.Equal(t, "PSA", p.GradingCompany)
	assert.Equal(t, "10", p.Grade)
	assert.Equal(t, "4", p.CardNumber)
	assert.Equal(t, "4/102", p.PrintedNumber)
	assert.Equal(t, 102, p.Denominator)
	assert.Equal(t, "Charizard", p.CardName)
	assert.Empty(t, p.Condition, "condition is not extracted for graded cards")
}

func TestParse_PikachuVMAX(t *testing.T) {
	p := Parse("Pikachu VMAX 044/185 NM")

	assert.Equal(t, "VMAX", p.CardType)
	assert.Equal(t, "NM", p.Condition)
	assert.Equal(t, "044", p.CardNumber)
	assert.Equal(t, 185, p.Denominator)
	assert.Equal(t, "Pikachu VMAX", p.CardName)
	assert.Equal(t, domain.NameSourceSpecies, p.NameSource)
	assert.False(t, p.IsGraded)
}

func TestParse_Deterministic(t *testing.T) {
	titles := []string{
		"Charizard 4/102 PSA 10",
		"Umbreon VMAX 215/203 Evolving Skies Alt Art",
		"Pokémon Nidoran ♀ 57/64 Jungle",
		"Pokemon Card Bundle 50 cards",
	}
	for _, title := range titles {
		assert.Equal(t, Parse(title), Parse(title), title)
	}
}

func TestParse_Fake(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		family string
	}{
		{"explicit fake word", "Charizard Proxy Custom Card", "explicit_fake"},
		{"suspicious material", "Charizard Gold Metal Card", "suspicious_material"},
		{"made of metal", "Pikachu made of metal 24/102", "suspicious_material"},
		{"reprint copy", "Charizard 4/102 reprint copy", "explicit_fake"},
		{"looks real phrasing", "Charizard looks real shiny card", "looks_real"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.title)
			assert.True(t, p.IsFake)
			assert.Equal(t, 0, p.ConfidenceScore)
			assert.Contains(t, p.RejectReason, tt.family)
			assert.Empty(t, p.CardName, "no extraction after a fake signal")
			assert.True(t, p.Rejected())
		})
	}
}

func TestParse_Junk(t *testing.T) {
	p := Parse("Pokemon Card Bundle 50 cards")
	assert.True(t, p.IsJunk)
	assert.Equal(t, junkScore, p.ConfidenceScore)
	assert.Contains(t, p.RejectReason, "bulk_lot")

	p = Parse("Evolving Skies Booster Box Sealed")
	assert.True(t, p.IsJunk)
	assert.Contains(t, p.RejectReason, "sealed_product")
}

func TestParse_CardTypesAreNotFakes(t *testing.T) {
	for _, title := range []string{
		"Metal Energy 95/102 Base Set",
		"Steelix Metal 20/100",
		"Lucario Metal Saucer 170/196",
		"Charizard 4/102 Classic Collection reprint",
	} {
		t.Run(title, func(t *testing.T) {
			p := Parse(title)
			assert.False(t, p.IsFake)
			assert.Empty(t, p.RejectReason)
			assert.NotEmpty(t, p.CardNumber)
		})
	}
}

func TestParse_LVXIsNotABulkLot(t *testing.T) {
	tests := []struct {
		title  string
		number string
	}{
		{"Luxray LV.X 109/111", "109"},
		{"Garchomp LV.X 145/147 Supreme Victors", "145"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			p := Parse(tt.title)
			assert.False(t, p.IsJunk)
			assert.Equal(t, tt.number, p.CardNumber)
			assert.Equal(t, "LV.X", p.CardType)
		})
	}

	assert.True(t, Parse("Pokemon cards x50 mixed").IsJunk, "a bare quantity is still a lot")
}

func TestParse_JunkOverriddenByNumberAndGrading(t *testing.T) {
	p := Parse("Charizard 4/102 PSA 9 from my collection lot")

	assert.False(t, p.IsJunk)
	assert.True(t, p.IsGraded)
	assert.Equal(t, "4", p.CardNumber)
}

func TestParse_StandaloneSVIsNotACardNumber(t *testing.T) {
	p := Parse("Charizard ex SV75 Obsidian Flames")

	assert.Empty(t, p.CardNumber)
	assert.Equal(t, "Obsidian Flames", p.SetName)
}

func TestParse_Normalization(t *testing.T) {
	p := Parse("Pokémon Charzard 4/102 Base Set")

	assert.Equal(t, "Pokemon Charizard 4/102 Base Set", p.NormalizedTitle)
	assert.Equal(t, "Charizard", p.CardName)
}

func TestExtractNumber_Rules(t *testing.T) {
	tests := []struct {
		title  string
		rule   string
		number string
		denom  int
		subset string
		promo  string
	}{
		{"Charizard SV107/SV122 Shining Fates", "shiny_vault", "SV107", 122, "SV", ""},
		{"Umbreon VMAX TG23/TG30", "trainer_gallery", "TG23", 30, "TG", ""},
		{"Pikachu GG30/GG70", "galarian_gallery", "GG30", 70, "GG", ""},
		{"Gardevoir RC30/RC32", "radiant_collection", "RC30", 32, "RC", ""},
		{"Rayquaza H24/H32 Skyridge", "h_format", "H24", 32, "H", ""},
		{"Charizard TG03/30", "subset_numeric_total", "TG03", 30, "TG", ""},
		{"Charizard #4/102", "hash_total", "4", 102, "", ""},
		{"Unown 12a/100", "letter_suffix", "12a", 100, "", ""},
		{"Charizard 4 / 102 Base Set", "standard", "4", 102, "", ""},
		{"Pikachu SWSH050 promo", "promo_code", "SWSH050", 0, "", "SWSH"},
		{"Pikachu #TG05", "hash_subset", "TG05", 0, "TG", ""},
		{"Mewtwo #150", "bare_hash", "150", 0, "", ""},
		{"Mew No. 151", "number_word", "151", 0, "", ""},
		{"Lugia TG30 Silver Tempest", "subset_standalone", "TG30", 0, "TG", ""},
		{"Miraidon ex 081 Scarlet Violet", "padded_standalone", "081", 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			n, ok := extractNumber(normalize(tt.title))
			require.True(t, ok)
			assert.Equal(t, tt.rule, n.rule)
			assert.Equal(t, tt.number, n.number)
			assert.Equal(t, tt.denom, n.denominator)
			assert.Equal(t, tt.subset, n.subsetPrefix)
			assert.Equal(t, tt.promo, n.promoPrefix)
		})
	}
}

func TestNumberRules_CoverEveryFamily(t *testing.T) {
	assert.Len(t, numberRules, 15)
	seen := map[string]bool{}
	for _, r := range numberRules {
		assert.False(t, seen[r.name], "duplicate rule %s", r.name)
		seen[r.name] = true
	}
}

func TestExtractGrading(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		graded   bool
		company  string
		grade    string
		modifier string
	}{
		{"psa ten", "Pikachu PSA 10", true, "PSA", "10", ""},
		{"bgs half grade black label", "Charizard BGS 9.5 Black Label", true, "BGS", "9.5", "Black Label"},
		{"modifier before grade", "Umbreon CGC Pristine 10", true, "CGC", "10", "Pristine"},
		{"beckett alias", "Beckett 9 Blastoise", true, "BGS", "9", ""},
		{"trailing gem mint", "PSA 10 gem mint Charizard", true, "PSA", "10", "Gem Mint"},
		{"speculative grading", "Lugia PSA ready", false, "", "", ""},
		{"tag team is not a company", "Pikachu Tag Team", false, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := extractGrading(normalize(tt.title))
			assert.Equal(t, tt.graded, ok)
			assert.Equal(t, tt.company, g.company)
			assert.Equal(t, tt.grade, g.grade)
			assert.Equal(t, tt.modifier, g.modifier)
		})
	}
}

func TestParse_Variants(t *testing.T) {
	p := Parse("Charizard Reverse Holo")
	assert.True(t, p.IsReverseHolo)
	assert.False(t, p.IsHolo)

	p = Parse("Charizard Holo 1st Edition Shadowless 4/102")
	assert.True(t, p.IsHolo)
	assert.True(t, p.IsFirstEdition)
	assert.True(t, p.IsShadowless)

	p = Parse("Pikachu Non Holo")
	assert.False(t, p.IsHolo)

	p = Parse("Gold Star Rayquaza")
	assert.Equal(t, "Gold Star", p.CardType)
	assert.False(t, p.IsGold)

	p = Parse("Umbreon VMAX Alt Art 215/203")
	assert.True(t, p.IsAltArt)
	assert.Equal(t, "VMAX", p.CardType)
}

func TestParse_CardTypeCase(t *testing.T) {
	tests := []struct {
		title    string
		cardType string
	}{
		{"Charizard EX 12/106 Flashfire", "EX"},
		{"Blaziken ex 88/106 EX Emerald", "ex"},
		{"Charizard ex 199/165 151", "ex"},
		{"Mewtwo GX 39/73 Shining Legends", "GX"},
		{"Charizard VSTAR 018/172", "VSTAR"},
		{"Pikachu V 043/185", "V"},
		{"Luxray LV.X 109/111", "LV.X"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.cardType, Parse(tt.title).CardType)
		})
	}
}

func TestParse_SetName(t *testing.T) {
	tests := []struct {
		title   string
		setName string
	}{
		{"Charizard 4/102 Base Set", "Base Set"},
		{"Blastoise 2/130 Base Set 2", "Base Set 2"},
		{"Umbreon VMAX 215/203 Evolving Skies", "Evolving Skies"},
		{"Charizard ex 199/165 151", "151"},
		{"Zacian V GG01/GG70", "Crown Zenith"},
		{"Gardevoir RC30/RC32", "Generations"},
		{"Pikachu SWSH020 Promo", "SWSH Black Star Promos"},
		{"Blaziken ex 88/106 EX Emerald", "Emerald"},
		{"Dark Charizard 4/82 Team Rocket", "Team Rocket"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.setName, Parse(tt.title).SetName)
		})
	}
}

func TestParse_DeltaSpecies(t *testing.T) {
	p := Parse("Flygon δ Delta Species 92/101 Dragon Frontiers")
	assert.Equal(t, "Dragon Frontiers", p.SetName, "another set matched, so Delta Species is the variant")
	assert.True(t, p.IsDeltaSpecies)

	p = Parse("Kingdra (Delta Species) 10/110")
	assert.Empty(t, p.SetName, "parenthesized Delta Species is the variant")
	assert.True(t, p.IsDeltaSpecies)

	p = Parse("Latios 12/113 Delta Species Holo")
	assert.Equal(t, "Delta Species", p.SetName)
	assert.False(t, p.IsDeltaSpecies)
}

func TestParse_CelebrationsClassicCollection(t *testing.T) {
	p := Parse("Charizard 4/102 Celebrations Classic Collection")

	assert.Equal(t, "Celebrations", p.SetName)
	assert.Equal(t, "CC", p.SubsetPrefix)
}

func TestExtractCondition(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Near Mint", "NM"},
		{"lightly played", "LP"},
		{"Heavily Played", "HP"},
		{"moderately played", "MP"},
		{"Damaged crease", "DMG"},
		{"Pikachu HP", "HP"},
		{"Pikachu 120 HP", ""},
		{"Pikachu", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCondition(tt.text))
		})
	}
}

func TestNormalizeCondition(t *testing.T) {
	assert.Equal(t, "LP", NormalizeCondition("Lightly Played"))
	assert.Equal(t, "NM", NormalizeCondition("Near mint or better"))
	assert.Empty(t, NormalizeCondition("Ungraded"))
}

func TestParse_CardNameCascade(t *testing.T) {
	tests := []struct {
		title  string
		name   string
		source domain.NameSource
	}{
		{"Professor's Research Full Art 178/202", "Professor's Research", domain.NameSourceTrainer},
		{"Dark Charizard 4/82 Team Rocket", "Dark Charizard", domain.NameSourceTeam},
		{"Team Magma's Groudon 9/95", "Team Magma's Groudon", domain.NameSourceTeam},
		{"Alolan Vulpix GX 143/145", "Alolan Vulpix GX", domain.NameSourceRegional},
		{"Radiant Charizard 011/196 Pokemon GO", "Radiant Charizard", domain.NameSourceRegional},
		{"Nidoran ♀ 57/64 Jungle", "Nidoran ♀", domain.NameSourceSpecial},
		{"Porygon-Z 125/130", "Porygon-Z", domain.NameSourceSpecial},
		{"Porygon2 Neo Genesis", "Porygon2", domain.NameSourceSpecial},
		{"Pikachu & Zekrom GX 33/181 Team Up", "Pikachu & Zekrom GX", domain.NameSourceTagTeam},
		{"Charizard VMAX 020/189 Darkness Ablaze", "Charizard VMAX", domain.NameSourceSpecies},
		{"Marnie Full Art 200/202", "Marnie", domain.NameSourcePerson},
		{"Wugtrio ex 059/193 Paldea Evolved", "Wugtrio", domain.NameSourceFallback},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			p := Parse(tt.title)
			assert.Equal(t, tt.name, p.CardName)
			assert.Equal(t, tt.source, p.NameSource)
		})
	}
}

func TestParse_ConfidenceMonotone(t *testing.T) {
	titles := []string{
		"Charizard",
		"Charizard 4/102",
		"Charizard 4/102 Base Set",
		"Charizard 4/102 Base Set PSA 9",
	}
	want := []int{25, 65, 95, 100}

	prev := -1
	for i, title := range titles {
		p := Parse(title)
		assert.Equal(t, want[i], p.ConfidenceScore, title)
		assert.GreaterOrEqual(t, p.ConfidenceScore, prev, title)
		prev = p.ConfidenceScore
	}
}

func TestParse_VariantBonusCapped(t *testing.T) {
	p := Parse("Charizard Holo 1st Edition Shadowless")
	// name 25 + three variant signals capped at 10
	assert.Equal(t, 35, p.ConfidenceScore)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score int
		want  domain.ConfidenceLevel
	}{
		{0, domain.ConfidenceVeryLow},
		{24, domain.ConfidenceVeryLow},
		{25, domain.ConfidenceLow},
		{49, domain.ConfidenceLow},
		{50, domain.ConfidenceMedium},
		{74, domain.ConfidenceMedium},
		{75, domain.ConfidenceHigh},
		{100, domain.ConfidenceHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.score), "score %d", tt.score)
	}
}
