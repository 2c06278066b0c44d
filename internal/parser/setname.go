package parser

import "regexp"

// setPattern maps a title pattern to a canonical expansion name. A non-empty
// subset marks patterns that name a numbered subset of the release.
type setPattern struct {
	name    string
	subset  string
	pattern *regexp.Regexp
}

// era groups set patterns. Eras are evaluated newest first and, within an
// era, in table order; the first match wins.
type era struct {
	name string
	sets []setPattern
}

func sp(name, pattern string) setPattern {
	return setPattern{name: name, pattern: regexp.MustCompile(`(?i)` + pattern)}
}

func subsetSP(name, subset, pattern string) setPattern {
	return setPattern{name: name, subset: subset, pattern: regexp.MustCompile(`(?i)` + pattern)}
}

// deltaSpecies is both a variant ("δ Delta Species" Pokémon) and the name of
// an EX-era release.
const deltaSpecies = "Delta Species"

var (
	deltaSpeciesPattern      = regexp.MustCompile(`(?i)\bdelta\s?species\b`)
	deltaSpeciesParenPattern = regexp.MustCompile(`(?i)\(\s*(?:δ\s*)?delta\s?species\s*\)`)
)

var eraTable = []era{
	{name: "japanese", sets: []setPattern{
		sp("Shiny Treasure ex", `\bshiny\s?treasure\b`),
		sp("VMAX Climax", `\bvmax\s?climax\b`),
		sp("VSTAR Universe", `\bvstar\s?universe\b`),
		sp("Pokemon Card 151", `\bpokemon\s?card\s?151\b|\bsv2a\b`),
		sp("Terastal Festival ex", `\bterastal\s?festival\b`),
	}},
	{name: "scarlet_violet", sets: []setPattern{
		sp("Prismatic Evolutions", `\bprismatic\s?evolutions?\b`),
		sp("Surging Sparks", `\bsurging\s?sparks?\b`),
		sp("Stellar Crown", `\bstellar\s?crown\b`),
		sp("Shrouded Fable", `\bshrouded\s?fable\b`),
		sp("Twilight Masquerade", `\btwilight\s?masquerade\b`),
		sp("Temporal Forces", `\btemporal\s?forces?\b`),
		sp("Paldean Fates", `\bpaldean\s?fates\b`),
		sp("Paradox Rift", `\bparadox\s?rift\b`),
		sp("151", `\b151\b`),
		sp("Obsidian Flames", `\bobsidian\s?flames?\b`),
		sp("Paldea Evolved", `\bpaldea\s?evolved\b`),
		sp("Scarlet & Violet Black Star Promos", `\b(?:scarlet\s?(?:&|and)?\s?violet|sv)\s?(?:black\s?star\s?)?promos?\b`),
		sp("Scarlet & Violet", `\bscarlet\s?(?:&|and)?\s?violet\b(?:\s?base)?`),
	}},
	{name: "sword_shield", sets: []setPattern{
		sp("Crown Zenith", `\bcrown\s?zenith\b`),
		sp("Silver Tempest", `\bsilver\s?tempest\b`),
		sp("Lost Origin", `\blost\s?origin\b`),
		sp("Pokemon GO", `\bpokemon\s?go\b`),
		sp("Astral Radiance", `\bastral\s?radiance\b`),
		sp("Brilliant Stars", `\bbrilliant\s?stars\b`),
		sp("Fusion Strike", `\bfusion\s?strike\b`),
		subsetSP("Celebrations", "CC", `\bclassic\s?collection\b`),
		sp("Celebrations", `\bcelebrations?\b|\b25th\s?anniversary\b`),
		sp("Evolving Skies", `\bevolving\s?skies\b`),
		sp("Chilling Reign", `\bchilling\s?reign\b`),
		sp("Battle Styles", `\bbattle\s?styles?\b`),
		sp("Shining Fates", `\bshining\s?fates\b`),
		sp("Vivid Voltage", `\bvivid\s?voltage\b`),
		sp("Champion's Path", `\bchampion'?s?\s?path\b`),
		sp("Darkness Ablaze", `\bdarkness\s?ablaze\b`),
		sp("Rebel Clash", `\brebel\s?clash\b`),
		sp("SWSH Black Star Promos", `\b(?:swsh|sword\s?(?:&|and)?\s?shield)\s?(?:black\s?star\s?)?promos?\b`),
		sp("Sword & Shield", `\bsword\s?(?:&|and)?\s?shield\b(?:\s?base)?`),
	}},
	{name: "sun_moon", sets: []setPattern{
		sp("Cosmic Eclipse", `\bcosmic\s?eclipse\b`),
		sp("Hidden Fates", `\bhidden\s?fates\b`),
		sp("Unified Minds", `\bunified\s?minds\b`),
		sp("Unbroken Bonds", `\bunbroken\s?bonds\b`),
		sp("Detective Pikachu", `\bdetective\s?pikachu\b`),
		sp("Team Up", `\bteam\s?up\b`),
		sp("Lost Thunder", `\blost\s?thunder\b`),
		sp("Dragon Majesty", `\bdragon\s?majesty\b`),
		sp("Celestial Storm", `\bcelestial\s?storm\b`),
		sp("Forbidden Light", `\bforbidden\s?light\b`),
		sp("Ultra Prism", `\bultra\s?prism\b`),
		sp("Crimson Invasion", `\bcrimson\s?invasion\b`),
		sp("Shining Legends", `\bshining\s?legends\b`),
		sp("Burning Shadows", `\bburning\s?shadows\b`),
		sp("Guardians Rising", `\bguardians\s?rising\b`),
		sp("SM Black Star Promos", `\b(?:sm|sun\s?(?:&|and)?\s?moon)\s?(?:black\s?star\s?)?promos?\b`),
		sp("Sun & Moon", `\bsun\s?(?:&|and)?\s?moon\b(?:\s?base)?`),
	}},
	{name: "xy", sets: []setPattern{
		sp("Evolutions", `\bevolutions\b`),
		sp("Steam Siege", `\bsteam\s?siege\b`),
		sp("Fates Collide", `\bfates\s?collide\b`),
		sp("Generations", `\bgenerations\b`),
		sp("BREAKpoint", `\bbreak\s?point\b`),
		sp("BREAKthrough", `\bbreak\s?through\b`),
		sp("Ancient Origins", `\bancient\s?origins\b`),
		sp("Roaring Skies", `\broaring\s?skies\b`),
		sp("Double Crisis", `\bdouble\s?crisis\b`),
		sp("Primal Clash", `\bprimal\s?clash\b`),
		sp("Phantom Forces", `\bphantom\s?forces\b`),
		sp("Furious Fists", `\bfurious\s?fists\b`),
		sp("Flashfire", `\bflash\s?fire\b`),
		sp("XY Black Star Promos", `\bxy\s?(?:black\s?star\s?)?promos?\b`),
		sp("XY", `\bXY\b(?:\s?base)?`),
	}},
	{name: "black_white", sets: []setPattern{
		sp("Legendary Treasures", `\blegendary\s?treasures\b`),
		sp("Plasma Blast", `\bplasma\s?blast\b`),
		sp("Plasma Freeze", `\bplasma\s?freeze\b`),
		sp("Plasma Storm", `\bplasma\s?storm\b`),
		sp("Boundaries Crossed", `\bboundaries\s?crossed\b`),
		sp("Dragon Vault", `\bdragon\s?vault\b`),
		sp("Dragons Exalted", `\bdragons\s?exalted\b`),
		sp("Dark Explorers", `\bdark\s?explorers\b`),
		sp("Next Destinies", `\bnext\s?destinies\b`),
		sp("Noble Victories", `\bnoble\s?victories\b`),
		sp("Emerging Powers", `\bemerging\s?powers\b`),
		sp("BW Black Star Promos", `\bbw\s?(?:black\s?star\s?)?promos?\b`),
		sp("Black & White", `\bblack\s?(?:&|and)?\s?white\b(?:\s?base)?`),
	}},
	{name: "heartgold_soulsilver", sets: []setPattern{
		sp("Call of Legends", `\bcall\s?of\s?legends\b`),
		sp("HS Triumphant", `\btriumphant\b`),
		sp("HS Undaunted", `\bundaunted\b`),
		sp("HS Unleashed", `\bunleashed\b`),
		sp("HGSS Black Star Promos", `\bhgss\s?(?:black\s?star\s?)?promos?\b`),
		sp("HeartGold & SoulSilver", `\bheart\s?gold\b|\bhgss\b`),
	}},
	{name: "diamond_pearl", sets: []setPattern{
		sp("Arceus", `\b(?:platinum\s)?arceus\s(?:set|expansion)\b|\bPL\sArceus\b`),
		sp("Supreme Victors", `\bsupreme\s?victors\b`),
		sp("Rising Rivals", `\brising\s?rivals\b`),
		sp("Platinum", `\bplatinum\b`),
		sp("Stormfront", `\bstorm\s?front\b`),
		sp("Legends Awakened", `\blegends\s?awakened\b`),
		sp("Majestic Dawn", `\bmajestic\s?dawn\b`),
		sp("Great Encounters", `\bgreat\s?encounters\b`),
		sp("Secret Wonders", `\bsecret\s?wonders\b`),
		sp("Mysterious Treasures", `\bmysterious\s?treasures\b`),
		sp("DP Black Star Promos", `\bdp\s?(?:black\s?star\s?)?promos?\b`),
		sp("Diamond & Pearl", `\bdiamond\s?(?:&|and)?\s?pearl\b`),
	}},
	{name: "ex", sets: []setPattern{
		sp("Power Keepers", `\bpower\s?keepers\b`),
		sp("Dragon Frontiers", `\bdragon\s?frontiers\b`),
		sp("Crystal Guardians", `\bcrystal\s?guardians\b`),
		sp("Holon Phantoms", `\bholon\s?phantoms\b`),
		sp("Legend Maker", `\blegend\s?maker\b`),
		sp("Unseen Forces", `\bunseen\s?forces\b`),
		sp("Emerald", `\b(?:ex\s?)?emerald\b`),
		sp("Deoxys", `\bex\s?deoxys\b`),
		sp("Team Rocket Returns", `\bteam\s?rocket\s?returns\b`),
		sp("FireRed & LeafGreen", `\bfire\s?red\b|\bleaf\s?green\b`),
		sp("Hidden Legends", `\bhidden\s?legends\b`),
		sp("Team Magma vs Team Aqua", `\bteam\s?magma\s?(?:vs\.?|&|and)\s?team\s?aqua\b`),
		sp("Dragon", `\bex\s?dragon\b`),
		sp("Sandstorm", `\bsand\s?storm\b`),
		sp("Ruby & Sapphire", `\bruby\s?(?:&|and)?\s?sapphire\b`),
	}},
	{name: "e_card", sets: []setPattern{
		sp("Skyridge", `\bsky\s?ridge\b`),
		sp("Aquapolis", `\baquapolis\b`),
		sp("Expedition Base Set", `\bexpedition\b`),
	}},
	{name: "neo", sets: []setPattern{
		sp("Neo Destiny", `\bneo\s?destiny\b`),
		sp("Neo Revelation", `\bneo\s?revelation\b`),
		sp("Neo Discovery", `\bneo\s?discovery\b`),
		sp("Neo Genesis", `\bneo\s?genesis\b`),
	}},
	{name: "wotc", sets: []setPattern{
		sp("Gym Challenge", `\bgym\s?challenge\b`),
		sp("Gym Heroes", `\bgym\s?heroes\b`),
		sp("Team Rocket", `\bteam\s?rocket(?:\s|$|\))`),
		sp("Base Set 2", `\bbase\s?set\s?2\b|\bbase\s?2\b`),
		sp("Wizards Black Star Promos", `\bwizards?\s?(?:black\s?star\s?)?promos?\b|\bwotc\s?promos?\b`),
		sp("Fossil", `\bfossil\b`),
		sp("Jungle", `\bjungle\b`),
		sp("Base Set", `\bbase\s?set\b|\bbase\b`),
	}},
}

// promoSets maps a promo-code prefix to its promo release.
var promoSets = map[string]string{
	"SWSH": "SWSH Black Star Promos",
	"SVP":  "Scarlet & Violet Black Star Promos",
	"SM":   "SM Black Star Promos",
	"XY":   "XY Black Star Promos",
	"BW":   "BW Black Star Promos",
	"DP":   "DP Black Star Promos",
	"HGSS": "HGSS Black Star Promos",
	"NP":   "Nintendo Black Star Promos",
}

// subsetSets maps subset prefixes that always identify one release.
var subsetSets = map[string]string{
	"GG": "Crown Zenith",
	"RC": "Generations",
}

type setMatch struct {
	name   string
	subset string
	era    string
	delta  bool
}

// findEraSet returns the first era table match, skipping the Delta Species
// pattern, which is resolved separately.
func findEraSet(s string) (setMatch, bool) {
	for _, e := range eraTable {
		for _, p := range e.sets {
			if p.pattern.MatchString(s) {
				return setMatch{name: p.name, subset: p.subset, era: e.name}, true
			}
		}
	}
	return setMatch{}, false
}

// extractSet resolves the set name. Promo prefixes route first, then
// GG/RC subset overrides, then the era table. "Delta Species" is a variant
// when parenthesized or when another set also matches; otherwise it names
// the EX release.
func extractSet(s string, num cardNumber, hasNumber bool) setMatch {
	hasDelta := deltaSpeciesPattern.MatchString(s)
	deltaAsVariant := hasDelta && deltaSpeciesParenPattern.MatchString(s)

	if hasNumber && num.promoPrefix != "" {
		if name, ok := promoSets[num.promoPrefix]; ok {
			return setMatch{name: name, era: "promo", delta: hasDelta}
		}
	}
	if hasNumber {
		if name, ok := subsetSets[num.subsetPrefix]; ok {
			return setMatch{name: name, era: "subset", delta: hasDelta}
		}
	}

	rest := deltaSpeciesPattern.ReplaceAllString(s, " ")
	if m, ok := findEraSet(rest); ok {
		m.delta = hasDelta
		return m
	}
	if hasDelta && !deltaAsVariant {
		return setMatch{name: deltaSpecies, era: "ex"}
	}
	return setMatch{delta: hasDelta}
}
