package expansion

import (
	"time"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

func exp(id, name, series, code string, total int, released string, aliases ...string) domain.Expansion {
	return domain.Expansion{
		ID:           id,
		Name:         name,
		Series:       series,
		Code:         code,
		PrintedTotal: total,
		LanguageCode: "en",
		ReleaseDate:  mustDate(released),
		Aliases:      aliases,
	}
}

func jp(id, name string, total int, released string, aliases ...string) domain.Expansion {
	e := exp(id, name, "Japanese", "", total, released, aliases...)
	e.LanguageCode = "ja"
	return e
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("expansion: bad release date " + s)
	}
	return t
}

// Builtin is the static expansion table. IDs follow the catalog's own
// scheme; Reconcile remaps any that drift.
var Builtin = []domain.Expansion{
	exp("base1", "Base Set", "Base", "BS", 102, "1999-01-09", "base", "base unlimited"),
	exp("base2", "Jungle", "Base", "JU", 64, "1999-06-16"),
	exp("basep", "Wizards Black Star Promos", "Base", "PR", 53, "1999-07-01", "wotc promos", "wizards promo"),
	exp("base3", "Fossil", "Base", "FO", 62, "1999-10-10"),
	exp("base4", "Base Set 2", "Base", "B2", 130, "2000-02-24", "base 2"),
	exp("base5", "Team Rocket", "Base", "TR", 82, "2000-04-24"),
	exp("gym1", "Gym Heroes", "Gym", "G1", 132, "2000-08-14"),
	exp("gym2", "Gym Challenge", "Gym", "G2", 132, "2000-10-16"),
	exp("neo1", "Neo Genesis", "Neo", "N1", 111, "2000-12-16"),
	exp("neo2", "Neo Discovery", "Neo", "N2", 75, "2001-06-01"),
	exp("neo3", "Neo Revelation", "Neo", "N3", 64, "2001-09-21"),
	exp("neo4", "Neo Destiny", "Neo", "N4", 105, "2002-02-28"),
	exp("ecard1", "Expedition Base Set", "E-Card", "EX", 165, "2002-09-15", "expedition"),
	exp("ecard2", "Aquapolis", "E-Card", "AQ", 147, "2003-01-15"),
	exp("ecard3", "Skyridge", "E-Card", "SK", 144, "2003-05-12"),

	exp("ex1", "Ruby & Sapphire", "EX", "RS", 109, "2003-06-18", "ex ruby sapphire"),
	exp("ex2", "Sandstorm", "EX", "SS", 100, "2003-09-18", "ex sandstorm"),
	exp("ex3", "Dragon", "EX", "DR", 97, "2003-11-24", "ex dragon"),
	exp("ex4", "Team Magma vs Team Aqua", "EX", "MA", 95, "2004-03-15", "team magma team aqua"),
	exp("ex5", "Hidden Legends", "EX", "HL", 101, "2004-06-14"),
	exp("ex6", "FireRed & LeafGreen", "EX", "RG", 112, "2004-08-30", "firered leafgreen"),
	exp("ex7", "Team Rocket Returns", "EX", "TRR", 109, "2004-11-08"),
	exp("ex8", "Deoxys", "EX", "DX", 107, "2005-02-14", "ex deoxys"),
	exp("ex9", "Emerald", "EX", "EM", 106, "2005-05-01", "ex emerald"),
	exp("ex10", "Unseen Forces", "EX", "UF", 115, "2005-08-22"),
	exp("ex11", "Delta Species", "EX", "DS", 113, "2005-10-31", "ex delta species"),
	exp("ex12", "Legend Maker", "EX", "LM", 92, "2006-02-13"),
	exp("ex13", "Holon Phantoms", "EX", "HP", 110, "2006-05-03"),
	exp("ex14", "Crystal Guardians", "EX", "CG", 100, "2006-08-30"),
	exp("ex15", "Dragon Frontiers", "EX", "DF", 101, "2006-11-08"),
	exp("ex16", "Power Keepers", "EX", "PK", 108, "2007-02-14"),

	exp("dp1", "Diamond & Pearl", "Diamond & Pearl", "DP", 130, "2007-05-23"),
	exp("dpp", "DP Black Star Promos", "Diamond & Pearl", "PR-DPP", 56, "2007-05-01"),
	exp("dp2", "Mysterious Treasures", "Diamond & Pearl", "MT", 123, "2007-08-22"),
	exp("dp3", "Secret Wonders", "Diamond & Pearl", "SW", 132, "2007-11-07"),
	exp("dp4", "Great Encounters", "Diamond & Pearl", "GE", 106, "2008-02-13"),
	exp("dp5", "Majestic Dawn", "Diamond & Pearl", "MD", 100, "2008-05-21"),
	exp("dp6", "Legends Awakened", "Diamond & Pearl", "LA", 146, "2008-08-20"),
	exp("dp7", "Stormfront", "Diamond & Pearl", "SF", 100, "2008-11-05"),
	exp("pl1", "Platinum", "Platinum", "PL", 127, "2009-02-11"),
	exp("pl2", "Rising Rivals", "Platinum", "RR", 111, "2009-05-16"),
	exp("pl3", "Supreme Victors", "Platinum", "SV", 147, "2009-08-19"),
	exp("pl4", "Arceus", "Platinum", "AR", 99, "2009-11-04"),

	exp("hgss1", "HeartGold & SoulSilver", "HeartGold & SoulSilver", "HS", 123, "2010-02-10", "hgss"),
	exp("hsp", "HGSS Black Star Promos", "HeartGold & SoulSilver", "PR-HS", 25, "2010-02-10"),
	exp("hgss2", "HS Unleashed", "HeartGold & SoulSilver", "UL", 95, "2010-05-12", "HS—Unleashed", "unleashed"),
	exp("hgss3", "HS Undaunted", "HeartGold & SoulSilver", "UD", 90, "2010-08-18", "HS—Undaunted", "undaunted"),
	exp("hgss4", "HS Triumphant", "HeartGold & SoulSilver", "TM", 102, "2010-11-03", "HS—Triumphant", "triumphant"),
	exp("col1", "Call of Legends", "HeartGold & SoulSilver", "CL", 95, "2011-02-09"),

	exp("bwp", "BW Black Star Promos", "Black & White", "PR-BLW", 101, "2011-03-01"),
	exp("bw1", "Black & White", "Black & White", "BLW", 114, "2011-04-25"),
	exp("bw2", "Emerging Powers", "Black & White", "EPO", 98, "2011-08-31"),
	exp("bw3", "Noble Victories", "Black & White", "NVI", 101, "2011-11-16"),
	exp("bw4", "Next Destinies", "Black & White", "NXD", 99, "2012-02-08"),
	exp("bw5", "Dark Explorers", "Black & White", "DEX", 108, "2012-05-09"),
	exp("bw6", "Dragons Exalted", "Black & White", "DRX", 124, "2012-08-15"),
	exp("dv1", "Dragon Vault", "Black & White", "DRV", 20, "2012-10-05"),
	exp("bw7", "Boundaries Crossed", "Black & White", "BCR", 149, "2012-11-07"),
	exp("bw8", "Plasma Storm", "Black & White", "PLS", 135, "2013-02-06"),
	exp("bw9", "Plasma Freeze", "Black & White", "PLF", 116, "2013-05-08"),
	exp("bw10", "Plasma Blast", "Black & White", "PLB", 101, "2013-08-14"),
	exp("bw11", "Legendary Treasures", "Black & White", "LTR", 113, "2013-11-06"),

	exp("xyp", "XY Black Star Promos", "XY", "PR-XY", 211, "2013-10-12"),
	exp("xy1", "XY", "XY", "XY", 146, "2014-02-05", "xy base"),
	exp("xy2", "Flashfire", "XY", "FLF", 106, "2014-05-07"),
	exp("xy3", "Furious Fists", "XY", "FFI", 111, "2014-08-13"),
	exp("xy4", "Phantom Forces", "XY", "PHF", 119, "2014-11-05"),
	exp("xy5", "Primal Clash", "XY", "PRC", 160, "2015-02-04"),
	exp("dc1", "Double Crisis", "XY", "DCR", 34, "2015-03-25"),
	exp("xy6", "Roaring Skies", "XY", "ROS", 108, "2015-05-06"),
	exp("xy7", "Ancient Origins", "XY", "AOR", 98, "2015-08-12"),
	exp("xy8", "BREAKthrough", "XY", "BKT", 162, "2015-11-04"),
	exp("xy9", "BREAKpoint", "XY", "BKP", 122, "2016-02-03"),
	exp("g1", "Generations", "XY", "GEN", 83, "2016-02-22", "radiant collection"),
	exp("xy10", "Fates Collide", "XY", "FCO", 124, "2016-05-02"),
	exp("xy11", "Steam Siege", "XY", "STS", 114, "2016-08-03"),
	exp("xy12", "Evolutions", "XY", "EVO", 108, "2016-11-02", "xy evolutions"),

	exp("smp", "SM Black Star Promos", "Sun & Moon", "PR-SM", 248, "2016-11-16"),
	exp("sm1", "Sun & Moon", "Sun & Moon", "SUM", 149, "2017-02-03", "sun moon base"),
	exp("sm2", "Guardians Rising", "Sun & Moon", "GRI", 145, "2017-05-05"),
	exp("sm3", "Burning Shadows", "Sun & Moon", "BUS", 147, "2017-08-05"),
	exp("sm35", "Shining Legends", "Sun & Moon", "SLG", 73, "2017-10-06"),
	exp("sm4", "Crimson Invasion", "Sun & Moon", "CIN", 111, "2017-11-03"),
	exp("sm5", "Ultra Prism", "Sun & Moon", "UPR", 156, "2018-02-02"),
	exp("sm6", "Forbidden Light", "Sun & Moon", "FLI", 131, "2018-05-04"),
	exp("sm7", "Celestial Storm", "Sun & Moon", "CES", 168, "2018-08-03"),
	exp("sm75", "Dragon Majesty", "Sun & Moon", "DRM", 70, "2018-09-07"),
	exp("sm8", "Lost Thunder", "Sun & Moon", "LOT", 214, "2018-11-02"),
	exp("sm9", "Team Up", "Sun & Moon", "TEU", 181, "2019-02-01"),
	exp("det1", "Detective Pikachu", "Sun & Moon", "DET", 18, "2019-03-29"),
	exp("sm10", "Unbroken Bonds", "Sun & Moon", "UNB", 214, "2019-05-03"),
	exp("sm11", "Unified Minds", "Sun & Moon", "UNM", 236, "2019-08-02"),
	exp("sm115", "Hidden Fates", "Sun & Moon", "HIF", 68, "2019-08-23"),
	exp("sma", "Hidden Fates Shiny Vault", "Sun & Moon", "HIF", 94, "2019-08-23", "shiny vault"),
	exp("sm12", "Cosmic Eclipse", "Sun & Moon", "CEC", 236, "2019-11-01"),

	exp("swshp", "SWSH Black Star Promos", "Sword & Shield", "PR-SW", 307, "2019-11-15"),
	exp("swsh1", "Sword & Shield", "Sword & Shield", "SSH", 202, "2020-02-07", "sword shield base"),
	exp("swsh2", "Rebel Clash", "Sword & Shield", "RCL", 192, "2020-05-01"),
	exp("swsh3", "Darkness Ablaze", "Sword & Shield", "DAA", 189, "2020-08-14"),
	exp("swsh35", "Champion's Path", "Sword & Shield", "CPA", 73, "2020-09-25", "champions path"),
	exp("swsh4", "Vivid Voltage", "Sword & Shield", "VIV", 185, "2020-11-13"),
	exp("swsh45", "Shining Fates", "Sword & Shield", "SHF", 72, "2021-02-19"),
	exp("swsh45sv", "Shining Fates Shiny Vault", "Sword & Shield", "SHF", 122, "2021-02-19"),
	exp("swsh5", "Battle Styles", "Sword & Shield", "BST", 163, "2021-03-19"),
	exp("swsh6", "Chilling Reign", "Sword & Shield", "CRE", 198, "2021-06-18"),
	exp("swsh7", "Evolving Skies", "Sword & Shield", "EVS", 203, "2021-08-27"),
	exp("cel25", "Celebrations", "Sword & Shield", "CEL", 25, "2021-10-08", "25th anniversary"),
	exp("cel25c", "Celebrations: Classic Collection", "Sword & Shield", "CEL", 25, "2021-10-08", "classic collection"),
	exp("swsh8", "Fusion Strike", "Sword & Shield", "FST", 264, "2021-11-12"),
	exp("swsh9", "Brilliant Stars", "Sword & Shield", "BRS", 172, "2022-02-25"),
	exp("swsh9tg", "Brilliant Stars Trainer Gallery", "Sword & Shield", "BRS", 30, "2022-02-25"),
	exp("swsh10", "Astral Radiance", "Sword & Shield", "ASR", 189, "2022-05-27"),
	exp("swsh10tg", "Astral Radiance Trainer Gallery", "Sword & Shield", "ASR", 30, "2022-05-27"),
	exp("pgo", "Pokemon GO", "Sword & Shield", "PGO", 78, "2022-07-01", "Pokémon GO"),
	exp("swsh11", "Lost Origin", "Sword & Shield", "LOR", 196, "2022-09-09"),
	exp("swsh11tg", "Lost Origin Trainer Gallery", "Sword & Shield", "LOR", 30, "2022-09-09"),
	exp("swsh12", "Silver Tempest", "Sword & Shield", "SIT", 195, "2022-11-11"),
	exp("swsh12tg", "Silver Tempest Trainer Gallery", "Sword & Shield", "SIT", 30, "2022-11-11"),
	exp("swsh12pt5", "Crown Zenith", "Sword & Shield", "CRZ", 159, "2023-01-20"),
	exp("swsh12pt5gg", "Crown Zenith Galarian Gallery", "Sword & Shield", "CRZ", 70, "2023-01-20", "galarian gallery"),

	exp("svp", "Scarlet & Violet Black Star Promos", "Scarlet & Violet", "PR-SV", 200, "2023-01-01", "sv promos"),
	exp("sv1", "Scarlet & Violet", "Scarlet & Violet", "SVI", 198, "2023-03-31", "scarlet violet base"),
	exp("sv2", "Paldea Evolved", "Scarlet & Violet", "PAL", 193, "2023-06-09"),
	exp("sv3", "Obsidian Flames", "Scarlet & Violet", "OBF", 197, "2023-08-11"),
	exp("sv3pt5", "151", "Scarlet & Violet", "MEW", 165, "2023-09-22", "pokemon 151", "scarlet violet 151"),
	exp("sv4", "Paradox Rift", "Scarlet & Violet", "PAR", 182, "2023-11-03"),
	exp("sv4pt5", "Paldean Fates", "Scarlet & Violet", "PAF", 91, "2024-01-26"),
	exp("sv5", "Temporal Forces", "Scarlet & Violet", "TEF", 162, "2024-03-22"),
	exp("sv6", "Twilight Masquerade", "Scarlet & Violet", "TWM", 167, "2024-05-24"),
	exp("sv6pt5", "Shrouded Fable", "Scarlet & Violet", "SFA", 64, "2024-08-02"),
	exp("sv7", "Stellar Crown", "Scarlet & Violet", "SCR", 142, "2024-09-13"),
	exp("sv8", "Surging Sparks", "Scarlet & Violet", "SSP", 191, "2024-11-08"),
	exp("sv8pt5", "Prismatic Evolutions", "Scarlet & Violet", "PRE", 131, "2025-01-17"),

	exp("np", "Nintendo Black Star Promos", "NP", "PR-NP", 40, "2003-10-01"),

	jp("s8b", "VMAX Climax", 184, "2021-12-03"),
	jp("s12a", "VSTAR Universe", 172, "2022-12-02"),
	jp("sv2a", "Pokemon Card 151", 165, "2023-06-16", "japanese 151"),
	jp("sv4a", "Shiny Treasure ex", 190, "2023-12-01"),
	jp("sv8a", "Terastal Festival ex", 187, "2024-12-06"),
}

// promoExpansions routes promo-code prefixes to promo releases.
var promoExpansions = map[string]string{
	"SWSH": "swshp",
	"SVP":  "svp",
	"SM":   "smp",
	"XY":   "xyp",
	"BW":   "bwp",
	"DP":   "dpp",
	"HGSS": "hsp",
	"NP":   "np",
}

type subsetKey struct {
	parent string
	prefix string
}

// subsetExpansions maps (parent release, numbering prefix) to the separate
// catalog expansion that holds the subset.
var subsetExpansions = map[subsetKey]string{
	{"sm115", "SV"}:     "sma",
	{"swsh45", "SV"}:    "swsh45sv",
	{"swsh12pt5", "GG"}: "swsh12pt5gg",
	{"swsh9", "TG"}:     "swsh9tg",
	{"swsh10", "TG"}:    "swsh10tg",
	{"swsh11", "TG"}:    "swsh11tg",
	{"swsh12", "TG"}:    "swsh12tg",
	{"cel25", "CC"}:     "cel25c",
}
