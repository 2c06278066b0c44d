package parser

import "strings"

// speciesNames is the generic species list. Multi-word and punctuated names
// are matched as written; ordering is irrelevant because the compiled
// pattern sorts longest first.
var speciesNames = splitNames(`
Bulbasaur|Ivysaur|Venusaur|Charmander|Charmeleon|Charizard|Squirtle|Wartortle|Blastoise|Caterpie|
Metapod|Butterfree|Weedle|Kakuna|Beedrill|Pidgey|Pidgeotto|Pidgeot|Rattata|Raticate|Spearow|Fearow|
Ekans|Arbok|Pikachu|Raichu|Sandshrew|Sandslash|Nidorina|Nidoqueen|Nidorino|Nidoking|Clefairy|
Clefable|Vulpix|Ninetales|Jigglypuff|Wigglytuff|Zubat|Golbat|Oddish|Gloom|Vileplume|Paras|Parasect|
Venonat|Venomoth|Diglett|Dugtrio|Meowth|Persian|Psyduck|Golduck|Mankey|Primeape|Growlithe|Arcanine|
Poliwag|Poliwhirl|Poliwrath|Abra|Kadabra|Alakazam|Machop|Machoke|Machamp|Bellsprout|Weepinbell|
Victreebel|Tentacool|Tentacruel|Geodude|Graveler|Golem|Ponyta|Rapidash|Slowpoke|Slowbro|Magnemite|
Magneton|Farfetch'd|Doduo|Dodrio|Seel|Dewgong|Grimer|Muk|Shellder|Cloyster|Gastly|Haunter|Gengar|
Onix|Drowzee|Hypno|Krabby|Kingler|Voltorb|Electrode|Exeggcute|Exeggutor|Cubone|Marowak|Hitmonlee|
Hitmonchan|Lickitung|Koffing|Weezing|Rhyhorn|Rhydon|Chansey|Tangela|Kangaskhan|Horsea|Seadra|
Goldeen|Seaking|Staryu|Starmie|Mr. Mime|Scyther|Jynx|Electabuzz|Magmar|Pinsir|Tauros|Magikarp|
Gyarados|Lapras|Ditto|Eevee|Vaporeon|Jolteon|Flareon|Omanyte|Omastar|Kabuto|Kabutops|
Aerodactyl|Snorlax|Articuno|Zapdos|Moltres|Dratini|Dragonair|Dragonite|Mewtwo|Mew|
Chikorita|Bayleef|Meganium|Cyndaquil|Quilava|Typhlosion|Totodile|Croconaw|Feraligatr|Pichu|Cleffa|
Igglybuff|Togepi|Togetic|Togekiss|Natu|Xatu|Mareep|Flaaffy|Ampharos|Marill|Azumarill|Sudowoodo|
Politoed|Espeon|Umbreon|Murkrow|Slowking|Misdreavus|Unown|Wobbuffet|Girafarig|Steelix|Snubbull|
Scizor|Heracross|Sneasel|Teddiursa|Ursaring|Magcargo|Delibird|Skarmory|Houndour|Houndoom|Kingdra|
Phanpy|Donphan|Porygon|Smeargle|Elekid|Magby|Miltank|Blissey|Raikou|Entei|Suicune|Larvitar|Pupitar|
Tyranitar|Lugia|Ho-Oh|Celebi|
Treecko|Grovyle|Sceptile|Torchic|Combusken|Blaziken|Mudkip|Marshtomp|Swampert|Ralts|Kirlia|
Gardevoir|Gallade|Shedinja|Sableye|Mawile|Aggron|Medicham|Manectric|Altaria|Zangoose|Seviper|
Lunatone|Solrock|Milotic|Castform|Kecleon|Banette|Dusknoir|Absol|Wynaut|Spheal|Walrein|Bagon|Shelgon|
Salamence|Flygon|Beldum|Metang|Metagross|Regirock|Regice|Registeel|Latias|Latios|Kyogre|Groudon|Rayquaza|
Jirachi|Deoxys|
Turtwig|Torterra|Chimchar|Infernape|Piplup|Empoleon|Luxray|Roserade|Garchomp|Gible|Lucario|Riolu|
Weavile|Magnezone|Rhyperior|Electivire|Magmortar|Leafeon|Glaceon|Gliscor|Mamoswine|Porygon-Z|
Froslass|Rotom|Uxie|Mesprit|Azelf|Dialga|Palkia|Heatran|Regigigas|Giratina|Cresselia|Phione|Manaphy|
Darkrai|Shaymin|Arceus|Spiritomb|Drifblim|Mismagius|Honchkrow|Munchlax|Bidoof|Mime Jr.|
Victini|Snivy|Serperior|Tepig|Emboar|Oshawott|Samurott|Zorua|Zoroark|Litwick|Chandelure|Axew|
Haxorus|Hydreigon|Volcarona|Cobalion|Terrakion|Virizion|Tornadus|Thundurus|Reshiram|Zekrom|
Landorus|Kyurem|Keldeo|Meloetta|Genesect|
Chespin|Fennekin|Delphox|Froakie|Greninja|Sylveon|Hawlucha|Dedenne|Goodra|Noivern|Xerneas|Yveltal|
Zygarde|Diancie|Hoopa|Volcanion|Aegislash|Talonflame|
Rowlet|Decidueye|Litten|Incineroar|Popplio|Primarina|Mimikyu|Lycanroc|Toxapex|Tapu Koko|Tapu Lele|
Tapu Bulu|Tapu Fini|Type: Null|Silvally|Cosmog|Solgaleo|Lunala|Necrozma|Magearna|Marshadow|Zeraora|
Buzzwole|Pheromosa|Xurkitree|Kartana|Guzzlord|Blacephalon|Naganadel|Meltan|Melmetal|
Grookey|Rillaboom|Scorbunny|Cinderace|Sobble|Inteleon|Wooloo|Dubwool|Corviknight|Toxtricity|
Alcremie|Eiscue|Morpeko|Dragapult|Zacian|Zamazenta|Eternatus|Urshifu|Calyrex|Regieleki|Regidrago|
Glastrier|Spectrier|Wyrdeer|Kleavor|Basculegion|Sneasler|Enamorus|Duraludon|Archaludon|
Sprigatito|Meowscarada|Fuecoco|Skeledirge|Quaxly|Quaquaval|Pawmot|Tinkaton|Kingambit|Gholdengo|
Koraidon|Miraidon|Ogerpon|Terapagos|Pecharunt|Chien-Pao|Chi-Yu|Ting-Lu|Wo-Chien|Roaring Moon|
Iron Valiant|Great Tusk|Iron Hands|Flutter Mane|Walking Wake|Iron Leaves|Gouging Fire|Raging Bolt|
Iron Crown|Iron Boulder|Armarouge|Ceruledge|Palafin|Tatsugiri|Dondozo|Annihilape|Farigiraf|
Dudunsparce|Baxcalibur|Greavard|Houndstone|Flamigo|Bombirdier|Revavroom|Cyclizar|Orthworm|
Glimmora|Clodsire|Espathra|Lokix|Maushold|Squawkabilly|Bellibolt|Hydrapple|Dipplin|Sinistcha
`)

// trainerCards are non-Pokémon card names: items, supporters, tools,
// stadiums and named energies. Checked before any species so that
// "Professor Oak's Research" or "Team Rocket's Handiwork" are not truncated.
var trainerCards = splitNames(`
Professor's Research|Professor Oak's Research|Professor Oak|Professor Elm|Professor Birch|
Professor Sada's Vitality|Professor Turo's Scenario|Boss's Orders|Team Rocket's Handiwork|
Rare Candy|Ultra Ball|Quick Ball|Nest Ball|Level Ball|Great Ball|Poke Ball|Master Ball|Timer Ball|
Energy Search|Energy Removal|Super Energy Removal|Energy Retrieval|Computer Search|Item Finder|
Gust of Wind|Pokemon Breeder|Pokemon Trader|Pokemon Center|Pokemon Catcher|Pokemon Communication|
Switch|Escape Rope|Bill|Lass|Imposter Professor Oak|Scoop Up|Super Potion|Full Heal|Potion|
Devolution Spray|Defender|PlusPower|Choice Belt|Choice Band|Exp. Share|Max Elixir|Max Potion|
Battle VIP Pass|Lost City|Path to the Peak|Collapsed Stadium|Artazon|Mesagoza|Town Store|
Temple of Sinnoh|Training Court|Magma Basin|Beach Court|Chaotic Swell|Silent Lab|Tower of Darkness|
Tower of Waters|Double Colorless Energy|Double Turbo Energy|Double Dragon Energy|Jet Energy|
Reversal Energy|Gift Energy|Luminous Energy|Neo Upper Energy|Twin Energy|Aurora Energy|
Capture Energy|Rainbow Energy|Prism Energy|Unit Energy|Mist Energy|Legacy Energy|Crystal Energy|
Lost Vacuum|Tool Scrapper|Field Blower|Counter Catcher|Super Rod|Night Stretcher|Ordinary Rod|
Earthen Vessel|Buddy-Buddy Poffin|Iono's Bellibolt|Pal Pad|Forest Seal Stone|Unfair Stamp|
Prime Catcher|Maximum Belt|Hero's Cape|Secret Box|Reset Stamp|Judge|Colress's Experiment
`)

// personNames are generic trainer-character names used when no species or
// trainer card matched. Full-art supporter listings often carry only these.
var personNames = splitNames(`
Cynthia|Marnie|Lillie|Iono|Misty|Brock|Erika|Sabrina|Giovanni|Blaine|Koga|Lt. Surge|Hop|Bede|
Nessa|Raihan|Leon|Penny|Arven|Nemona|Irida|Serena|Elesa|Acerola|Lusamine|Gardenia|Skyla|Korrina|
Rosa|Hilda|Zinnia|Gloria|Sonia|Klara|Melony|Kabu|Bea|Allister|Opal|Piers|Rika|Geeta|Miriam|Clavell|
Jacq|Briar|Carmine|Kieran|Lacey|Drayton|Perrin|Crispin|Kofu|Grusha|Ryme|Tulip|Larry|Hassel|Poppy|
Professor Oak|Ethan|Lyra|Kris|Lance|Clair|Morty|Whitney|Jasmine|Steven|
Wallace|Flannery|Roxanne|Winona|Brendan|Lucas|Barry|Volkner|Fantina|Candice|Hilbert|
Cheren|Bianca|Colress|Ghetsis|Shauna|Tierno|Diantha|Sycamore|Lysandre|Guzma|Mallow|Lana|Kiawe|
Hau|Gladion|Plumeria|Mina|Nanu|Hapu|Olivia|Kukui
`)

// teamPrefixes are owner and faction prefixes that make a card name
// team-branded ("Dark Charizard", "Team Magma's Groudon", "Misty's Psyduck").
var teamPrefixes = splitNames(`
Team Rocket's|Rocket's|Team Magma's|Team Aqua's|Team Galactic's|Team Plasma's|Team Flare's|
Team Skull's|Team Yell's|Dark|Light|Erika's|Brock's|Misty's|Lt. Surge's|Sabrina's|Koga's|Blaine's|
Giovanni's|Ethan's|Arven's|Iono's|Lillie's|Marnie's|N's|Cynthia's|Hop's|Steven's|Larry's|
Team Magma|Team Aqua|Holon's|Imakuni's
`)

// regionalPrefixes attach to a following species to form one name.
var regionalPrefixes = splitNames(`
Alolan|Galarian|Hisuian|Paldean|Radiant|Shining|Mega|Shadow Rider|Ice Rider|Single Strike|
Rapid Strike|Origin Forme|Dusk Mane|Dawn Wings|Ultra|Primal|Black|White
`)

// nameStopWords are removed by the fallback name extractor.
var nameStopWords = toSet(splitNames(`
pokemon|pokémon|tcg|ccg|card|cards|rare|ultra|uncommon|common|holo|holofoil|holographic|reverse|
foil|the|a|an|and|of|for|with|in|from|by|to|uk|seller|free|post|postage|p&p|fast|dispatch|
english|eng|nm|mint|near|lp|mp|hp|dmg|played|single|genuine|official|authentic|new|x1|art|full|
alt|alternate|illustration|special|sir|ir|fa|aa|secret|rainbow|gold|promo|black|star|edition|
1st|first|shadowless|unlimited|graded|psa|bgs|cgc|sgc|ace|tag|condition|excellent|vintage|
wotc|sealed|original|set|series|japanese|korean|chinese|german|french|italian|spanish|trainer|
gallery|galarian|radiant|collection|look|see|photos|pics|picture|great|perfect|pristine|gem|
v|vmax|vstar|gx|ex|break|prime|lv.x|energy|hyper|shiny|vault|sv|tg|gg|rc|item|supporter|stadium
`))

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}
