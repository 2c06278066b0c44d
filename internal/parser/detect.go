package parser

import (
	"regexp"
	"strings"
)

// keywordFamily is a named group of patterns that classify a whole title.
type keywordFamily struct {
	name    string
	pattern *regexp.Regexp
}

// fakeFamilies flag counterfeit or replica listings.
var fakeFamilies = []keywordFamily{
	{
		name:    "explicit_fake",
		pattern: regexp.MustCompile(`(?i)\b(?:fake|replica|proxy|proxies|custom(?:\s+made)?|fan[\s-]?made|reprint\s+(?:card|copy)|orica|counterfeit|unofficial|not\s+(?:genuine|real|official)|bootleg|knock[\s-]?off)\b`),
	},
	{
		name:    "suspicious_material",
		pattern: regexp.MustCompile(`(?i)\b(?:metal\s+(?:card|plated|print(?:ed)?)|made\s+of\s+metal|gold[\s-]?plated|gold\s+foil\s+card|24k|plastic\s+card|acrylic|flash\s+card|sticker|3d\s+card|laser\s+card)\b`),
	},
	{
		name:    "looks_real",
		pattern: regexp.MustCompile(`(?i)\b(?:looks?\s+(?:real|genuine|legit)|like\s+(?:real|original)|high\s+quality\s+(?:print|copy)|(?:art|display)\s+only|novelty|not\s+for\s+play)\b`),
	},
}

// junkFamilies flag bulk lots and sealed product rather than single cards.
var junkFamilies = []keywordFamily{
	{
		name:    "bulk_lot",
		pattern: regexp.MustCompile(`(?i)\b(?:lot|lots|bundle|bulk|job\s*lot|collection\s+of|joblot|x\s?\d{2,}|\d{2,}\s?x|\d{2,}\s+cards|mystery|random|grab\s*bag)\b`),
	},
	{
		name:    "sealed_product",
		pattern: regexp.MustCompile(`(?i)\b(?:booster\s*(?:box|pack|bundle)|elite\s+trainer\s+box|etb|sealed|blister|tin|collection\s+box|premium\s+collection|theme\s+deck|build\s+(?:&|and)\s+battle|display\s+box)\b`),
	},
	{
		name:    "accessory",
		pattern: regexp.MustCompile(`(?i)\b(?:box\s*topper|sleeves?|binder|playmat|deck\s*box|toploaders?|coin|code\s+card|online\s+code|empty\s+(?:box|slab|case))\b`),
	},
}

// lvxPattern matches the LV.X card type, whose "X 109" tail would otherwise
// read as a quantity.
var lvxPattern = regexp.MustCompile(`(?i)\bLV\.?\s?X\b`)

// junkText is the title as the junk families see it.
func junkText(s string) string {
	return lvxPattern.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

func matchFamily(families []keywordFamily, s string) (string, bool) {
	for _, f := range families {
		if f.pattern.MatchString(s) {
			return f.name, true
		}
	}
	return "", false
}
