package badges

import (
	"regexp"
	"strings"
)

// Category is a coarse topic label derived from question text.
type Category string

const (
	CategoryScience   Category = "science"
	CategoryMath      Category = "math"
	CategoryReading   Category = "reading"
	CategoryHistory   Category = "history"
	CategoryGeography Category = "geography"
	CategoryArt       Category = "art"
	CategoryMusic     Category = "music"
	CategorySports    Category = "sports"
	CategoryGeneral   Category = "general"
)

// AllCategories returns every category in classification priority order,
// with the general fallback last.
func AllCategories() []Category {
	return []Category{
		CategoryScience, CategoryMath, CategoryReading, CategoryHistory,
		CategoryGeography, CategoryArt, CategoryMusic, CategorySports,
		CategoryGeneral,
	}
}

// ParseCategory reports whether s names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type keywordRule struct {
	category Category
	pattern  *regexp.Regexp
}

// Order matters: the first matching rule wins. Patterns match substrings, so
// "sunlight" hits "light".
var classifierRules = []keywordRule{
	{CategoryScience, regexp.MustCompile(`science|scientist|experiment|chemistry|physics|biology|nature|animal|plant|space|planet|star|solar|universe|atom|molecule|element|chemical|energy|force|gravity|magnet|light|sound|weather|climate|earth|environment|ecosystem|dinosaur`)},
	{CategoryMath, regexp.MustCompile(`math|mathematics|number|add|subtract|multiply|divide|plus|minus|equation|algebra|geometry|calculation|count|shape|triangle|circle|square|rectangle|fraction|decimal|percent|\d+\s*[-+*/x×÷]\s*\d+`)},
	{CategoryReading, regexp.MustCompile(`read|book|story|stories|tale|fairy|author|word|letter|alphabet|write|writing|poem|poetry|character|novel|sentence|spelling|grammar|library|dictionary|vowel`)},
	{CategoryHistory, regexp.MustCompile(`history|historical|ancient|civilization|king|queen|emperor|pharaoh|war|battle|country|nation|president|past|timeline|century|museum|archaeology`)},
	{CategoryGeography, regexp.MustCompile(`geography|map|city|continent|ocean|sea|river|lake|mountain|valley|desert|forest|jungle|island|volcano|world|north|south|east|west`)},
	{CategoryArt, regexp.MustCompile(`art|draw|paint|color|colour|artist|picture|sculpture|design|create|craft`)},
	{CategoryMusic, regexp.MustCompile(`music|song|sing|instrument|note|rhythm|melody|piano|guitar|drum|musician|dance`)},
	{CategorySports, regexp.MustCompile(`sport|game|play|ball|team|win|athlete|exercise|run|jump|swim|race|soccer|football|basketball|olympic`)},
}

// Classify maps question text to a category. It never fails: text that
// matches no keyword set is CategoryGeneral.
func Classify(question string) Category {
	text := strings.ToLower(question)
	for _, rule := range classifierRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return CategoryGeneral
}
