// Package transform validates, normalizes and deduplicates raw records
// before they reach the import service. Normalization is idempotent:
// applying it twice yields the same output as applying it once.
package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/prasetyowira/fightcast/internal/domain/source"
)

var (
	nonNameCharsRegex = regexp.MustCompile(`[^\w\s\-']`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	endingTimeRegex   = regexp.MustCompile(`^(\d+):(\d{1,2})`)

	accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeName lowers, trims, strips accents and collapses whitespace so
// names from different sources compare equal ("José Aldo" -> "jose aldo").
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}

	if stripped, _, err := transform.String(accentStripper, name); err == nil {
		name = stripped
	}

	name = strings.ToLower(strings.TrimSpace(name))
	name = nonNameCharsRegex.ReplaceAllString(name, "")
	name = whitespaceRegex.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// namePrefixes get their tail re-capitalized after a plain title-casing pass
// ("Mcgregor" -> "McGregor").
var namePrefixes = []string{"Mc", "O'", "De"}

func TitleCaseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = titleWords(name)
	for _, prefix := range namePrefixes {
		if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			tail := name[len(prefix):]
			if strings.HasPrefix(tail, " ") {
				name = prefix + " " + titleWords(tail)
			} else {
				name = prefix + titleWords(tail)
			}
			break
		}
	}
	return name
}

func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var weightClassCanonical = map[string]string{
	"strawweight":           "Strawweight",
	"flyweight":             "Flyweight",
	"bantamweight":          "Bantamweight",
	"featherweight":         "Featherweight",
	"lightweight":           "Lightweight",
	"welterweight":          "Welterweight",
	"middleweight":          "Middleweight",
	"light heavyweight":     "Light Heavyweight",
	"lightheavyweight":      "Light Heavyweight",
	"heavyweight":           "Heavyweight",
	"women's strawweight":   "Women's Strawweight",
	"women's flyweight":     "Women's Flyweight",
	"women's bantamweight":  "Women's Bantamweight",
	"women's featherweight": "Women's Featherweight",
	"catch weight":          "Catch Weight",
	"catchweight":           "Catch Weight",
	"open weight":           "Open Weight",
}

var (
	weightBoutSuffixRegex  = regexp.MustCompile(`\s*bout$`)
	weightTitlePrefixRegex = regexp.MustCompile(`(interim\s+)?title\s*`)
)

// NormalizeWeightClass maps source spellings ("lightheavyweight",
// "Middleweight Bout", "interim title welterweight") to canonical names.
func NormalizeWeightClass(raw string) string {
	wc := strings.ToLower(strings.TrimSpace(raw))
	if wc == "" {
		return ""
	}

	wc = weightBoutSuffixRegex.ReplaceAllString(wc, "")
	wc = weightTitlePrefixRegex.ReplaceAllString(wc, "")
	wc = strings.TrimSpace(wc)

	if canonical, ok := weightClassCanonical[wc]; ok {
		return canonical
	}
	return titleWords(wc)
}

var countryCanonical = map[string]string{
	"Usa":            "USA",
	"Us":             "USA",
	"United States":  "USA",
	"Uk":             "UK",
	"United Kingdom": "UK",
	"Uae":            "UAE",
}

func NormalizeCountry(raw string) string {
	country := titleWords(strings.TrimSpace(raw))
	if canonical, ok := countryCanonical[country]; ok {
		return canonical
	}
	return country
}

var resultMethodCanonical = map[string]string{
	"TKO": "KO/TKO",
	"KO":  "KO/TKO",
	"SUB": "Submission",
	"DEC": "Decision",
	"UD":  "Decision (Unanimous)",
	"SD":  "Decision (Split)",
	"MD":  "Decision (Majority)",
}

// NormalizeResultMethod expands the usual abbreviations; anything it does
// not recognize passes through trimmed.
func NormalizeResultMethod(raw string) string {
	method := strings.TrimSpace(raw)
	if canonical, ok := resultMethodCanonical[strings.ToUpper(method)]; ok {
		return canonical
	}
	return method
}

var stanceValues = map[string]struct{}{
	"Orthodox":    {},
	"Southpaw":    {},
	"Switch":      {},
	"Open Stance": {},
}

func NormalizeStance(raw string) string {
	stance := titleWords(strings.TrimSpace(raw))
	if stance == "" {
		return ""
	}
	if _, ok := stanceValues[stance]; ok {
		return stance
	}

	lower := strings.ToLower(stance)
	switch {
	case strings.Contains(lower, "ortho"):
		return "Orthodox"
	case strings.Contains(lower, "south"):
		return "Southpaw"
	}
	return stance
}

// NormalizeEndingTime canonicalizes a round clock to "m:ss" with zero-padded
// seconds ("4:3" -> "4:03").
func NormalizeEndingTime(raw string) string {
	t := strings.TrimSpace(raw)
	m := endingTimeRegex.FindStringSubmatch(t)
	if m == nil {
		return t
	}

	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// NormalizeFighter canonicalizes name casing, nickname quoting and stance.
func NormalizeFighter(f source.RawFighter) source.RawFighter {
	f.FirstName = TitleCaseName(f.FirstName)
	f.LastName = TitleCaseName(f.LastName)
	f.Nickname = strings.Trim(strings.TrimSpace(f.Nickname), `"'`)
	f.Nationality = NormalizeCountry(f.Nationality)
	f.Hometown = strings.TrimSpace(f.Hometown)
	f.Stance = NormalizeStance(f.Stance)
	f.HeightCM = roundPtr(f.HeightCM)
	f.WeightKG = roundPtr(f.WeightKG)
	f.ReachCM = roundPtr(f.ReachCM)
	f.LegReachCM = roundPtr(f.LegReachCM)
	return f
}

func NormalizeEvent(e source.RawEvent) source.RawEvent {
	e.Name = strings.TrimSpace(e.Name)
	e.Venue = strings.TrimSpace(e.Venue)
	e.City = titleWords(strings.TrimSpace(e.City))
	e.State = strings.TrimSpace(e.State)
	e.Country = NormalizeCountry(e.Country)
	return e
}

func NormalizeFight(f source.RawFight) source.RawFight {
	f.Fighter1Name = strings.TrimSpace(f.Fighter1Name)
	f.Fighter2Name = strings.TrimSpace(f.Fighter2Name)
	f.EventName = strings.TrimSpace(f.EventName)
	f.WinnerName = strings.TrimSpace(f.WinnerName)
	f.ResultMethod = NormalizeResultMethod(f.ResultMethod)
	f.EndingTime = NormalizeEndingTime(f.EndingTime)
	return f
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := float64(int(*v*10+0.5)) / 10
	return &rounded
}
