package kaggle

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05",
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	feetInchesRegex = regexp.MustCompile(`(\d+)['\s]+(\d+)`)
	leadingNumRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// parseHeightToCM handles feet/inches forms like 5'11" as well as plain
// centimeter values.
func parseHeightToCM(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if m := feetInchesRegex.FindStringSubmatch(value); m != nil {
		feet, _ := strconv.Atoi(m[1])
		inches, _ := strconv.Atoi(m[2])
		cm := round1(float64(feet*12+inches) * 2.54)
		return &cm
	}

	if m := leadingNumRegex.FindStringSubmatch(value); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil && v > 100 {
			cm := round1(v)
			return &cm
		}
	}

	return nil
}

// parseReachToCM handles inch values like 74" and explicit centimeters.
func parseReachToCM(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	hasCM := strings.Contains(strings.ToLower(value), "cm")
	value = strings.NewReplacer(`"`, "", "'", "", "cm", "", "CM", "").Replace(value)

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil
	}

	if hasCM || v >= 100 {
		cm := round1(v)
		return &cm
	}
	cm := round1(v * 2.54)
	return &cm
}

// parseWeightToKG handles pound values like "170 lbs" and explicit
// kilograms. Bare numbers above 50 are assumed to be pounds.
func parseWeightToKG(value string) *float64 {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}

	m := leadingNumRegex.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}

	if strings.Contains(value, "kg") {
		kg := round1(v)
		return &kg
	}
	if strings.Contains(value, "lb") || v > 50 {
		kg := round1(v * 0.453592)
		return &kg
	}
	kg := round1(v)
	return &kg
}

var (
	koPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^ko(/tko)?`),
		regexp.MustCompile(`^tko`),
		regexp.MustCompile(`knockout`),
		regexp.MustCompile(`punch`),
		regexp.MustCompile(`kick`),
		regexp.MustCompile(`knee`),
		regexp.MustCompile(`elbow`),
	}
	subPatterns = []*regexp.Regexp{
		regexp.MustCompile(`submission`),
		regexp.MustCompile(`choke`),
		regexp.MustCompile(`armbar`),
		regexp.MustCompile(`triangle`),
		regexp.MustCompile(`guillotine`),
		regexp.MustCompile(`kimura`),
		regexp.MustCompile(`americana`),
		regexp.MustCompile(`heel hook`),
		regexp.MustCompile(`ankle lock`),
		regexp.MustCompile(`kneebar`),
	}
	decisionRegex = regexp.MustCompile(`decision|unanimous|split|majority`)
)

// parseResultMethod splits a raw method into its canonical category and a
// detail string, e.g. "Rear Naked Choke" becomes ("Submission", "Rear
// Naked Choke"). Unrecognized methods pass through as the category.
func parseResultMethod(raw string) (string, string) {
	method := strings.TrimSpace(raw)
	if method == "" {
		return "", ""
	}

	lower := strings.ToLower(method)

	for _, p := range koPatterns {
		if p.MatchString(lower) {
			return "KO/TKO", method
		}
	}
	for _, p := range subPatterns {
		if p.MatchString(lower) {
			return "Submission", method
		}
	}
	if decisionRegex.MatchString(lower) {
		switch {
		case strings.Contains(lower, "unanimous"):
			return "Decision (Unanimous)", ""
		case strings.Contains(lower, "split"):
			return "Decision (Split)", ""
		case strings.Contains(lower, "majority"):
			return "Decision (Majority)", ""
		}
		return "Decision", ""
	}

	return method, ""
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
