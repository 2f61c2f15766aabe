// Package normalize converts noisy human-readable metric text into
// comparable values. Parsing failure yields ok=false, never a panic and
// never a fabricated value.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AbbreviatedCount parses a rendered follower/post count such as "1.2K",
// "3M", "12,345", "٣ ألف", or "1.4 مليون" into an integer. Thousands
// separators (including the Arabic separator) and whitespace are stripped,
// Arabic-Indic digits are converted, and magnitude suffixes are applied
// with rounding to the nearest integer. Ambiguous or unmatched input
// returns ok=false.
func AbbreviatedCount(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	s = asciiDigits(s)
	s = separatorStripper.Replace(s)
	s = strings.ReplaceAll(s, "٫", ".") // Arabic decimal separator

	m := countPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value < 0 {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "":
	case "k", "ألف", "الف":
		value *= 1e3
	case "m", "مليون":
		value *= 1e6
	case "b", "مليار":
		value *= 1e9
	default:
		return 0, false
	}
	return int64(math.Round(value)), true
}

// RelativeTime parses relative-date text such as "3 days ago", "2h", or
// "منذ ٥ أيام" into an absolute time by subtracting the quantity from now.
// Unit patterns are checked smallest to largest and the first match wins;
// the patterns are not anchored, so text naming two units resolves to the
// smaller one. "just now" and "yesterday" (and Arabic equivalents) are
// handled as fixed phrases. Unrecognized text returns ok=false.
func RelativeTime(text string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(asciiDigits(text)))
	if s == "" {
		return time.Time{}, false
	}

	if nowPattern.MatchString(s) {
		return now, true
	}
	if yesterdayPattern.MatchString(s) {
		return now.AddDate(0, 0, -1), true
	}

	for _, u := range relativeUnits {
		m := u.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			return time.Time{}, false
		}
		switch u.name {
		case "month":
			return now.AddDate(0, -n, 0), true
		case "year":
			return now.AddDate(-n, 0, 0), true
		default:
			return now.Add(-time.Duration(n) * u.step), true
		}
	}
	return time.Time{}, false
}

// CountToken returns the first count-looking token inside label text,
// e.g. "1.2K followers" -> "1.2K", "متابعون ٣ ألف" -> "٣ ألف".
// Returns "" when the text carries no count. The token is kept raw;
// AbbreviatedCount turns it into a number.
func CountToken(text string) string {
	return strings.TrimSpace(tokenPattern.FindString(text))
}

var tokenPattern = regexp.MustCompile(`[0-9٠-٩][0-9٠-٩.,٬٫]*[ ]?(?:[KkMmBb]\b|ألف|الف|مليون|مليار)?`)

// asciiDigits converts Arabic-Indic digits (U+0660..U+0669) to ASCII.
func asciiDigits(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r >= '٠' && r <= '٩' }) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '٠' && r <= '٩' {
			b.WriteRune('0' + (r - '٠'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var separatorStripper = strings.NewReplacer(",", "", "٬", "", " ", "", " ", "")

var countPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([KkMmBb]|ألف|الف|مليون|مليار)?$`)

var (
	nowPattern       = regexp.MustCompile(`just now|^now$|الآن|قبل لحظات`)
	yesterdayPattern = regexp.MustCompile(`yesterday|أمس`)
)

// relativeUnits is ordered smallest to largest; RelativeTime takes the
// first match. Months and years subtract calendar units via AddDate.
var relativeUnits = []struct {
	name string
	re   *regexp.Regexp
	step time.Duration
}{
	{"second", regexp.MustCompile(`([0-9]+)\s*(?:sec(?:ond)?s?|s\b|ثانية|ثوان)`), time.Second},
	{"minute", regexp.MustCompile(`([0-9]+)\s*(?:min(?:ute)?s?|m\b|دقيقة|دقائق)`), time.Minute},
	{"hour", regexp.MustCompile(`([0-9]+)\s*(?:h(?:ou)?rs?|h\b|ساعة|ساعات)`), time.Hour},
	{"day", regexp.MustCompile(`([0-9]+)\s*(?:days?|d\b|يوم|أيام)`), 24 * time.Hour},
	{"week", regexp.MustCompile(`([0-9]+)\s*(?:w(?:ee)?ks?|w\b|أسبوع|أسابيع)`), 7 * 24 * time.Hour},
	{"month", regexp.MustCompile(`([0-9]+)\s*(?:mo(?:nth)?s?|شهر|أشهر|شهور)`), 0},
	{"year", regexp.MustCompile(`([0-9]+)\s*(?:y(?:ea)?rs?|y\b|سنة|سنوات|عام|أعوام)`), 0},
}
