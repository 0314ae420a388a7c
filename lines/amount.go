package lines

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

var vulgarFractions = map[rune]float64{
	'½': 0.5, '⅓': 1.0 / 3, '⅔': 2.0 / 3, '¼': 0.25, '¾': 0.75,
	'⅕': 0.2, '⅖': 0.4, '⅗': 0.6, '⅘': 0.8, '⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

// mixedNumber matches the hyphenated form "1-1/2" of a whole and a fraction.
var mixedNumber = regexp.MustCompile(`(^|[\s–—])(\d+)-(\d+/\d+)`)

// ParseAmount reads the quantity of an amount string such as "2", "1 1/2",
// "1-1/2", "1½", "0,5" or a range "2-3" (the upper bound counts).
// Unparseable amounts yield 0.
func ParseAmount(amount string) float64 {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0
	}
	s = mixedNumber.ReplaceAllString(s, "${1}${2} ${3}")
	for _, sep := range []string{"–", "—", " to ", "-"} {
		if i := strings.LastIndex(s, sep); i > 0 {
			s = s[i+len(sep):]
			break
		}
	}

	total := 0.0
	for _, tok := range strings.Fields(s) {
		v, rest, ok := parseToken(tok)
		if !ok {
			break
		}
		total += v
		if rest {
			break
		}
	}
	return total
}

// parseToken parses "2", "1.5", "1,5", "3/4", "1½". rest is true when the
// token had trailing non-numeric text (e.g. "200g"), which ends the amount.
func parseToken(tok string) (v float64, rest bool, ok bool) {
	end := 0
	for i, r := range tok {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '/' {
			end = i + len(string(r))
			continue
		}
		if f, isFrac := vulgarFractions[r]; isFrac {
			n, _, numOK := parseToken(tok[:i])
			if !numOK {
				n = 0
			}
			return n + f, i+len(string(r)) < len(tok), true
		}
		break
	}
	if end == 0 {
		return 0, false, false
	}
	num := strings.ReplaceAll(tok[:end], ",", ".")
	if a, b, isFrac := strings.Cut(num, "/"); isFrac {
		x, err1 := strconv.ParseFloat(a, 64)
		y, err2 := strconv.ParseFloat(b, 64)
		if err1 != nil || err2 != nil || y == 0 {
			return 0, false, false
		}
		return x / y, end < len(tok), true
	}
	x, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false, false
	}
	return x, end < len(tok), true
}

// Pluralize returns custom when set, otherwise the English plural of name.
func Pluralize(name, custom string) string {
	if custom != "" {
		return custom
	}
	if name == "" {
		return name
	}
	return inflection.Plural(name)
}
