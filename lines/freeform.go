package lines

import (
	"html"
	"regexp"
	"strings"
)

// Legacy ingredient lines are one string, e.g. "2 cups [flour] (sifted)":
// bracketed text is the link anchor, parenthesized text is a note.
var freeformToken = regexp.MustCompile(`\[([^\]]*)\]|\(([^)]*)\)`)

var spaces = regexp.MustCompile(`\s+`)

// Freeform is a parsed legacy line.
type Freeform struct {
	raw string
}

func ParseFreeform(line string) Freeform {
	return Freeform{raw: strings.TrimSpace(line)}
}

// HTML renders the line with the anchor text linked to href (plain text when
// href is empty) and notes kept inline.
func (f Freeform) HTML(href string, newWindow bool, noteClass string) string {
	var b strings.Builder
	last := 0
	for _, loc := range freeformToken.FindAllStringSubmatchIndex(f.raw, -1) {
		b.WriteString(html.EscapeString(f.raw[last:loc[0]]))
		if loc[2] >= 0 {
			text := html.EscapeString(f.raw[loc[2]:loc[3]])
			if href != "" {
				b.WriteString(Anchor(href, text, newWindow))
			} else {
				b.WriteString(text)
			}
		} else {
			b.WriteString(`<span class="` + noteClass + `">(` + html.EscapeString(f.raw[loc[4]:loc[5]]) + `)</span>`)
		}
		last = loc[1]
	}
	b.WriteString(html.EscapeString(f.raw[last:]))
	return b.String()
}

// Plain strips notes and brackets, for structured data.
func (f Freeform) Plain() string {
	s := freeformToken.ReplaceAllStringFunc(f.raw, func(m string) string {
		if strings.HasPrefix(m, "[") {
			return m[1 : len(m)-1]
		}
		return ""
	})
	s = spaces.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " ,", ",")
	s = strings.TrimSpace(s)
	return strings.TrimRight(s, " ,")
}

// Anchor builds an <a> element; text must already be escaped. An href that
// SafeURL rejects leaves the text unlinked.
func Anchor(href, text string, newWindow bool) string {
	href = SafeURL(href)
	if href == "" {
		return text
	}
	a := `<a href="` + html.EscapeString(href) + `"`
	if newWindow {
		a += ` target="_blank" rel="noopener"`
	}
	return a + ">" + text + "</a>"
}
