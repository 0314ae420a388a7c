package lines

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeform(t *testing.T) {
	f := ParseFreeform("2 cups [flour] (sifted), (optional)")

	assert.Equal(t, "2 cups flour", f.Plain())
	assert.Equal(t,
		`2 cups <a href="/ingredient/flour/">flour</a> <span class="note">(sifted)</span>, <span class="note">(optional)</span>`,
		f.HTML("/ingredient/flour/", false, "note"))
	assert.Equal(t,
		`2 cups flour <span class="note">(sifted)</span>, <span class="note">(optional)</span>`,
		f.HTML("", false, "note"))
}

func TestFreeformEscapes(t *testing.T) {
	f := ParseFreeform(`1 <b>pinch</b> [salt & pepper]`)
	assert.Equal(t, `1 &lt;b&gt;pinch&lt;/b&gt; <a href="http://x/?a=1&amp;b=2" target="_blank" rel="noopener">salt &amp; pepper</a>`,
		f.HTML("http://x/?a=1&b=2", true, "note"))
}

func TestAnchorSchemes(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://x.example/a", `<a href="https://x.example/a">t</a>`},
		{"/ingredient/flour/", `<a href="/ingredient/flour/">t</a>`},
		{"mailto:cook@x.example", `<a href="mailto:cook@x.example">t</a>`},
		{"javascript:alert(1)", "t"},
		{" JavaScript:alert(1)", "t"},
		{"data:text/html,<b>x</b>", "t"},
		{"java\tscript:alert(1)", "t"},
		{"", "t"},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, Anchor(tt.href, "t", false))
		})
	}
	assert.Equal(t, `2 cups flour`, ParseFreeform("2 cups [flour]").HTML("javascript:alert(1)", false, "note"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"2", 2},
		{"1.5", 1.5},
		{"0,5", 0.5},
		{"1/2", 0.5},
		{"1 1/2", 1.5},
		{"1-1/2", 1.5},
		{"1-1/2 to 2-1/2", 2.5},
		{"1/2-3/4", 0.75},
		{"1½", 1.5},
		{"¾", 0.75},
		{"2-3", 3},
		{"1–2", 2},
		{"200g", 200},
		{"a pinch", 0},
		{"1/0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.in), 1e-9)
		})
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "flours", Pluralize("flour", ""))
	assert.Equal(t, "tomatoes", Pluralize("tomato", ""))
	assert.Equal(t, "cherries", Pluralize("cherry", ""))
	assert.Equal(t, "brown sugars", Pluralize("brown sugar", ""))
	assert.Equal(t, "leaves of basil", Pluralize("leaf of basil", "leaves of basil"))
	assert.Equal(t, "", Pluralize("", ""))
}
