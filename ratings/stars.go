package ratings

import (
	"fmt"
	"math"
	"strings"
)

type Star int

const (
	StarEmpty Star = iota
	StarHalf
	StarFull
)

func (s Star) String() string {
	switch s {
	case StarFull:
		return "full"
	case StarHalf:
		return "half"
	}
	return "empty"
}

// Stars rounds avg to the nearest half and picks an icon per position 1..5.
func Stars(avg float64) [MaxScore]Star {
	var out [MaxScore]Star
	r := math.Round(avg*2) / 2
	for i := range out {
		pos := float64(i + 1)
		switch {
		case r >= pos:
			out[i] = StarFull
		case r >= pos-0.5:
			out[i] = StarHalf
		}
	}
	return out
}

// StarsHTML renders the five icons for avg.
func StarsHTML(avg float64, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<span class="rpr-rating-stars" title="%s">`, ratingTitle(avg, count))
	for _, s := range Stars(avg) {
		fmt.Fprintf(&b, `<span class="rpr-star rpr-star-%s"></span>`, s)
	}
	b.WriteString(`</span>`)
	return b.String()
}

func ratingTitle(avg float64, count int) string {
	votes := "votes"
	if count == 1 {
		votes = "vote"
	}
	return fmt.Sprintf("%.1f / %d (%d %s)", avg, MaxScore, count, votes)
}
