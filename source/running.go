package source

import (
	"math"
	"regexp"
	"strings"
)

// pageLines holds the text lines of one page and its dimensions
type pageLines struct {
	Index  int
	Width  float64
	Height float64
	Lines  []textLine
}

// runningFilter removes page furniture: running headers and footers that
// repeat in the top or bottom band of most pages, and bare page numbers in
// those bands.
type runningFilter struct {
	// Band is the height in points of the header and footer zones
	Band float64

	// MinOccurrenceRatio is the fraction of pages a text must appear on to
	// be treated as a running header or footer
	MinOccurrenceRatio float64

	// MinPages is the minimum page count for repetition detection
	MinPages int
}

func defaultRunningFilter() runningFilter {
	return runningFilter{
		Band:               72.0, // 1 inch
		MinOccurrenceRatio: 0.5,
		MinPages:           2,
	}
}

type region int

const (
	regionBody region = iota
	regionHeader
	regionFooter
)

// regionOf locates a line in the page bands
func (f runningFilter) regionOf(p pageLines, l textLine) region {
	switch {
	case l.top() >= p.Height-f.Band:
		return regionHeader
	case l.Baseline <= f.Band:
		return regionFooter
	}
	return regionBody
}

var digitRun = regexp.MustCompile(`\d+`)

// furnitureKey normalizes a line for cross-page comparison: digits become
// "#" so that "Page 3" and "Page 4" match
func furnitureKey(text string) string {
	return digitRun.ReplaceAllString(strings.ToLower(text), "#")
}

var pageNumberKeys = map[string]bool{
	"#":           true,
	"page #":      true,
	"- # -":       true,
	"# of #":      true,
	"page # of #": true,
	"#/#":         true,
	"p. #":        true,
	"p.#":         true,
	"pg #":        true,
	"pg. #":       true,
}

// isPageNumber reports whether a normalized key is a page number pattern
func isPageNumber(key string) bool {
	return pageNumberKeys[key]
}

// apply returns the pages with furniture lines removed. The input is not
// modified.
func (f runningFilter) apply(pages []pageLines) []pageLines {
	type slot struct {
		region region
		key    string
	}

	repeated := make(map[slot]bool)
	if len(pages) >= f.MinPages {
		seen := make(map[slot]map[int]bool)
		for _, p := range pages {
			for _, l := range p.Lines {
				r := f.regionOf(p, l)
				if r == regionBody {
					continue
				}
				k := slot{r, furnitureKey(l.Text)}
				if seen[k] == nil {
					seen[k] = make(map[int]bool)
				}
				seen[k][p.Index] = true
			}
		}

		need := int(math.Ceil(f.MinOccurrenceRatio * float64(len(pages))))
		if need < f.MinPages {
			need = f.MinPages
		}
		for k, onPages := range seen {
			if len(onPages) >= need {
				repeated[k] = true
			}
		}
	}

	out := make([]pageLines, len(pages))
	for i, p := range pages {
		kept := make([]textLine, 0, len(p.Lines))
		for _, l := range p.Lines {
			r := f.regionOf(p, l)
			if r != regionBody {
				key := furnitureKey(l.Text)
				if repeated[slot{r, key}] || isPageNumber(key) {
					continue
				}
			}
			kept = append(kept, l)
		}
		p.Lines = kept
		out[i] = p
	}
	return out
}
