// internal/stages/synthesize-insights/sections.go
package synthesizeinsights

import (
	"sort"
	"strings"
)

// The heading grammar: each canonical field owns an ordered synonym set.
// A field is written at most once; later synonyms of an already-filled
// field are skipped so observations and takeaways never share content.
type fieldSpec struct {
	target   string
	headings []string
}

const (
	fieldKeyInsights  = "keyInsights"
	fieldObservations = "observations"
	fieldTakeaways    = "takeaways"
)

var sectionGrammar = []fieldSpec{
	{target: fieldKeyInsights, headings: []string{
		"KEY THEMES", "KEY INSIGHTS", "MAIN THEMES", "THEMES",
	}},
	{target: fieldObservations, headings: []string{
		"OBSERVATIONS", "DIVERSE PERSPECTIVES", "PERSPECTIVES",
		"PAIN POINTS & OPPORTUNITIES", "PAIN POINTS",
	}},
	{target: fieldTakeaways, headings: []string{
		"ACTIONABLE RECOMMENDATIONS", "RECOMMENDATIONS", "TAKEAWAYS",
	}},
}

type marker struct {
	start  int
	end    int
	target string
}

// parseSections slices the synthesis text between recognized headings.
// Returns the fields it could fill; an empty map means no marker was
// found and the caller should fall back to chunking.
func parseSections(text string, maxSentences int) map[string]string {
	upper := asciiUpper(text)

	var markers []marker
	for _, spec := range sectionGrammar {
		for _, heading := range spec.headings {
			from := 0
			for {
				idx := strings.Index(upper[from:], heading)
				if idx == -1 {
					break
				}
				start := from + idx
				markers = append(markers, marker{
					start:  start,
					end:    start + len(heading),
					target: spec.target,
				})
				from = start + len(heading)
			}
		}
	}
	if len(markers) == 0 {
		return nil
	}

	sort.Slice(markers, func(i, j int) bool { return markers[i].start < markers[j].start })

	// Drop markers overlapping an earlier one ("THEMES" inside
	// "KEY THEMES").
	kept := markers[:0]
	prevEnd := -1
	for _, m := range markers {
		if m.start < prevEnd {
			continue
		}
		kept = append(kept, m)
		prevEnd = m.end
	}

	fields := make(map[string]string, 3)
	for i, m := range kept {
		if _, filled := fields[m.target]; filled {
			continue
		}
		sliceEnd := len(text)
		if i+1 < len(kept) {
			sliceEnd = kept[i+1].start
		}
		content := cleanSection(text[m.end:sliceEnd])
		if content == "" {
			continue
		}
		fields[m.target] = firstSentences(content, maxSentences)
	}
	return fields
}

// asciiUpper upper-cases only ASCII letters, so byte offsets into the
// result stay valid for the original text. strings.ToUpper cannot be
// used here: Unicode case mappings may change a rune's UTF-8 length
// and shift every later offset. All grammar headings are ASCII.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func cleanSection(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, ":-– \t\n")
	return strings.TrimSpace(s)
}

// firstSentences keeps at most n sentences of s, joined back together.
func firstSentences(s string, n int) string {
	if n <= 0 {
		return s
	}
	var out strings.Builder
	count := 0
	for i := 0; i < len(s); i++ {
		out.WriteByte(s[i])
		if s[i] == '.' || s[i] == '!' || s[i] == '?' {
			count++
			if count >= n {
				break
			}
		}
	}
	return strings.TrimSpace(out.String())
}

// chunkSplit is the last-resort heuristic: three roughly equal pieces of
// the whole text, each truncated, never assigning the same piece twice.
func chunkSplit(text string, maxSentences int) map[string]string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	third := (len(words) + 2) / 3
	fields := make(map[string]string, 3)
	targets := []string{fieldKeyInsights, fieldObservations, fieldTakeaways}
	for i, target := range targets {
		lo := i * third
		if lo >= len(words) {
			break
		}
		hi := lo + third
		if hi > len(words) {
			hi = len(words)
		}
		fields[target] = firstSentences(strings.Join(words[lo:hi], " "), maxSentences)
	}
	return fields
}
