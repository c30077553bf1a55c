package domain

import "strings"

// Match pairs an agent type with its relevance score for one prompt.
type Match struct {
	Type  string
	Score float64
}

// Relevance scores a prompt against a capability list: the fraction of
// capability phrases that appear as substrings of the prompt. Matching is
// case-insensitive. A definition with no capabilities never matches.
func Relevance(prompt string, capabilities []string) float64 {
	if len(capabilities) == 0 {
		return 0
	}
	p := strings.ToLower(prompt)
	hits := 0
	for _, c := range capabilities {
		if strings.Contains(p, strings.ToLower(c)) {
			hits++
		}
	}
	return float64(hits) / float64(len(capabilities))
}
