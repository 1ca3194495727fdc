package refgraph

import "github.com/hbollon/go-edlib"

// suggestThreshold is the minimum Jaro-Winkler similarity a candidate name
// needs before it is offered as a "did you mean" suggestion.
const suggestThreshold = 0.77

// Suggest returns the closest known name to want by Jaro-Winkler similarity,
// grounded on the teacher's internal/semantic/fuzzy_matcher.go. It reports
// ok=false when the graph has no names or nothing clears suggestThreshold.
func (g *Graph) Suggest(want string) (string, bool) {
	best := ""
	var bestScore float32
	for _, name := range g.Names() {
		if name == want {
			continue
		}
		score, err := edlib.StringsSimilarity(want, name, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = name
		}
	}
	if bestScore < suggestThreshold {
		return "", false
	}
	return best, true
}
