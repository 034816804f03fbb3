package scoring

import "sort"

// DefaultEntrypointTop is how many re-ranked entrypoints are kept.
const DefaultEntrypointTop = 8

// Candidate is a heuristic entrypoint as produced by a detector.
type Candidate struct {
	Path    string
	Score   int
	Signals []string
}

// PathClassifier identifies locations that are unlikely runtime entries.
type PathClassifier interface {
	IsBuildOrchestration(rel string) bool
	IsNonRuntime(rel string) bool
}

// RankedEntrypoint is a candidate with its blended rank and the inputs that
// produced it.
type RankedEntrypoint struct {
	Path       string   `json:"path"`
	Heuristic  int      `json:"heuristic"`
	Signals    []string `json:"signals"`
	Blended    float64  `json:"blended"`
	Critical   float64  `json:"critical"`
	Continuity float64  `json:"continuity"`
}

// RerankEntrypoints blends the heuristic score with structural signals
// from the critical ranking and history continuity:
//
//	heuristic + 4*crit/maxCrit + 0.8*min(fanin,8) + 1.2*min(dispatch,4) + 2.5*continuity
//
// minus 4 for build paths and 2 for non-runtime paths. Only files present
// in critical contribute structural terms.
func RerankEntrypoints(cands []Candidate, critical []CriticalFile, continuity map[string]float64, classify PathClassifier, limit int) []RankedEntrypoint {
	if len(cands) == 0 {
		return nil
	}
	byPath := make(map[string]CriticalFile, len(critical))
	maxCrit := 0.0
	for _, c := range critical {
		byPath[c.Path] = c
		if c.Score > maxCrit {
			maxCrit = c.Score
		}
	}
	if maxCrit == 0 {
		maxCrit = 1
	}

	out := make([]RankedEntrypoint, 0, len(cands))
	for _, cand := range cands {
		crit := byPath[cand.Path]
		cont := continuity[cand.Path]
		blended := float64(cand.Score) +
			4*crit.Score/maxCrit +
			0.8*min(crit.Components.FanIn, 8) +
			1.2*min(crit.Components.Dispatch, 4) +
			2.5*cont
		if classify != nil {
			if classify.IsBuildOrchestration(cand.Path) {
				blended -= 4
			}
			if classify.IsNonRuntime(cand.Path) {
				blended -= 2
			}
		}
		out = append(out, RankedEntrypoint{
			Path:       cand.Path,
			Heuristic:  cand.Score,
			Signals:    cand.Signals,
			Blended:    blended,
			Critical:   crit.Score,
			Continuity: cont,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Blended != out[j].Blended {
			return out[i].Blended > out[j].Blended
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
