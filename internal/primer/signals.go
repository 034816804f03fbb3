package primer

import (
	"rqs/internal/detect"
	"rqs/internal/scoring"
)

// criticalInput folds detector output into per-file signal maps.
// Test touch counts literal path mentions in tests plus test invocations
// of commands whose dispatch resolves to the file.
func criticalInput(
	files []string,
	lineCounts map[string]int,
	entrypoints []detect.Entrypoint,
	dispatch []detect.DispatchEntry,
	texts, testTexts map[string]string,
	commandHits map[string]int,
	edges detect.Edges,
	policy *detect.Policy,
) scoring.CriticalInput {
	entrySet := make(map[string]bool, len(entrypoints))
	for _, ep := range entrypoints {
		entrySet[ep.Path] = true
	}

	dispatchCount := make(map[string]int)
	commandSource := make(map[string]string)
	for _, d := range dispatch {
		if d.SourceFile == "" {
			continue
		}
		dispatchCount[d.SourceFile]++
		commandSource[d.Command] = d.SourceFile
	}

	testTouch := detect.TestPathHits(testTexts)
	for cmd, hits := range commandHits {
		if src, ok := commandSource[cmd]; ok {
			testTouch[src] += hits
		}
	}

	symbolCount := make(map[string]int)
	for rel, text := range texts {
		symbolCount[rel] = detect.SymbolDefCount(text)
	}
	for rel, text := range testTexts {
		symbolCount[rel] = detect.SymbolDefCount(text)
	}

	return scoring.CriticalInput{
		Files:         files,
		LineCounts:    lineCounts,
		Entrypoints:   entrySet,
		DispatchCount: dispatchCount,
		FanIn:         edges.FanIn(),
		TestTouch:     testTouch,
		SymbolCount:   symbolCount,
		Exclude:       policy.IsFixture,
	}
}
