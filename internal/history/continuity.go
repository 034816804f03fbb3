package history

import "sort"

// MinPossibleBuckets is the shortest lifespan, in buckets, for which a
// continuity ratio is defined.
const MinPossibleBuckets = 2

// MinContinuityBuckets is the shortest timeline the sustained report uses.
const MinContinuityBuckets = 3

// Span counts the active and possible buckets of a histogram from first
// onwards. A bucket is active when its value is positive.
func Span(buckets []int, first int) (active, possible int) {
	if first < 0 {
		first = 0
	}
	if first >= len(buckets) {
		return 0, 0
	}
	for _, v := range buckets[first:] {
		if v > 0 {
			active++
		}
	}
	return active, len(buckets) - first
}

// Continuity returns active/possible. ok is false when fewer than
// MinPossibleBuckets buckets exist since the file first appeared.
func Continuity(active, possible int) (ratio float64, ok bool) {
	if possible < MinPossibleBuckets {
		return 0, false
	}
	return float64(active) / float64(possible), true
}

// SustainedFile is a file whose continuity met the threshold.
type SustainedFile struct {
	*FileActivity
	Continuity float64 `json:"continuity"`
	Active     int     `json:"active"`
	Possible   int     `json:"possible"`
}

// Sustained returns files with continuity >= minContinuity ordered by
// continuity desc, lines desc, then path. It returns nil when the timeline
// has fewer than MinContinuityBuckets buckets.
func (a *Activity) Sustained(minContinuity float64) []SustainedFile {
	if a.NumBuckets < MinContinuityBuckets {
		return nil
	}
	var out []SustainedFile
	for _, f := range a.Files {
		active, possible := Span(f.Buckets, a.FirstBucket(f))
		ratio, ok := Continuity(active, possible)
		if !ok || ratio < minContinuity {
			continue
		}
		out = append(out, SustainedFile{FileActivity: f, Continuity: ratio, Active: active, Possible: possible})
	}
	sort.Slice(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.Continuity != y.Continuity {
			return x.Continuity > y.Continuity
		}
		if x.Lines != y.Lines {
			return x.Lines > y.Lines
		}
		return x.Path < y.Path
	})
	return out
}

// TouchContinuity computes continuity per file from touch lists (oldest
// first), sizing buckets so the history spans about targetBuckets.
func TouchContinuity(commits [][]string, targetBuckets int) map[string]float64 {
	out := make(map[string]float64)
	if len(commits) == 0 {
		return out
	}
	size := TargetBucketSize(len(commits), targetBuckets)
	n := NumBuckets(len(commits), size)

	hist := make(map[string][]int)
	first := make(map[string]int)
	for ci, touched := range commits {
		b := ci / size
		for _, p := range touched {
			h, ok := hist[p]
			if !ok {
				h = make([]int, n)
				hist[p] = h
				first[p] = b
			}
			h[b] = 1
		}
	}
	for p, h := range hist {
		if ratio, ok := Continuity(Span(h, first[p])); ok {
			out[p] = ratio
		}
	}
	return out
}
