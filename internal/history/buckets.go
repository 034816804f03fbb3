package history

import "math"

const (
	// FullResolutionCommits is the longest history kept at one commit per bucket.
	FullResolutionCommits = 60
	targetBuckets         = 50
	minBuckets            = 30
	maxBuckets            = 60
)

// AutoBucketSize picks a bucket size giving roughly 50 buckets, clamped to
// 30..60 buckets where the history allows it. Histories of at most 60
// commits keep one commit per bucket.
func AutoBucketSize(commits int) int {
	if commits <= FullResolutionCommits {
		return 1
	}
	size := max(1, roundHalfEven(float64(commits)/targetBuckets))
	if ceilDiv(commits, size) > maxBuckets {
		size = ceilDiv(commits, maxBuckets)
	}
	if ceilDiv(commits, size) < minBuckets {
		size = max(1, commits/minBuckets)
	}
	return size
}

// TargetBucketSize sizes buckets so a history spans about target buckets.
func TargetBucketSize(commits, target int) int {
	if target <= 0 {
		return 1
	}
	return max(1, roundHalfEven(float64(commits)/float64(target)))
}

// NumBuckets returns how many buckets of size cover commits.
func NumBuckets(commits, size int) int {
	if commits <= 0 || size <= 0 {
		return 0
	}
	return ceilDiv(commits, size)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Halves round to the even neighbour so 125 commits split into size-2
// buckets.
func roundHalfEven(f float64) int {
	return int(math.RoundToEven(f))
}
