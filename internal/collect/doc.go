// Package collect reads raw per-file signals from a checkout: line counts,
// bounded text for heuristic scanning, and executable bits. Reads fan out
// across a bounded worker group; results are assembled by the caller's
// goroutine after all workers finish.
package collect
