package history

import (
	"sort"

	"rqs/internal/config"
)

// FileActivity is the per-file histogram and counters.
type FileActivity struct {
	Path      string `json:"path"`
	Commits   int    `json:"commits"`
	Lines     int    `json:"lines"`
	FirstSeen int    `json:"firstSeen"` // index of the first commit touching the file
	Buckets   []int  `json:"buckets"`   // lines changed per bucket
}

// AuthorActivity is the per-author histogram. Buckets count commits.
type AuthorActivity struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
	Lines   int    `json:"lines"`
	Buckets []int  `json:"buckets"`
}

// Activity is a history bucketed into fixed-size commit windows.
type Activity struct {
	Commits    int  `json:"commits"`
	BucketSize int  `json:"bucketSize"`
	NumBuckets int  `json:"numBuckets"`
	AutoSized  bool `json:"autoSized"`

	Files   map[string]*FileActivity   `json:"files"`
	Authors map[string]*AuthorActivity `json:"authors"`

	// CommitSets holds each commit's filtered paths, sorted, in commit order.
	CommitSets [][]string `json:"-"`
}

// Bucketize accumulates commits (oldest first, already author-filtered)
// into buckets of bucketSize commits. A bucketSize <= 0 selects
// AutoBucketSize. Paths rejected by filter still count toward the
// author's commit histogram but not toward lines.
func Bucketize(commits []Commit, bucketSize int, filter Filter) *Activity {
	a := &Activity{
		Files:   make(map[string]*FileActivity),
		Authors: make(map[string]*AuthorActivity),
	}
	if len(commits) == 0 {
		return a
	}
	if bucketSize <= 0 {
		bucketSize = AutoBucketSize(len(commits))
		a.AutoSized = true
	}
	a.Commits = len(commits)
	a.BucketSize = bucketSize
	a.NumBuckets = NumBuckets(len(commits), bucketSize)
	a.CommitSets = make([][]string, 0, len(commits))

	for ci, c := range commits {
		b := ci / bucketSize
		author := a.author(c.Author)
		author.Buckets[b]++
		author.Commits++

		seen := make(map[string]bool, len(c.Files))
		set := make([]string, 0, len(c.Files))
		for _, fc := range c.Files {
			if !filter.MatchPath(fc.Path) {
				continue
			}
			f, ok := a.Files[fc.Path]
			if !ok {
				f = &FileActivity{Path: fc.Path, FirstSeen: ci, Buckets: make([]int, a.NumBuckets)}
				a.Files[fc.Path] = f
			}
			f.Buckets[b] += fc.Lines
			f.Lines += fc.Lines
			author.Lines += fc.Lines
			// a path can repeat within one numstat record
			if !seen[fc.Path] {
				seen[fc.Path] = true
				f.Commits++
				set = append(set, fc.Path)
			}
		}
		sort.Strings(set)
		a.CommitSets = append(a.CommitSets, set)
	}
	return a
}

func (a *Activity) author(name string) *AuthorActivity {
	if name == "" {
		name = UnknownAuthor
	}
	au, ok := a.Authors[name]
	if !ok {
		au = &AuthorActivity{Name: name, Buckets: make([]int, a.NumBuckets)}
		a.Authors[name] = au
	}
	return au
}

// FirstBucket returns the bucket a file first appeared in.
func (a *Activity) FirstBucket(f *FileActivity) int {
	if a.BucketSize <= 0 {
		return 0
	}
	return f.FirstSeen / a.BucketSize
}

// TopFiles returns up to top files with at least minLines changed lines,
// ordered by the sort mode. Ties fall back to path.
func (a *Activity) TopFiles(mode string, minLines, top int) []*FileActivity {
	files := make([]*FileActivity, 0, len(a.Files))
	for _, f := range a.Files {
		if minLines > 0 && f.Lines < minLines {
			continue
		}
		files = append(files, f)
	}

	var less func(x, y *FileActivity) bool
	switch mode {
	case config.SortCommits:
		less = func(x, y *FileActivity) bool {
			if x.Commits != y.Commits {
				return x.Commits > y.Commits
			}
			if x.Lines != y.Lines {
				return x.Lines > y.Lines
			}
			return x.Path < y.Path
		}
	case config.SortInit:
		less = func(x, y *FileActivity) bool {
			if x.FirstSeen != y.FirstSeen {
				return x.FirstSeen < y.FirstSeen
			}
			return x.Path < y.Path
		}
	default:
		less = func(x, y *FileActivity) bool {
			if x.Lines != y.Lines {
				return x.Lines > y.Lines
			}
			return x.Path < y.Path
		}
	}
	sort.Slice(files, func(i, j int) bool { return less(files[i], files[j]) })

	if top > 0 && len(files) > top {
		files = files[:top]
	}
	return files
}

// TopAuthors returns up to n authors by commits, then lines, then name.
func (a *Activity) TopAuthors(n int) []*AuthorActivity {
	authors := make([]*AuthorActivity, 0, len(a.Authors))
	for _, au := range a.Authors {
		authors = append(authors, au)
	}
	sort.Slice(authors, func(i, j int) bool {
		x, y := authors[i], authors[j]
		if x.Commits != y.Commits {
			return x.Commits > y.Commits
		}
		if x.Lines != y.Lines {
			return x.Lines > y.Lines
		}
		return x.Name < y.Name
	})
	if n > 0 && len(authors) > n {
		authors = authors[:n]
	}
	return authors
}

// MaxBucket returns the largest single bucket value across files.
func MaxBucket(files []*FileActivity) int {
	peak := 0
	for _, f := range files {
		for _, v := range f.Buckets {
			peak = max(peak, v)
		}
	}
	return peak
}

// MaxAuthorBucket is MaxBucket for author histograms.
func MaxAuthorBucket(authors []*AuthorActivity) int {
	peak := 0
	for _, au := range authors {
		for _, v := range au.Buckets {
			peak = max(peak, v)
		}
	}
	return peak
}
