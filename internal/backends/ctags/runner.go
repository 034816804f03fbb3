// Package ctags runs Universal or Exuberant ctags and parses its output
// into symbols.Tag values.
package ctags

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"time"

	"rqs/internal/errors"
	"rqs/internal/logging"
	"rqs/internal/symbols"
)

// DefaultTimeout bounds one ctags invocation.
const DefaultTimeout = 10 * time.Second

// batchSize caps the number of files passed to one invocation.
const batchSize = 200

var (
	jsonArgs    = []string{"--output-format=json", "--fields=+nKSse", "-f", "-"}
	classicArgs = []string{"--fields=+nSe", "-f", "-"}
)

// Runner invokes ctags in a repository root.
type Runner struct {
	repoRoot string
	binary   string
	timeout  time.Duration
	logger   *logging.Logger
}

// NewRunner creates a runner. A non-positive timeout uses DefaultTimeout.
func NewRunner(repoRoot string, timeout time.Duration, logger *logging.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Runner{repoRoot: repoRoot, binary: "ctags", timeout: timeout, logger: logger}
}

// IsAvailable reports whether a ctags binary is on PATH.
func (r *Runner) IsAvailable() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Tags runs ctags on files (repository-relative), JSON output first and
// classic output as fallback. A missing binary or timeout yields an error
// the caller treats as "no symbols".
func (r *Runner) Tags(ctx context.Context, files ...string) ([]symbols.Tag, error) {
	var all []symbols.Tag
	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}
		tags, err := r.batch(ctx, files[start:end])
		if err != nil {
			return all, err
		}
		all = append(all, tags...)
	}
	return all, nil
}

func (r *Runner) batch(ctx context.Context, files []string) ([]symbols.Tag, error) {
	var lastErr error
	for _, mode := range [][]string{jsonArgs, classicArgs} {
		args := append(append([]string{}, mode...), files...)
		out, err := r.run(ctx, args)
		if err != nil {
			if errors.HasCode(err, errors.ToolUnavailable) {
				return nil, err
			}
			lastErr = err
			continue
		}
		if len(bytes.TrimSpace(out)) == 0 {
			continue
		}
		res := Parse(bytes.NewReader(out))
		if res.Skipped > 0 {
			r.logger.Debug("Skipped unparseable ctags lines", map[string]interface{}{
				"count": res.Skipped,
			})
		}
		return res.Tags, nil
	}
	return nil, lastErr
}

func (r *Runner) run(ctx context.Context, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.repoRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.New(errors.Timeout, "ctags timed out", err, nil)
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return nil, errors.New(errors.ToolUnavailable, "ctags is not installed", err, nil)
	}
	return nil, errors.New(errors.InternalError, "ctags failed", err, nil).
		WithDetails(map[string]interface{}{"stderr": stderr.String()})
}
