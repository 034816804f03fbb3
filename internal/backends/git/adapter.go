// Package git runs the git commands that feed rqs: tracked file enumeration
// and the two history logs. Every call runs under a timeout.
package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"rqs/internal/errors"
	"rqs/internal/logging"
)

// DefaultTimeout bounds a single git invocation when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Adapter executes git in a repository root.
type Adapter struct {
	repoRoot string
	timeout  time.Duration
	logger   *logging.Logger
}

// NewAdapter creates an adapter for repoRoot. A non-positive timeout uses
// DefaultTimeout.
func NewAdapter(repoRoot string, timeout time.Duration, logger *logging.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Adapter{repoRoot: repoRoot, timeout: timeout, logger: logger}
}

// RepoRoot returns the directory git runs in.
func (g *Adapter) RepoRoot() string {
	return g.repoRoot
}

// IsAvailable reports whether git can be executed.
func IsAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepository reports whether the root is inside a git work tree.
func (g *Adapter) IsRepository(ctx context.Context) bool {
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// TopLevel returns the absolute work tree root.
func (g *Adapter) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// HeadCommit returns the full HEAD hash, or "" for a repository without commits.
func (g *Adapter) HeadCommit(ctx context.Context) string {
	out, err := g.run(ctx, "rev-parse", "--verify", "-q", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// TrackedFiles lists repository-relative paths from the index, in git order.
func (g *Adapter) TrackedFiles(ctx context.Context, pathspec ...string) ([]string, error) {
	args := []string{"-c", "core.quotepath=off", "ls-files", "-z"}
	if len(pathspec) > 0 {
		args = append(args, "--")
		args = append(args, pathspec...)
	}
	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitNul(out), nil
}

// LogOptions narrows a history query.
type LogOptions struct {
	Since    string   // passed to --since when set
	MaxCount int      // 0 = unlimited
	Paths    []string // pathspec
}

func (o LogOptions) args() []string {
	var args []string
	if o.Since != "" {
		args = append(args, "--since="+o.Since)
	}
	if o.MaxCount > 0 {
		args = append(args, "-n", strconv.Itoa(o.MaxCount))
	}
	if len(o.Paths) > 0 {
		args = append(args, "--")
		args = append(args, o.Paths...)
	}
	return args
}

// NumstatLog returns `git log --numstat` text with a "COMMIT\t<author>"
// header per commit, newest first.
func (g *Adapter) NumstatLog(ctx context.Context, opts LogOptions) (string, error) {
	args := append([]string{"-c", "core.quotepath=off", "log", "--no-renames",
		"--pretty=format:COMMIT%x09%an", "--numstat"}, opts.args()...)
	out, err := g.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// TouchLog returns `git log --name-only` text with a bare "COMMIT" line per
// commit, newest first.
func (g *Adapter) TouchLog(ctx context.Context, opts LogOptions) (string, error) {
	args := append([]string{"-c", "core.quotepath=off", "log", "--no-renames",
		"--pretty=format:COMMIT", "--name-only"}, opts.args()...)
	out, err := g.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// run executes git with the adapter timeout and classifies failures.
func (g *Adapter) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	g.logger.Debug("Executing git command", map[string]interface{}{
		"args":    args,
		"timeout": g.timeout.String(),
	})

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.New(errors.Timeout, "git command timed out", err, nil).
			WithDetails(map[string]interface{}{"args": args, "timeout": g.timeout.String()})
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return nil, errors.New(errors.ToolUnavailable, "git is not installed", err, nil)
	}

	msg := strings.TrimSpace(stderr.String())
	if strings.Contains(msg, "not a git repository") {
		return nil, errors.New(errors.NotARepository, "not inside a git repository", err, nil).
			WithDetails(map[string]interface{}{"root": g.repoRoot})
	}
	return nil, errors.New(errors.InternalError, "git command failed", err, nil).
		WithDetails(map[string]interface{}{"args": args, "stderr": msg})
}

func splitNul(out []byte) []string {
	parts := bytes.Split(out, []byte{0})
	files := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(string(p)); s != "" {
			files = append(files, s)
		}
	}
	return files
}
