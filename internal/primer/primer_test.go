package primer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rqs/internal/config"
	"rqs/internal/scoring"
)

var fixture = map[string]string{
	"bin/tool": `#!/usr/bin/env bash
set -euo pipefail
cmd="${1:-}"
case "$cmd" in
  scan)
    source "$LIB_DIR/scan.sh"
    cmd_scan "$@"
    ;;
esac
`,
	"lib/scan.sh": `cmd_scan() {
  rm -f "$tmp" 2>/dev/null || true
  echo done
}
`,
	"tests/test_tool.sh": `test_scan() {
  out=$(rqs scan)
  assert_contains "$out" done
}

test_scan_again() {
  rqs scan
}
`,
	"README.md": "# tool\n",
}

func writeFixture(t *testing.T) Input {
	t.Helper()
	root := t.TempDir()
	var files []string
	for rel, text := range fixture {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(text), 0o644))
		files = append(files, rel)
	}
	require.NoError(t, os.Chmod(filepath.Join(root, "bin", "tool"), 0o755))
	return Input{Root: root, Files: files}
}

func build(t *testing.T, level string, in Input) *Report {
	t.Helper()
	cfg := config.DefaultConfig().Primer
	cfg.Level = level
	report, err := NewBuilder(cfg, nil, nil).Build(context.Background(), in)
	require.NoError(t, err)
	return report
}

func TestBuildMedium(t *testing.T) {
	report := build(t, config.LevelMedium, writeFixture(t))

	require.NotEmpty(t, report.Entrypoints)
	assert.Equal(t, "bin/tool", report.Entrypoints[0].Path)
	assert.Contains(t, report.Entrypoints[0].Signals, "case-dispatch")

	require.Len(t, report.Dispatch, 1)
	d := report.Dispatch[0]
	assert.Equal(t, "scan", d.Command)
	assert.Equal(t, "bin/tool", d.EntryFile)
	assert.Equal(t, "lib/scan.sh", d.SourceFile)
	assert.Equal(t, "cmd_scan", d.Handler)

	var scan *scoring.CriticalFile
	for i := range report.Critical {
		if report.Critical[i].Path == "lib/scan.sh" {
			scan = &report.Critical[i]
		}
	}
	require.NotNil(t, scan, "lib/scan.sh should rank on the critical path")
	assert.Equal(t, 1.0, scan.Components.Dispatch)
	assert.Equal(t, 2.0, scan.Components.Test, "two test invocations of a command it handles")

	require.NotNil(t, report.Tests)
	assert.Equal(t, []string{"tests/test_tool.sh"}, report.Tests.Files)
	assert.Equal(t, 2, report.Tests.Cases)
	assert.Equal(t, 1, report.Tests.Assertions)
	require.Len(t, report.Tests.Commands, 1)
	assert.Equal(t, 2, report.Tests.Commands[0].Hits)

	require.NotEmpty(t, report.Boundaries)
	assert.Equal(t, "Strict shell fail-fast mode", report.Boundaries[0].Label)
	require.NotEmpty(t, report.Boundaries[0].Matches)
	assert.Equal(t, "bin/tool", report.Boundaries[0].Matches[0].Path)
	assert.Equal(t, 2, report.Boundaries[0].Matches[0].Line)

	assert.Nil(t, report.Hotspots, "hotspots are heavy-only")
}

func TestBuildLevels(t *testing.T) {
	in := writeFixture(t)

	light := build(t, config.LevelLight, in)
	assert.Empty(t, light.Critical)
	assert.Nil(t, light.Tests)
	assert.Nil(t, light.Hotspots)
	require.NotEmpty(t, light.Entrypoints)
	assert.Zero(t, light.Entrypoints[0].Critical)

	heavy := build(t, config.LevelHeavy, in)
	require.NotEmpty(t, heavy.Hotspots)
	assert.Equal(t, "lib/scan.sh", heavy.Hotspots[0].Path)
	assert.Equal(t, "error suppression", heavy.Hotspots[0].Label)
	assert.True(t, heavy.ShowsHotspots())
}

func TestBuildContinuity(t *testing.T) {
	in := writeFixture(t)
	for i := 0; i < 6; i++ {
		in.Touches = append(in.Touches, []string{"bin/tool"})
	}
	report := build(t, config.LevelMedium, in)
	require.NotEmpty(t, report.Entrypoints)
	assert.Equal(t, 1.0, report.Entrypoints[0].Continuity)
}

func TestBuildEmpty(t *testing.T) {
	report := build(t, config.LevelMedium, Input{Root: t.TempDir()})
	assert.Empty(t, report.Entrypoints)
	assert.Empty(t, report.Dispatch)
	assert.Equal(t, config.LevelMedium, report.Level)
}
