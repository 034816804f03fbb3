package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("exec: \"ctags\": executable file not found in $PATH")
	err := New(ToolUnavailable, "ctags not found", cause, nil)

	if err.Code != ToolUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ToolUnavailable)
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("expected default fix for %s, got %d", ToolUnavailable, len(err.SuggestedFixes))
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestRqsError_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       *RqsError
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       New(Timeout, "git log timed out", errors.New("signal: killed"), nil),
			wantParts: []string{"TIMEOUT", "git log timed out", "signal: killed"},
		},
		{
			name:      "formatted without cause",
			err:       Newf(InvalidArgument, "unknown sort mode %q", "size"),
			wantParts: []string{"INVALID_ARGUMENT", `unknown sort mode "size"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, missing %q", got, part)
				}
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	base := New(MalformedInput, "bad churn summary", nil, nil)
	wrapped := fmt.Errorf("loading churn data: %w", base)

	if CodeOf(wrapped) != MalformedInput {
		t.Errorf("CodeOf(wrapped) = %q", CodeOf(wrapped))
	}
	if !HasCode(wrapped, MalformedInput) {
		t.Error("HasCode should see through wrapping")
	}
	if HasCode(nil, MalformedInput) {
		t.Error("nil error has no code")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(InternalError, "boom", nil, nil).WithDetails(map[string]interface{}{"args": []string{"log"}})
	if err.Details == nil {
		t.Fatal("details not set")
	}
	if GetSuggestedFixes(InternalError) != nil {
		t.Error("internal errors have no suggested fixes")
	}
}
