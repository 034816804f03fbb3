package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ToolUnavailable indicates git or ctags could not be executed
	ToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	// Timeout indicates an external command exceeded its deadline
	Timeout ErrorCode = "TIMEOUT"
	// NotARepository indicates the target directory is not inside a git work tree
	NotARepository ErrorCode = "NOT_A_REPOSITORY"
	// InvalidArgument indicates a bad flag or argument value
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// MissingInput indicates a required input file could not be read
	MissingInput ErrorCode = "MISSING_INPUT"
	// MalformedInput indicates an input file could not be decoded
	MalformedInput ErrorCode = "MALFORMED_INPUT"
	// BudgetInfeasible indicates a budget below the smallest renderable output
	BudgetInfeasible ErrorCode = "BUDGET_INFEASIBLE"
	// ExportFailed indicates the snapshot database could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// ConfigInvalid indicates a configuration value failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	RunCommand  FixActionType = "run-command"
	InstallTool FixActionType = "install-tool"
	EditConfig  FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// RqsError carries a stable code, a message and suggested fixes.
type RqsError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates an RqsError. Fixes default to the ErrorActions entry for code.
func New(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *RqsError {
	if suggestedFixes == nil {
		suggestedFixes = GetSuggestedFixes(code)
	}
	return &RqsError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// Newf is New without a cause and with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *RqsError {
	return New(code, fmt.Sprintf(format, args...), nil, nil)
}

// Error implements the error interface
func (e *RqsError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RqsError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *RqsError) WithDetails(details interface{}) *RqsError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first RqsError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var rerr *RqsError
	if stderrors.As(err, &rerr) {
		return rerr.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an RqsError with code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ToolUnavailable: {
		{
			Type:        InstallTool,
			Tool:        "universal-ctags",
			Description: "Install Universal Ctags for symbol extraction (git is also required)",
		},
	},
	NotARepository: {
		{
			Type:        RunCommand,
			Command:     "git rev-parse --show-toplevel",
			Safe:        true,
			Description: "Verify the target directory is inside a git work tree",
		},
	},
	Timeout: {
		{
			Type:        EditConfig,
			Description: "Raise timeouts.gitMs or timeouts.ctagsMs in .rqs/config.json",
		},
	},
	BudgetInfeasible: {
		{
			Type:        RunCommand,
			Command:     "rqs tree --budget 40",
			Safe:        true,
			Description: "Use a larger line budget",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "rqs config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
