// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Custom error types and error codes for MCP responses.

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"schoolrank/internal/dataset"
	"schoolrank/internal/presets"
	"schoolrank/internal/ranking"
)

type ErrorCode string

const (
	CodeInvalidWeights ErrorCode = "INVALID_WEIGHTS"
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeUnavailable    ErrorCode = "UNAVAILABLE"
	CodeTimeout        ErrorCode = "TIMEOUT"
	CodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

type SchoolRankError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *SchoolRankError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func New(code ErrorCode, msg, hint string, details map[string]any) *SchoolRankError {
	return &SchoolRankError{Code: code, Message: msg, Hint: hint, Details: sanitize(details)}
}

func NewInvalidInput(msg, hint string, details map[string]any) *SchoolRankError {
	return New(CodeInvalidInput, msg, hint, details)
}

// NewInvalidWeights reports a rejected weight map. Key and weight are only
// included when a single entry is at fault.
func NewInvalidWeights(ve *ranking.ValidationError) *SchoolRankError {
	details := map[string]any{"reason": ve.Reason}
	if ve.Key != "" {
		details["key"] = ve.Key
		details["weight"] = ve.Weight
	}
	return New(CodeInvalidWeights, ve.Error(), "use list_criteria for valid keys; weights must be >= 0 with a positive sum", details)
}

func NewNotFound(kind, id string) *SchoolRankError {
	return New(CodeNotFound, kind+" not found", "check the identifier against list output", map[string]any{kind: id})
}

func NewUnavailable(msg string) *SchoolRankError {
	return New(CodeUnavailable, msg, "load or reload the dataset", nil)
}

func NewTimeout(msg string) *SchoolRankError {
	return New(CodeTimeout, msg, "retry or narrow the request", nil)
}

func NewInternal(err error) *SchoolRankError {
	if err == nil {
		return New(CodeInternalError, "internal error", "see logs", nil)
	}
	return New(CodeInternalError, "internal error", "see logs", map[string]any{"cause": scrub(err.Error())})
}

// ToToolError converts any error to a SchoolRankError;
// unknown errors are wrapped as internal error with scrubbed message.
func ToToolError(err error) *SchoolRankError {
	if err == nil {
		return nil
	}
	var me *SchoolRankError
	if stderrors.As(err, &me) {
		return me
	}
	var ve *ranking.ValidationError
	if stderrors.As(err, &ve) {
		return NewInvalidWeights(ve)
	}
	switch {
	case stderrors.Is(err, presets.ErrNotFound):
		return New(CodeNotFound, err.Error(), "use list_presets for available names", nil)
	case stderrors.Is(err, dataset.ErrNotLoaded):
		return NewUnavailable(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeout(err.Error())
	case stderrors.Is(err, context.Canceled):
		return New(CodeUnavailable, "request cancelled", "", nil)
	case stderrors.Is(err, fs.ErrNotExist):
		return New(CodeNotFound, "file not found", "check data_dir and presets_file", map[string]any{"cause": scrub(err.Error())})
	}
	return NewInternal(err)
}

func sanitize(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		switch v.(type) {
		case float64, int, bool:
			out[k] = v
		default:
			out[k] = scrub(fmt.Sprint(v))
		}
	}
	return out
}

// scrub best-effort masks secrets/DSNs by replacing common patterns.
func scrub(s string) string {
	// lightweight scrub: do not leak raw DSNs or secrets
	replacements := []struct{ find, repl string }{
		{"postgres://", "postgres://***:***@"},
		{"postgresql://", "postgresql://***:***@"},
		{"password=", "password=***"},
		{"pwd=", "pwd=***"},
	}
	out := s
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.find, r.repl)
	}
	return out
}
