package mcp

import (
	"errors"
	"fmt"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking"
	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// APIError represents a coded tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain and API errors to coded tool errors. Unknown
// errors return nil and are reported verbatim.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, toggl.ErrAuthFailed):
		return &APIError{Code: "AUTH_FAILED", Message: "Toggl rejected the API token", RecoveryHint: "Check TOGGL_API_TOKEN"}
	case errors.Is(err, toggl.ErrRateLimited):
		return &APIError{Code: "RATE_LIMITED", Message: "Toggl API rate limit exceeded", RecoveryHint: "Wait a minute and retry"}
	case errors.Is(err, toggl.ErrPremiumRequired):
		return &APIError{Code: "PREMIUM_REQUIRED", Message: "this report requires a paid Toggl plan", RecoveryHint: "Upgrade the workspace plan"}
	case errors.Is(err, toggl.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "resource not found", RecoveryHint: "Check the workspace ID"}
	case errors.Is(err, tracking.ErrNoRunningEntry):
		return &APIError{Code: "NO_RUNNING_ENTRY", Message: "no time entry is currently running", RecoveryHint: "Start tracking first"}
	case errors.Is(err, tracking.ErrMissingDescription):
		return &APIError{Code: "MISSING_DESCRIPTION", Message: "description is required", RecoveryHint: "Provide a description"}
	case errors.Is(err, report.ErrInvalidDate),
		errors.Is(err, report.ErrInvalidRange),
		errors.Is(err, report.ErrPartialRange):
		return &APIError{Code: "INVALID_DATE_RANGE", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD for start_date and end_date"}
	case errors.Is(err, report.ErrUnknownPeriod):
		return &APIError{Code: "INVALID_PERIOD", Message: err.Error(), RecoveryHint: "Use week, month, quarter or year"}
	case errors.Is(err, report.ErrUnknownSortKey):
		return &APIError{Code: "INVALID_SORT_KEY", Message: err.Error(), RecoveryHint: "Use profit, revenue, margin or hours"}
	default:
		return nil
	}
}

// errorText renders an error for a tool result, preferring the coded
// form when the error is recognized.
func errorText(err error) string {
	if apiErr := MapError(err); apiErr != nil {
		if apiErr.RecoveryHint != "" {
			return fmt.Sprintf("Error %s: %s. %s.", apiErr.Code, apiErr.Message, apiErr.RecoveryHint)
		}
		return fmt.Sprintf("Error %s: %s.", apiErr.Code, apiErr.Message)
	}
	return fmt.Sprintf("Error: %v", err)
}
