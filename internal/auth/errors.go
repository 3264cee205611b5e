package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/session"
	"github.com/2beens/academy/internal/telemetry/metrics"
)

var (
	ErrEmptyCredentials     = errors.New("empty email or password")
	ErrLookupFailed         = errors.New("account lookup failed")
	ErrNotFound             = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPendingApproval      = errors.New("account pending approval")
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

type MessagePolicy string

const (
	// MessagePolicyMerged renders NotFound and InvalidCredentials with the same text.
	MessagePolicyMerged MessagePolicy = "merged"
	// MessagePolicyDetailed tells the user which of the two fields was wrong.
	MessagePolicyDetailed MessagePolicy = "detailed"
)

func ParseMessagePolicy(s string) (MessagePolicy, error) {
	switch MessagePolicy(s) {
	case MessagePolicyMerged:
		return MessagePolicyMerged, nil
	case MessagePolicyDetailed:
		return MessagePolicyDetailed, nil
	default:
		return "", fmt.Errorf("unknown message policy: %q", s)
	}
}

const (
	MsgEmptyCredentials   = "Please enter your email and password"
	MsgLookupFailed       = "A database error occurred. Please try again."
	MsgInvalidEmailOrPass = "Invalid email or password"
	MsgEmailNotFound      = "Email not found"
	MsgIncorrectPassword  = "Incorrect password"
	MsgPendingApproval    = "Your account is pending approval"
	MsgSessionWriteFailed = "Could not save your session. Please try again."
	MsgInProgress         = "Login already in progress"
	MsgUnknownRole        = "Unknown login page"
	MsgUnexpected         = "Something went wrong. Please try again."
)

// UserMessage maps a login error to the short text shown to the user.
func UserMessage(policy MessagePolicy, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCredentials):
		return MsgEmptyCredentials
	case errors.Is(err, ErrLookupFailed):
		return MsgLookupFailed
	case errors.Is(err, ErrNotFound):
		if policy == MessagePolicyDetailed {
			return MsgEmailNotFound
		}
		return MsgInvalidEmailOrPass
	case errors.Is(err, ErrInvalidCredentials):
		if policy == MessagePolicyDetailed {
			return MsgIncorrectPassword
		}
		return MsgInvalidEmailOrPass
	case errors.Is(err, ErrPendingApproval):
		return MsgPendingApproval
	case errors.Is(err, session.ErrSessionWriteFailed):
		return MsgSessionWriteFailed
	case errors.Is(err, ErrSubmissionInProgress):
		return MsgInProgress
	case errors.Is(err, account.ErrUnknownRole):
		return MsgUnknownRole
	default:
		return MsgUnexpected
	}
}

func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPendingApproval):
		return http.StatusForbidden
	case errors.Is(err, ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, account.ErrUnknownRole):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Outcome is the metrics label for a login error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrEmptyCredentials):
		return metrics.OutcomeEmptyCredentials
	case errors.Is(err, ErrLookupFailed):
		return metrics.OutcomeLookupFailed
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	case errors.Is(err, ErrPendingApproval):
		return metrics.OutcomePendingApproval
	case errors.Is(err, session.ErrSessionWriteFailed):
		return metrics.OutcomeSessionWriteFailed
	case errors.Is(err, ErrSubmissionInProgress):
		return metrics.OutcomeInProgress
	default:
		return metrics.OutcomeUnexpected
	}
}
