package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/auth"
	"github.com/2beens/academy/internal/telemetry/metrics"
	"github.com/2beens/academy/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=flow_mocks_test.go -package=login_test

type credentialVerifier interface {
	Verify(ctx context.Context, role account.Role, creds auth.Credentials) (*account.Account, error)
}

type sessionCommitter interface {
	Commit(ctx context.Context, clientID string, acc *account.Account) error
}

type SubmitRequest struct {
	Role        account.Role
	ClientID    string
	FormID      string
	Credentials auth.Credentials
}

type SubmitResult struct {
	FormID   string
	State    State
	Account  *account.Account
	Redirect string
	// Message is the user-facing text of a failure
	Message string
}

type NewFlowParams struct {
	Verifier      credentialVerifier
	Sessions      sessionCommitter
	Guard         SubmitGuard
	Navigator     *Navigator
	Metrics       *metrics.Manager
	MessagePolicy auth.MessagePolicy
}

// Flow runs one login submission: guard, verify, commit, navigate.
// On any failure the client's existing session slots are left as they were.
type Flow struct {
	verifier      credentialVerifier
	sessions      sessionCommitter
	guard         SubmitGuard
	navigator     *Navigator
	metrics       *metrics.Manager
	messagePolicy auth.MessagePolicy
}

func NewFlow(params NewFlowParams) *Flow {
	navigator := params.Navigator
	if navigator == nil {
		navigator = NewNavigator()
	}
	messagePolicy := params.MessagePolicy
	if messagePolicy == "" {
		messagePolicy = auth.MessagePolicyMerged
	}

	return &Flow{
		verifier:      params.Verifier,
		sessions:      params.Sessions,
		guard:         params.Guard,
		navigator:     navigator,
		metrics:       params.Metrics,
		messagePolicy: messagePolicy,
	}
}

func (f *Flow) MessagePolicy() auth.MessagePolicy {
	return f.messagePolicy
}

// DefaultFormID is the form instance of a submit that does not name one.
// All such submits of a browser for the same role share it, so repeated clicks
// are still caught by the SubmitGuard.
func DefaultFormID(role account.Role) string {
	return "default-" + role.String()
}

// Submit never returns a nil result. The returned error is the failure classification.
func (f *Flow) Submit(ctx context.Context, req SubmitRequest) (_ *SubmitResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "login.flow.submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("account.role", req.Role.String()))

	formID := req.FormID
	if formID == "" {
		formID = DefaultFormID(req.Role)
	}
	result := &SubmitResult{FormID: formID}

	submission := NewSubmission()
	if err := submission.Begin(); err != nil {
		return nil, err
	}
	result.State = submission.State()

	release, err := f.guard.Acquire(ctx, req.ClientID, formID)
	if err != nil {
		if !errors.Is(err, auth.ErrSubmissionInProgress) {
			// the guard store is down, treat like any other storage failure
			err = fmt.Errorf("%w: %w", auth.ErrLookupFailed, err)
		}
		return f.fail(req, submission, result, err)
	}
	defer release()

	acc, err := f.verifier.Verify(ctx, req.Role, req.Credentials)
	if err != nil {
		return f.fail(req, submission, result, err)
	}

	redirect, err := f.navigator.Landing(acc.Role)
	if err != nil {
		return f.fail(req, submission, result, err)
	}

	if err := f.sessions.Commit(ctx, req.ClientID, acc); err != nil {
		return f.fail(req, submission, result, err)
	}

	if err := submission.Succeed(); err != nil {
		return nil, err
	}

	if f.metrics != nil {
		f.metrics.LoginAttempt(req.Role.String(), metrics.OutcomeSuccess)
	}
	log.WithFields(log.Fields{
		"role":  req.Role,
		"email": acc.Email,
		"id":    acc.ID,
	}).Infoln("login succeeded")

	result.State = submission.State()
	result.Account = acc
	result.Redirect = redirect
	return result, nil
}

func (f *Flow) fail(req SubmitRequest, submission *Submission, result *SubmitResult, err error) (*SubmitResult, error) {
	if transitionErr := submission.Fail(); transitionErr != nil {
		log.Errorf("login flow: %s", transitionErr)
	}

	outcome := auth.Outcome(err)
	if f.metrics != nil {
		f.metrics.LoginAttempt(req.Role.String(), outcome)
	}

	entry := log.WithFields(log.Fields{
		"role":    req.Role,
		"email":   req.Credentials.Normalized().Email,
		"outcome": outcome,
	})
	switch {
	case errors.Is(err, auth.ErrNotFound),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrPendingApproval),
		errors.Is(err, auth.ErrEmptyCredentials),
		errors.Is(err, auth.ErrSubmissionInProgress):
		entry.Warnf("login rejected: %s", err)
	default:
		entry.Errorf("login failed: %s", err)
	}

	result.State = submission.State()
	result.Message = auth.UserMessage(f.messagePolicy, err)
	return result, err
}
