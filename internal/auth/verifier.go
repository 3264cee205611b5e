package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/telemetry/metrics"
	"github.com/2beens/academy/internal/telemetry/tracing"
	"github.com/2beens/academy/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

const DefaultLookupTimeout = 5 * time.Second

//go:generate mockgen -source=$GOFILE -destination=verifier_mocks_test.go -package=auth_test

type accountFinder interface {
	FindByEmail(ctx context.Context, role account.Role, email string) (*account.Account, error)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalized trims surrounding whitespace from the email, keeping its case.
// The password is used exactly as submitted.
func (c Credentials) Normalized() Credentials {
	return Credentials{
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
	}
}

type NewVerifierParams struct {
	Finder        accountFinder
	LookupTimeout time.Duration
	Metrics       *metrics.Manager
	// DummyHashCost is the bcrypt cost used to equalize timing of unknown emails.
	// It should match the cost stored hashes are created with.
	DummyHashCost int
}

type Verifier struct {
	finder        accountFinder
	lookupTimeout time.Duration
	metrics       *metrics.Manager

	// compared against on unknown emails, built up front so the first miss is not slower
	dummyHash string
}

func NewVerifier(params NewVerifierParams) *Verifier {
	lookupTimeout := params.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultLookupTimeout
	}
	dummyHashCost := params.DummyHashCost
	if dummyHashCost == 0 {
		dummyHashCost = pkg.DefaultPasswordHashCost
	}

	dummyHash, err := pkg.HashPasswordWithCost("academy-dummy-password", dummyHashCost)
	if err != nil {
		log.Errorf("verifier: generate dummy hash: %s", err)
	}

	return &Verifier{
		finder:        params.Finder,
		lookupTimeout: lookupTimeout,
		metrics:       params.Metrics,
		dummyHash:     dummyHash,
	}
}

// Verify checks that the credentials identify exactly one account of the given role,
// and that the account may currently log in. On success the full record is returned.
func (v *Verifier) Verify(ctx context.Context, role account.Role, creds Credentials) (_ *account.Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.verifier.verify")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("account.role", role.String()))

	descriptor, err := account.DescriptorFor(role)
	if err != nil {
		return nil, err
	}

	creds = creds.Normalized()
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrEmptyCredentials
	}

	acc, err := v.lookup(ctx, role, creds.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// same work as a wrong password, so response time does not reveal which one it was
			_ = pkg.ComparePasswordHash(creds.Password, v.dummyHash)
		}
		return nil, err
	}

	if err := pkg.ComparePasswordHash(creds.Password, acc.PasswordHash); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Errorf("verifier: stored hash for %s [%d] unusable: %s", role, acc.ID, err)
		}
		return nil, ErrInvalidCredentials
	}

	if !descriptor.Approved(acc) {
		return nil, ErrPendingApproval
	}

	return acc, nil
}

type lookupResult struct {
	acc *account.Account
	err error
}

// lookup bounds the account store call by lookupTimeout, even if the finder ignores ctx.
func (v *Verifier) lookup(ctx context.Context, role account.Role, email string) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.lookupTimeout)
	defer cancel()

	start := time.Now()
	resCh := make(chan lookupResult, 1)
	go func() {
		acc, err := v.finder.FindByEmail(lookupCtx, role, email)
		resCh <- lookupResult{acc: acc, err: err}
	}()

	var res lookupResult
	select {
	case res = <-resCh:
	case <-lookupCtx.Done():
		res = lookupResult{err: lookupCtx.Err()}
	}

	if v.metrics != nil {
		v.metrics.HistAccountLookupDuration.WithLabelValues(role.String()).Observe(time.Since(start).Seconds())
	}

	switch {
	case res.err == nil && res.acc == nil:
		return nil, fmt.Errorf("%w: store returned no record and no error", ErrLookupFailed)
	case res.err == nil:
		return res.acc, nil
	case errors.Is(res.err, account.ErrAccountNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, res.err)
	}
}
