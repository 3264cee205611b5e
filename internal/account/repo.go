package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/academy/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=account_test

// querier is the subset of *pgxpool.Pool the repo needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db querier
}

func NewRepo(db querier) *Repo {
	return &Repo{
		db: db,
	}
}

// FindByEmail fetches the one record of the given role whose email equals the input exactly.
func (r *Repo) FindByEmail(ctx context.Context, role Role, email string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.account.find_by_email")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("account.role", role.String()))

	var acc *Account
	switch role {
	case RolePlayer:
		acc, err = r.findPlayer(ctx, email)
	case RoleAdmin:
		acc, err = r.findAdmin(ctx, email)
	default:
		return nil, fmt.Errorf("find by email: %w: %q", ErrUnknownRole, role)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s [query row]: %w", role, err)
	}

	if err := acc.Validate(); err != nil {
		return nil, err
	}

	return acc, nil
}

func (r *Repo) findPlayer(ctx context.Context, email string) (*Account, error) {
	acc := Account{
		Role:   RolePlayer,
		Player: &PlayerProfile{},
	}
	err := r.db.QueryRow(
		ctx,
		`
			SELECT
			    id, email, password_hash, name, created_at,
			    mobile_number, date_of_birth, batch, sport, playing_role, is_approved
			FROM players
			WHERE email = $1
		`,
		email,
	).Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Name,
		&acc.CreatedAt,
		&acc.Player.MobileNumber,
		&acc.Player.DateOfBirth,
		&acc.Player.Batch,
		&acc.Player.Sport,
		&acc.Player.PlayingRole,
		&acc.Player.IsApproved,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repo) findAdmin(ctx context.Context, email string) (*Account, error) {
	acc := Account{
		Role: RoleAdmin,
	}
	err := r.db.QueryRow(
		ctx,
		`
			SELECT
			    id, email, password_hash, name, created_at
			FROM admins
			WHERE email = $1
		`,
		email,
	).Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Name,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
