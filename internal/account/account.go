package account

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidRecord   = errors.New("invalid account record")
	ErrUnknownRole     = errors.New("unknown role")
)

type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePlayer:
		return RolePlayer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	return string(r)
}

// Account is a single verified record of either role. PasswordHash never leaves the process.
type Account struct {
	ID           int            `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Role         Role           `json:"role"`
	Name         string         `json:"name"`
	Player       *PlayerProfile `json:"player,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type PlayerProfile struct {
	MobileNumber string     `json:"mobileNumber"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Batch        string     `json:"batch"`
	Sport        string     `json:"sport"`
	PlayingRole  string     `json:"playingRole"`
	IsApproved   bool       `json:"isApproved"`
}

// Validate checks the invariants every record must hold once it leaves the store.
func (a *Account) Validate() error {
	if a.Email == "" {
		return fmt.Errorf("%w: empty email", ErrInvalidRecord)
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("%w: empty password hash", ErrInvalidRecord)
	}
	switch a.Role {
	case RolePlayer:
		if a.Player == nil {
			return fmt.Errorf("%w: player without profile", ErrInvalidRecord)
		}
	case RoleAdmin:
		if a.Player != nil {
			return fmt.Errorf("%w: admin with player profile", ErrInvalidRecord)
		}
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrUnknownRole, a.Role)
	}
	return nil
}
