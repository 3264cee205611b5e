package session

import (
	"context"
	"errors"
)

var ErrSlotEmpty = errors.New("session slot empty")

//go:generate mockgen -source=$GOFILE -destination=storage_mocks_test.go -package=session_test

// Storage is a browser-scoped key/value surface. Each client has a fixed set of named slots.
type Storage interface {
	Get(ctx context.Context, clientID, slot string) ([]byte, error)
	Set(ctx context.Context, clientID, slot string, value []byte) error
	Remove(ctx context.Context, clientID, slot string) error
}

// TxStorage writes one slot and clears another as a single atomic step.
type TxStorage interface {
	Storage
	SetAndRemove(ctx context.Context, clientID, setSlot string, value []byte, removeSlot string) error
}
