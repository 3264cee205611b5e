package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/telemetry/metrics"
	"github.com/2beens/academy/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSessionWriteFailed = errors.New("session write failed")
	ErrNoSession          = errors.New("no session")
)

// Entry is what a slot holds: a verified account and the time it was committed.
type Entry struct {
	Account     *account.Account `json:"account"`
	CommittedAt time.Time        `json:"committedAt"`
}

type Store struct {
	storage Storage
	metrics *metrics.Manager
	locks   *keyedMutex

	// ability to inject the clock (for unit testing)
	NowFunc func() time.Time
}

func NewStore(storage Storage, metricsManager *metrics.Manager) *Store {
	return &Store{
		storage: storage,
		metrics: metricsManager,
		locks:   newKeyedMutex(),
		NowFunc: time.Now,
	}
}

// Commit writes acc into its role's slot, replacing any previous value, and clears the
// other role's slot. Either both happen or the client's slots are left as they were.
func (s *Store) Commit(ctx context.Context, clientID string, acc *account.Account) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.store.commit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if acc == nil {
		return fmt.Errorf("%w: nil account", ErrSessionWriteFailed)
	}
	span.SetAttributes(attribute.String("account.role", acc.Role.String()))

	descriptor, err := account.DescriptorFor(acc.Role)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSessionWriteFailed, err)
	}
	otherSlot := descriptor.Other().Slot

	value, err := json.Marshal(Entry{
		Account:     acc,
		CommittedAt: s.NowFunc(),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal entry: %w", ErrSessionWriteFailed, err)
	}

	if txStorage, ok := s.storage.(TxStorage); ok {
		if err := txStorage.SetAndRemove(ctx, clientID, descriptor.Slot, value, otherSlot); err != nil {
			return fmt.Errorf("%w: %w", ErrSessionWriteFailed, err)
		}
	} else if err := s.writeThenClear(ctx, clientID, descriptor.Slot, value, otherSlot); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionWriteFailed, err)
	}

	if s.metrics != nil {
		s.metrics.CounterSessionCommits.WithLabelValues(acc.Role.String()).Inc()
	}

	return nil
}

func (s *Store) writeThenClear(ctx context.Context, clientID, slot string, value []byte, otherSlot string) error {
	unlock := s.locks.Lock(clientID)
	defer unlock()

	previous, err := s.storage.Get(ctx, clientID, slot)
	if err != nil && !errors.Is(err, ErrSlotEmpty) {
		return fmt.Errorf("read previous %s: %w", slot, err)
	}

	if err := s.storage.Set(ctx, clientID, slot, value); err != nil {
		return fmt.Errorf("set %s: %w", slot, err)
	}

	if err := s.storage.Remove(ctx, clientID, otherSlot); err != nil {
		// roll back, so the client does not end up holding both roles
		var rollbackErr error
		if previous != nil {
			rollbackErr = s.storage.Set(ctx, clientID, slot, previous)
		} else {
			rollbackErr = s.storage.Remove(ctx, clientID, slot)
		}
		if rollbackErr != nil {
			log.Errorf("session store: rollback of %s for client %s failed: %s", slot, clientID, rollbackErr)
		}
		return fmt.Errorf("remove %s: %w", otherSlot, err)
	}

	return nil
}

// Get returns the session entry of the given role, or ErrNoSession.
func (s *Store) Get(ctx context.Context, clientID string, role account.Role) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.store.get")
	defer func() {
		if errors.Is(err, ErrNoSession) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	descriptor, err := account.DescriptorFor(role)
	if err != nil {
		return nil, err
	}

	if _, tx := s.storage.(TxStorage); !tx {
		unlock := s.locks.Lock(clientID)
		defer unlock()
	}

	value, err := s.storage.Get(ctx, clientID, descriptor.Slot)
	if err != nil {
		if errors.Is(err, ErrSlotEmpty) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get %s: %w", descriptor.Slot, err)
	}

	var entry Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal %s entry: %w", descriptor.Slot, err)
	}
	if entry.Account == nil {
		return nil, fmt.Errorf("%s entry without account", descriptor.Slot)
	}

	return &entry, nil
}

// Clear removes every role slot of the client (logout).
func (s *Store) Clear(ctx context.Context, clientID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.store.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	unlock := s.locks.Lock(clientID)
	defer unlock()

	for _, descriptor := range account.Descriptors() {
		if err := s.storage.Remove(ctx, clientID, descriptor.Slot); err != nil {
			return fmt.Errorf("remove %s: %w", descriptor.Slot, err)
		}
	}

	return nil
}
