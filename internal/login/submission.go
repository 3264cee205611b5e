package login

import (
	"errors"
	"fmt"
	"sync"
)

var ErrIllegalTransition = errors.New("illegal submission state transition")

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Submission tracks one submit of a login form instance:
// Idle -> Submitting -> Success | Failed. Both outcomes are final for the submit.
// After a failure the form instance is released by the SubmitGuard, and the
// resubmission with edited input runs as a new Submission.
type Submission struct {
	mutex sync.Mutex
	state State
}

func NewSubmission() *Submission {
	return &Submission{state: StateIdle}
}

func (s *Submission) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Begin enters Submitting. A second Begin is rejected.
func (s *Submission) Begin() error {
	return s.transition(StateIdle, StateSubmitting)
}

func (s *Submission) Succeed() error {
	return s.transition(StateSubmitting, StateSuccess)
}

func (s *Submission) Fail() error {
	return s.transition(StateSubmitting, StateFailed)
}

func (s *Submission) transition(from, to State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, to)
	}
	s.state = to
	return nil
}
