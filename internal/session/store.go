// Package session holds the gateway's single authentication session as
// an observable value: synchronous snapshot reads plus a subscription
// stream that always eventually observes the latest merged state.
package session

import (
	"context"
	"sync"

	"github.com/nptech/account-gateway/internal/domain/auth"
)

// State is the client-side record of current authentication status.
// Invariant: IsAuthenticated implies User != nil and AccessToken != "".
type State struct {
	IsAuthenticated bool
	User            *auth.Identity
	// Loading is true while an auth operation is in flight.
	Loading bool
	// Error holds the last operation's failure message, cleared at the
	// start of the next operation.
	Error        string
	AccessToken  string
	IDToken      string
	RefreshToken string
}

// Patch is a partial update merged into the current State. Nil fields
// leave the current value unchanged; ClearUser nils out User explicitly
// since a nil User pointer alone is indistinguishable from "no change".
type Patch struct {
	IsAuthenticated *bool
	User            *auth.Identity
	ClearUser       bool
	Loading         *bool
	Error           *string
	AccessToken     *string
	IDToken         *string
	RefreshToken    *string
}

// Bool returns a pointer to b for use in a Patch.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s for use in a Patch.
func String(s string) *string { return &s }

func (p Patch) merge(s State) State {
	if p.IsAuthenticated != nil {
		s.IsAuthenticated = *p.IsAuthenticated
	}
	if p.ClearUser {
		s.User = nil
	} else if p.User != nil {
		s.User = p.User
	}
	if p.Loading != nil {
		s.Loading = *p.Loading
	}
	if p.Error != nil {
		s.Error = *p.Error
	}
	if p.AccessToken != nil {
		s.AccessToken = *p.AccessToken
	}
	if p.IDToken != nil {
		s.IDToken = *p.IDToken
	}
	if p.RefreshToken != nil {
		s.RefreshToken = *p.RefreshToken
	}
	return s
}

// Reader is the read-only view of the session handed to guards,
// handlers, and everything else outside the identity adapter.
type Reader interface {
	// Snapshot returns the current state without blocking.
	Snapshot() State
	// Watch returns a channel that delivers the current state and then
	// every subsequent merged state until ctx is canceled. Slow
	// consumers observe the latest state rather than every intermediate
	// one.
	Watch(ctx context.Context) <-chan State
}

// store is the single mutable session record. Mutation happens only
// through the Writer created with it; consumers get the Reader view.
type store struct {
	mu    sync.RWMutex
	state State
	subs  map[int]chan State
	next  int
}

// Writer is the mutation handle for the session store. Exactly one is
// created per store; it is handed to the identity adapter at bootstrap
// and must not escape to other consumers.
type Writer struct {
	st *store
}

// New creates an empty session store and returns its write handle.
func New() *Writer {
	return &Writer{st: &store{subs: make(map[int]chan State)}}
}

// Reader returns the read-only view of the store.
func (w *Writer) Reader() Reader { return w.st }

// Snapshot returns the current state.
func (w *Writer) Snapshot() State { return w.st.Snapshot() }

// Apply merges the patch into the current state and republishes the
// merged snapshot to all subscribers. Updates are applied in call
// order; the result of any sequence of Apply calls is the left-fold of
// the patches over the initial state.
func (w *Writer) Apply(p Patch) {
	st := w.st
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = p.merge(st.state)
	// Publishing under the lock keeps sends ordered with respect to
	// unsubscribe (which closes the channel under the same lock).
	for _, ch := range st.subs {
		publish(ch, st.state)
	}
}

// Reset atomically restores the default unauthenticated state,
// clearing the user and all three tokens together with the flags.
func (w *Writer) Reset() {
	w.Apply(Patch{
		IsAuthenticated: Bool(false),
		ClearUser:       true,
		Loading:         Bool(false),
		Error:           String(""),
		AccessToken:     String(""),
		IDToken:         String(""),
		RefreshToken:    String(""),
	})
}

func (s *store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *store) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	publish(ch, s.state)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

// publish delivers the latest state without blocking: a full buffer is
// drained first so the subscriber always sees the newest value.
func publish(ch chan State, s State) {
	for {
		select {
		case ch <- s:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
