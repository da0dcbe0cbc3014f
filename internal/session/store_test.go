package session

import (
	"context"
	"testing"
	"time"

	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMergesPatches(t *testing.T) {
	w := New()

	w.Apply(Patch{Loading: Bool(true), Error: String("")})
	w.Apply(Patch{AccessToken: String("at"), IDToken: String("it")})
	w.Apply(Patch{
		IsAuthenticated: Bool(true),
		User:            &auth.Identity{ID: "u1", Email: "a@b.com"},
		Loading:         Bool(false),
	})

	got := w.Snapshot()
	assert.True(t, got.IsAuthenticated)
	require.NotNil(t, got.User)
	assert.Equal(t, "u1", got.User.ID)
	assert.False(t, got.Loading)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "it", got.IDToken)
}

func TestApplyNilFieldsLeaveStateUnchanged(t *testing.T) {
	w := New()
	w.Apply(Patch{AccessToken: String("at"), Error: String("boom")})

	w.Apply(Patch{Loading: Bool(true)})

	got := w.Snapshot()
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "boom", got.Error)
	assert.True(t, got.Loading)
}

func TestClearUser(t *testing.T) {
	w := New()
	w.Apply(Patch{User: &auth.Identity{ID: "u1"}})

	w.Apply(Patch{ClearUser: true})

	assert.Nil(t, w.Snapshot().User)
}

func TestResetClearsEverythingAtomically(t *testing.T) {
	w := New()
	w.Apply(Patch{
		IsAuthenticated: Bool(true),
		User:            &auth.Identity{ID: "u1"},
		AccessToken:     String("at"),
		IDToken:         String("it"),
		RefreshToken:    String("rt"),
		Error:           String("stale"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Reader().Watch(ctx)
	<-ch // current state

	w.Reset()

	got := <-ch
	assert.Equal(t, State{}, got)
	assert.Equal(t, State{}, w.Snapshot())
}

func TestWatchDeliversCurrentStateFirst(t *testing.T) {
	w := New()
	w.Apply(Patch{AccessToken: String("at")})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Reader().Watch(ctx)

	select {
	case got := <-ch:
		assert.Equal(t, "at", got.AccessToken)
	case <-time.After(time.Second):
		t.Fatal("expected immediate delivery of current state")
	}
}

func TestWatchSlowConsumerSeesLatestState(t *testing.T) {
	w := New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := w.Reader().Watch(ctx)

	// Fill the buffer while nobody reads.
	for i := 0; i < 10; i++ {
		w.Apply(Patch{Error: String("intermediate")})
	}
	w.Apply(Patch{Error: String("final")})

	got := <-ch
	assert.Equal(t, "final", got.Error)
}

func TestWatchClosesOnCancel(t *testing.T) {
	w := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := w.Reader().Watch(ctx)
	<-ch

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after cancel")
	}
}

func TestApplySequenceIsLeftFold(t *testing.T) {
	w := New()

	w.Apply(Patch{Error: String("first")})
	w.Apply(Patch{Error: String("second")})
	w.Apply(Patch{Loading: Bool(true)})

	got := w.Snapshot()
	assert.Equal(t, "second", got.Error)
	assert.True(t, got.Loading)
}
