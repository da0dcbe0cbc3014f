package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nptech/account-gateway/internal/domain/auth"
	"github.com/nptech/account-gateway/internal/domain/model"
	mockprofile "github.com/nptech/account-gateway/internal/mocks/profile"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func authenticatedSession(email string) *session.Writer {
	w := session.New()
	w.Apply(session.Patch{
		IsAuthenticated: session.Bool(true),
		User:            &auth.Identity{ID: "u1", Email: email},
		AccessToken:     session.String("at"),
	})
	return w
}

func TestIsCompleteUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := mockprofile.NewMockProfileFinder(ctrl)
	checker := NewProfileChecker(finder, session.New().Reader(), discardLogger())

	complete, err := checker.IsComplete(context.Background())

	require.NoError(t, err)
	assert.False(t, complete)
}

func TestIsCompleteNoProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := mockprofile.NewMockProfileFinder(ctrl)
	finder.EXPECT().FindByEmail(gomock.Any(), "user@example.com").Return(nil, nil)

	w := authenticatedSession("user@example.com")
	checker := NewProfileChecker(finder, w.Reader(), discardLogger())

	complete, err := checker.IsComplete(context.Background())

	require.NoError(t, err)
	assert.False(t, complete)
}

func TestIsCompleteCaseInsensitiveMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := mockprofile.NewMockProfileFinder(ctrl)
	finder.EXPECT().FindByEmail(gomock.Any(), "User@Example.COM").
		Return(&model.Profile{ID: "p1", Email: "user@example.com"}, nil)

	w := authenticatedSession("User@Example.COM")
	checker := NewProfileChecker(finder, w.Reader(), discardLogger())

	complete, err := checker.IsComplete(context.Background())

	require.NoError(t, err)
	assert.True(t, complete)
}

func TestIsCompleteEmailMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := mockprofile.NewMockProfileFinder(ctrl)
	finder.EXPECT().FindByEmail(gomock.Any(), "user@example.com").
		Return(&model.Profile{ID: "p1", Email: "other@example.com"}, nil)

	w := authenticatedSession("user@example.com")
	checker := NewProfileChecker(finder, w.Reader(), discardLogger())

	complete, err := checker.IsComplete(context.Background())

	require.NoError(t, err)
	assert.False(t, complete)
}

func TestIsCompleteLookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	finder := mockprofile.NewMockProfileFinder(ctrl)
	finder.EXPECT().FindByEmail(gomock.Any(), "user@example.com").
		Return(nil, errors.New("backend down"))

	w := authenticatedSession("user@example.com")
	checker := NewProfileChecker(finder, w.Reader(), discardLogger())

	complete, err := checker.IsComplete(context.Background())

	require.Error(t, err)
	assert.False(t, complete)
}

// slowFinder blocks lookups until released so concurrent checks pile
// up behind one in-flight call.
type slowFinder struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *slowFinder) FindByEmail(_ context.Context, email string) (*model.Profile, error) {
	f.calls.Add(1)
	<-f.release
	return &model.Profile{ID: "p1", Email: email}, nil
}

var _ ports.ProfileFinder = (*slowFinder)(nil)

func TestIsCompleteCollapsesConcurrentLookups(t *testing.T) {
	finder := &slowFinder{release: make(chan struct{})}
	w := authenticatedSession("user@example.com")
	checker := NewProfileChecker(finder, w.Reader(), discardLogger())

	const workers = 8
	var wg sync.WaitGroup
	results := make([]bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			complete, err := checker.IsComplete(context.Background())
			assert.NoError(t, err)
			results[i] = complete
		}(i)
	}

	// Let every worker join the in-flight call before the single
	// lookup is allowed to finish.
	time.Sleep(100 * time.Millisecond)
	close(finder.release)
	wg.Wait()

	assert.Equal(t, int32(1), finder.calls.Load())
	for _, complete := range results {
		assert.True(t, complete)
	}
}
