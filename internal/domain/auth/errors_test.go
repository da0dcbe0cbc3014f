package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrappingAndKind(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapError(KindInvalidCredentials, "Invalid username or password", cause)

	assert.Equal(t, "Invalid username or password: underlying", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindInvalidCredentials))
	assert.False(t, IsKind(err, KindUserNotFound))
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := NewError(KindTokenExpired, "Session has expired")
	outer := fmt.Errorf("refresh failed: %w", inner)

	assert.True(t, IsKind(outer, KindTokenExpired))
	assert.Equal(t, KindTokenExpired, KindOf(outer))
	assert.Equal(t, "Session has expired", MessageOf(outer))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindNetworkError, KindOf(NewError(KindNetworkError, "down")))
}

func TestMessageOfFallback(t *testing.T) {
	assert.Equal(t, "", MessageOf(nil))
	assert.Equal(t, "plain failure", MessageOf(errors.New("plain failure")))
}
