package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nptech/account-gateway/internal/domain/model"
	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/session"
	"golang.org/x/sync/singleflight"
)

// ProfileChecker decides whether the authenticated user has a complete
// backend profile. Concurrent checks for the same email are collapsed
// into one backend lookup.
type ProfileChecker struct {
	finder  ports.ProfileFinder
	session session.Reader
	logger  *slog.Logger
	group   singleflight.Group
}

// NewProfileChecker creates a checker over the given finder.
func NewProfileChecker(finder ports.ProfileFinder, reader session.Reader, logger *slog.Logger) *ProfileChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileChecker{
		finder:  finder,
		session: reader,
		logger:  logger.With("component", "profile_checker"),
	}
}

// IsComplete reports whether a backend profile exists whose email
// matches the authenticated identity, compared case-insensitively.
// An unauthenticated session or a session without an email is
// incomplete by definition, not an error.
func (c *ProfileChecker) IsComplete(ctx context.Context) (bool, error) {
	snap := c.session.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.Email == "" {
		return false, nil
	}
	email := snap.User.Email

	v, err, _ := c.group.Do(strings.ToLower(email), func() (any, error) {
		return c.finder.FindByEmail(ctx, email)
	})
	if err != nil {
		c.logger.Warn("profile lookup failed", "error", err)
		return false, err
	}

	profile, _ := v.(*model.Profile)
	if profile == nil {
		return false, nil
	}
	return strings.EqualFold(profile.Email, email), nil
}
