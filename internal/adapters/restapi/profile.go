package restapi

import (
	"context"
	"net/url"

	"github.com/nptech/account-gateway/internal/domain/model"
	apperrors "github.com/nptech/account-gateway/internal/errors"
	"github.com/nptech/account-gateway/internal/ports"
)

// ProfileRepository looks up backend profiles. It implements the
// profile finder port used by the profile-complete guard.
type ProfileRepository struct {
	res *Resource[model.Profile]
}

var _ ports.ProfileFinder = (*ProfileRepository)(nil)

// NewProfileRepository creates a repository over the profiles collection.
func NewProfileRepository(c *Client) *ProfileRepository {
	return &ProfileRepository{res: NewResource[model.Profile](c, "profiles")}
}

// FindByEmail returns the profile stored for the email, or nil when
// none exists. If the backend returns several records the first one
// wins.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	records, _, err := r.res.Find(ctx, url.Values{"email": {email}})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
