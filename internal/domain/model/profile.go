// Package model contains domain entities owned by or exchanged with the
// resource backend.
package model

import "time"

// Profile is the backend-owned user profile record, distinct from the
// IdP identity. Existence of a profile matching the authenticated email
// gates access to profile-complete routes; this service only ever
// queries or proxies it, never mutates it directly.
type Profile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName,omitempty"`
	LastName   string     `json:"lastName,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Address1   string     `json:"address1,omitempty"`
	Address2   string     `json:"address2,omitempty"`
	City       string     `json:"city,omitempty"`
	State      string     `json:"state,omitempty"`
	PostalCode string     `json:"postalCode,omitempty"`
	Country    string     `json:"country,omitempty"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	// UpdatedAt participates in the backend's optimistic-concurrency
	// check on delete/deactivate.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// EntityID returns the record identifier.
func (p Profile) EntityID() string { return p.ID }
