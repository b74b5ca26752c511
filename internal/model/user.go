// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is the fixed category chosen at registration. It never changes.
type Role string

const (
	RoleBrand   Role = "brand"
	RoleCreator Role = "creator"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleBrand || r == RoleCreator
}

// User represents a registered identity, either a brand or a creator.
//
// PasswordHash carries the `json:"-"` tag, so a User can be written straight
// into any response: the credential never leaves the server. That is the only
// "password stripping" the handlers need.
//
// Verified is set by seed data only; no workflow changes it.
// FirstPaidCollabDone only means something for creators and flips false→true
// on the first accepted collaboration. It never reverts.
type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                Role      `json:"role"`
	Profile             Profile   `json:"profile"`
	Verified            bool      `json:"verified"`
	FirstPaidCollabDone bool      `json:"firstPaidCollabDone"`
	CreatedAt           time.Time `json:"createdAt"`
}

// IsBrand and IsCreator keep role checks readable at call sites.
func (u *User) IsBrand() bool   { return u != nil && u.Role == RoleBrand }
func (u *User) IsCreator() bool { return u != nil && u.Role == RoleCreator }

// Profile holds the free-form public attributes of a user. Every field is
// optional; creators usually fill niche/platform/audience, brands a company.
type Profile struct {
	Niche           string          `json:"niche,omitempty"`
	Platform        string          `json:"platform,omitempty"`
	Followers       int64           `json:"followers,omitempty"`
	Engagement      float64         `json:"engagement,omitempty"`
	AgeDistribution AgeDistribution `json:"ageDistribution,omitempty"`
	Location        string          `json:"location,omitempty"`
	Bio             string          `json:"bio,omitempty"`
	Company         string          `json:"company,omitempty"`
}
