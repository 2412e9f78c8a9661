package profile

import "github.com/collabhub/collabhub/internal/user"

// Account is the role-specific view of a user. Exactly one of Unassigned,
// BrandAccount or InfluencerAccount describes any given user.
type Account interface {
	Owner() *user.User
	isAccount()
}

// Unassigned is a user who has not chosen a role yet.
type Unassigned struct {
	User *user.User
}

// BrandAccount is a brand user together with its brand profile.
type BrandAccount struct {
	User    *user.User
	Profile *BrandProfile
}

// InfluencerAccount is an influencer user together with its influencer profile.
type InfluencerAccount struct {
	User    *user.User
	Profile *InfluencerProfile
}

func (a Unassigned) Owner() *user.User        { return a.User }
func (a BrandAccount) Owner() *user.User      { return a.User }
func (a InfluencerAccount) Owner() *user.User { return a.User }

func (Unassigned) isAccount()        {}
func (BrandAccount) isAccount()      {}
func (InfluencerAccount) isAccount() {}
