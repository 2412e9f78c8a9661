package profile

import (
	"time"

	"github.com/google/uuid"
)

// BrandProfile represents a row in the brand_profiles table.
type BrandProfile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CompanyName *string
	Industry    *string
	Website     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InfluencerProfile represents a row in the influencer_profiles table.
type InfluencerProfile struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	FollowerCount   *int
	PricePerPost    *int
	PricePerReel    *int
	PricePerStory   *int
	Niche           *string
	InstagramHandle *string
	AllowMessages   bool
	PublicLink      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicInfluencer is the subset of an influencer visible without authentication.
type PublicInfluencer struct {
	ID              uuid.UUID
	Name            *string
	Image           *string
	FollowerCount   *int
	PricePerPost    *int
	PricePerReel    *int
	PricePerStory   *int
	Niche           *string
	InstagramHandle *string
	AllowMessages   bool
	PublicLink      *string
}

// BrandUpdate holds a partial update to a brand profile. Fields whose Set is
// false are left untouched.
type BrandUpdate struct {
	CompanyName Field[string] `json:"companyName"`
	Industry    Field[string] `json:"industry"`
	Website     Field[string] `json:"website"`
}

// InfluencerUpdate holds a partial update to an influencer profile.
type InfluencerUpdate struct {
	FollowerCount   Field[int]    `json:"followerCount"`
	PricePerPost    Field[int]    `json:"pricePerPost"`
	PricePerReel    Field[int]    `json:"pricePerReel"`
	PricePerStory   Field[int]    `json:"pricePerStory"`
	Niche           Field[string] `json:"niche"`
	InstagramHandle Field[string] `json:"instagramHandle"`
	AllowMessages   Field[bool]   `json:"allowMessages"`
	PublicLink      Field[string] `json:"publicLink"`
}

// Filter narrows the influencer listing. Nil fields do not filter.
type Filter struct {
	MinFollowers *int
	MaxPrice     *int
	Niche        *string
}
