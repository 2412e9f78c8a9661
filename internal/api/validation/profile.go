package validation

import (
	"regexp"

	"github.com/collabhub/collabhub/internal/profile"
)

var instagramHandleRegex = regexp.MustCompile(`^@?[A-Za-z0-9._]{1,30}$`)

// ValidateBrandUpdate validates only the fields present in a brand profile update.
func ValidateBrandUpdate(req profile.BrandUpdate) []FieldError {
	var errs []FieldError

	errs = checkLength(errs, "companyName", req.CompanyName.Value, 255)
	errs = checkLength(errs, "industry", req.Industry.Value, 100)
	errs = checkURL(errs, "website", req.Website.Value)

	return errs
}

// ValidateInfluencerUpdate validates only the fields present in an influencer
// profile update. allowMessages is the one field that cannot be cleared.
func ValidateInfluencerUpdate(req profile.InfluencerUpdate) []FieldError {
	var errs []FieldError

	errs = checkCount(errs, "followerCount", req.FollowerCount.Value)
	errs = checkCount(errs, "pricePerPost", req.PricePerPost.Value)
	errs = checkCount(errs, "pricePerReel", req.PricePerReel.Value)
	errs = checkCount(errs, "pricePerStory", req.PricePerStory.Value)
	errs = checkLength(errs, "niche", req.Niche.Value, 100)

	if h := req.InstagramHandle.Value; h != nil && *h != "" && !instagramHandleRegex.MatchString(*h) {
		errs = append(errs, FieldError{Field: "instagramHandle", Message: "instagramHandle must be 1-30 letters, digits, periods or underscores"})
	}

	if req.AllowMessages.IsNull() {
		errs = append(errs, FieldError{Field: "allowMessages", Message: "allowMessages must not be null"})
	}

	errs = checkURL(errs, "publicLink", req.PublicLink.Value)

	return errs
}
