package validation

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/collabhub/collabhub/internal/profile"
)

// ParseInfluencerFilter reads minFollowers, maxPrice and niche from the query.
// Absent or empty parameters do not filter.
func ParseInfluencerFilter(q url.Values) (profile.Filter, []FieldError) {
	var (
		filter profile.Filter
		errs   []FieldError
	)

	filter.MinFollowers, errs = parseNonNegativeInt(q, "minFollowers", errs)
	filter.MaxPrice, errs = parseNonNegativeInt(q, "maxPrice", errs)

	if niche := strings.TrimSpace(q.Get("niche")); niche != "" {
		filter.Niche = &niche
	}

	return filter, errs
}

func parseNonNegativeInt(q url.Values, name string, errs []FieldError) (*int, []FieldError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, errs
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return nil, append(errs, FieldError{Field: name, Message: name + " must be a non-negative integer no greater than 2147483647"})
	}
	v := int(n)
	return &v, errs
}
