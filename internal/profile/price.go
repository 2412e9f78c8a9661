package profile

// WithinBudget reports whether at least one of the influencer's post, reel or
// story prices is set and does not exceed maxPrice.
func WithinBudget(p *PublicInfluencer, maxPrice int) bool {
	for _, price := range []*int{p.PricePerPost, p.PricePerReel, p.PricePerStory} {
		if price != nil && *price <= maxPrice {
			return true
		}
	}
	return false
}
