package api_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/collabhub/collabhub/internal/profile"
	"github.com/collabhub/collabhub/internal/user"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*user.User
	brands      map[uuid.UUID]*profile.BrandProfile
	influencers map[uuid.UUID]*profile.InfluencerProfile
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*user.User{},
		brands:      map[uuid.UUID]*profile.BrandProfile{},
		influencers: map[uuid.UUID]*profile.InfluencerProfile{},
	}
}

type memUsers struct{ *memStore }

type memBrands struct{ *memStore }

type memInfluencers struct{ *memStore }

func (s memUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) UpsertRole(_ context.Context, a user.Assignment) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	role := a.Role
	u, ok := s.users[a.Email]
	if !ok {
		u = &user.User{ID: uuid.New(), Email: a.Email, CreatedAt: time.Now()}
		if a.Name != "" {
			u.Name = &a.Name
		}
		s.users[a.Email] = u
	}
	u.Role = &role
	u.Onboarded = role == user.RoleBrand
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (s memBrands) GetByUserID(_ context.Context, id uuid.UUID) (*profile.BrandProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.brands[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s memBrands) Ensure(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.brands[id]; !ok {
		s.brands[id] = &profile.BrandProfile{ID: uuid.New(), UserID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	}
	return nil
}

func apply[T any](dst **T, f profile.Field[T]) {
	if f.Set {
		*dst = f.Value
	}
}

func (s memBrands) Update(ctx context.Context, id uuid.UUID, f profile.BrandUpdate) (*profile.BrandProfile, error) {
	s.mu.Lock()
	p, ok := s.brands[id]
	if ok {
		apply(&p.CompanyName, f.CompanyName)
		apply(&p.Industry, f.Industry)
		apply(&p.Website, f.Website)
	}
	s.mu.Unlock()
	return s.GetByUserID(ctx, id)
}

func (s memInfluencers) GetByUserID(_ context.Context, id uuid.UUID) (*profile.InfluencerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.influencers[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s memInfluencers) Ensure(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.influencers[id]; !ok {
		s.influencers[id] = &profile.InfluencerProfile{ID: uuid.New(), UserID: id, AllowMessages: true}
	}
	return nil
}

func (s memInfluencers) Update(ctx context.Context, id uuid.UUID, f profile.InfluencerUpdate) (*profile.InfluencerProfile, error) {
	s.mu.Lock()
	p, ok := s.influencers[id]
	if ok {
		apply(&p.FollowerCount, f.FollowerCount)
		apply(&p.PricePerPost, f.PricePerPost)
		apply(&p.PricePerReel, f.PricePerReel)
		apply(&p.PricePerStory, f.PricePerStory)
		apply(&p.Niche, f.Niche)
		apply(&p.InstagramHandle, f.InstagramHandle)
		apply(&p.PublicLink, f.PublicLink)
		if f.AllowMessages.Value != nil {
			p.AllowMessages = *f.AllowMessages.Value
		}
	}
	s.mu.Unlock()
	return s.GetByUserID(ctx, id)
}

func (s memInfluencers) public(u *user.User) (*profile.PublicInfluencer, bool) {
	p, ok := s.influencers[u.ID]
	if !ok || !u.HasRole(user.RoleInfluencer) {
		return nil, false
	}
	return &profile.PublicInfluencer{
		ID:              u.ID,
		Name:            u.Name,
		Image:           u.Image,
		FollowerCount:   p.FollowerCount,
		PricePerPost:    p.PricePerPost,
		PricePerReel:    p.PricePerReel,
		PricePerStory:   p.PricePerStory,
		Niche:           p.Niche,
		InstagramHandle: p.InstagramHandle,
		AllowMessages:   p.AllowMessages,
		PublicLink:      p.PublicLink,
	}, true
}

func (s memInfluencers) GetPublic(_ context.Context, id uuid.UUID) (*profile.PublicInfluencer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			if pub, ok := s.public(u); ok {
				return pub, nil
			}
		}
	}
	return nil, profile.ErrNotFound
}

func (s memInfluencers) List(_ context.Context, f profile.Filter) ([]profile.PublicInfluencer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []profile.PublicInfluencer
	for _, u := range s.users {
		pub, ok := s.public(u)
		if !ok {
			continue
		}
		if f.MinFollowers != nil && (pub.FollowerCount == nil || *pub.FollowerCount < *f.MinFollowers) {
			continue
		}
		if f.Niche != nil && (pub.Niche == nil || *pub.Niche != *f.Niche) {
			continue
		}
		out = append(out, *pub)
	}
	sort.Slice(out, func(i, j int) bool {
		return followers(out[i]) > followers(out[j])
	})
	return out, nil
}

func followers(p profile.PublicInfluencer) int {
	if p.FollowerCount == nil {
		return -1
	}
	return *p.FollowerCount
}
