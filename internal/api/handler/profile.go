package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/api/response"
	"github.com/collabhub/collabhub/internal/api/validation"
	"github.com/collabhub/collabhub/internal/profile"
	"github.com/collabhub/collabhub/internal/user"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ProfileService is the profile behaviour the handlers depend on.
type ProfileService interface {
	GetOwnBrand(ctx context.Context, u *user.User) (*profile.BrandProfile, error)
	UpdateOwnBrand(ctx context.Context, u *user.User, fields profile.BrandUpdate) (*profile.BrandProfile, error)
	GetOwnInfluencer(ctx context.Context, u *user.User) (*profile.InfluencerProfile, error)
	UpdateOwnInfluencer(ctx context.Context, u *user.User, fields profile.InfluencerUpdate) (*profile.InfluencerProfile, error)
	GetPublicInfluencer(ctx context.Context, id uuid.UUID) (*profile.PublicInfluencer, error)
	ListInfluencers(ctx context.Context, filter profile.Filter) ([]profile.PublicInfluencer, error)
}

type brandProfileResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	CompanyName *string `json:"companyName"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type influencerProfileResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	FollowerCount   *int    `json:"followerCount"`
	PricePerPost    *int    `json:"pricePerPost"`
	PricePerReel    *int    `json:"pricePerReel"`
	PricePerStory   *int    `json:"pricePerStory"`
	Niche           *string `json:"niche"`
	InstagramHandle *string `json:"instagramHandle"`
	AllowMessages   bool    `json:"allowMessages"`
	PublicLink      *string `json:"publicLink"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type publicInfluencerResponse struct {
	ID              string  `json:"id"`
	Name            *string `json:"name"`
	Image           *string `json:"image"`
	FollowerCount   *int    `json:"followerCount"`
	PricePerPost    *int    `json:"pricePerPost"`
	PricePerReel    *int    `json:"pricePerReel"`
	PricePerStory   *int    `json:"pricePerStory"`
	Niche           *string `json:"niche"`
	InstagramHandle *string `json:"instagramHandle"`
	AllowMessages   bool    `json:"allowMessages"`
	PublicLink      *string `json:"publicLink"`
}

type profileBody[T any] struct {
	Profile T `json:"profile"`
}

type influencerListBody struct {
	Influencers []publicInfluencerResponse `json:"influencers"`
}

func toBrandResponse(p *profile.BrandProfile) brandProfileResponse {
	return brandProfileResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		CompanyName: p.CompanyName,
		Industry:    p.Industry,
		Website:     p.Website,
		CreatedAt:   p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   p.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toInfluencerResponse(p *profile.InfluencerProfile) influencerProfileResponse {
	return influencerProfileResponse{
		ID:              p.ID.String(),
		UserID:          p.UserID.String(),
		FollowerCount:   p.FollowerCount,
		PricePerPost:    p.PricePerPost,
		PricePerReel:    p.PricePerReel,
		PricePerStory:   p.PricePerStory,
		Niche:           p.Niche,
		InstagramHandle: p.InstagramHandle,
		AllowMessages:   p.AllowMessages,
		PublicLink:      p.PublicLink,
		CreatedAt:       p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:       p.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toPublicResponse(p *profile.PublicInfluencer) publicInfluencerResponse {
	return publicInfluencerResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Image:           p.Image,
		FollowerCount:   p.FollowerCount,
		PricePerPost:    p.PricePerPost,
		PricePerReel:    p.PricePerReel,
		PricePerStory:   p.PricePerStory,
		Niche:           p.Niche,
		InstagramHandle: p.InstagramHandle,
		AllowMessages:   p.AllowMessages,
		PublicLink:      p.PublicLink,
	}
}

// ProfileHandler handles brand and influencer profile endpoints.
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetBrand handles GET /api/brand/profile.
func (h *ProfileHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	p, err := h.profiles.GetOwnBrand(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		h.writeProfileError(w, err, "failed to get brand profile", requestID)
		return
	}

	response.JSON(w, http.StatusOK, profileBody[brandProfileResponse]{Profile: toBrandResponse(p)})
}

// UpdateBrand handles PUT /api/brand/profile.
func (h *ProfileHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req profile.BrandUpdate
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if fieldErrors := validation.ValidateBrandUpdate(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.profiles.UpdateOwnBrand(r.Context(), middleware.GetUser(r.Context()), req)
	if err != nil {
		h.writeProfileError(w, err, "failed to update brand profile", requestID)
		return
	}

	response.JSON(w, http.StatusOK, profileBody[brandProfileResponse]{Profile: toBrandResponse(p)})
}

// GetInfluencer handles GET /api/influencer/profile.
func (h *ProfileHandler) GetInfluencer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	p, err := h.profiles.GetOwnInfluencer(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		h.writeProfileError(w, err, "failed to get influencer profile", requestID)
		return
	}

	response.JSON(w, http.StatusOK, profileBody[influencerProfileResponse]{Profile: toInfluencerResponse(p)})
}

// UpdateInfluencer handles PUT /api/influencer/profile.
func (h *ProfileHandler) UpdateInfluencer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req profile.InfluencerUpdate
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if fieldErrors := validation.ValidateInfluencerUpdate(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.profiles.UpdateOwnInfluencer(r.Context(), middleware.GetUser(r.Context()), req)
	if err != nil {
		h.writeProfileError(w, err, "failed to update influencer profile", requestID)
		return
	}

	response.JSON(w, http.StatusOK, profileBody[influencerProfileResponse]{Profile: toInfluencerResponse(p)})
}

// GetPublicInfluencer handles GET /api/influencer/{id}. Anything that is not
// an influencer with a profile is reported as not found.
func (h *ProfileHandler) GetPublicInfluencer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Influencer not found", requestID)
		return
	}

	p, err := h.profiles.GetPublicInfluencer(r.Context(), id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Influencer not found", requestID)
			return
		}
		slog.Error("failed to get public influencer", "error", err, "id", id, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get influencer", requestID)
		return
	}

	response.JSON(w, http.StatusOK, toPublicResponse(p))
}

// ListInfluencers handles GET /api/influencers.
func (h *ProfileHandler) ListInfluencers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter, fieldErrors := validation.ParseInfluencerFilter(r.URL.Query())
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "INVALID_PARAM", "Invalid query parameters", fieldErrors, requestID)
		return
	}

	list, err := h.profiles.ListInfluencers(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list influencers", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list influencers", requestID)
		return
	}

	items := make([]publicInfluencerResponse, 0, len(list))
	for i := range list {
		items = append(items, toPublicResponse(&list[i]))
	}
	response.JSON(w, http.StatusOK, influencerListBody{Influencers: items})
}

func (h *ProfileHandler) writeProfileError(w http.ResponseWriter, err error, logMsg, requestID string) {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Profile not found", requestID)
	case errors.Is(err, profile.ErrForbidden):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", requestID)
	default:
		slog.Error(logMsg, "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", requestID)
	}
}

// decodeJSON reads a JSON body capped at 1 MiB. It writes the 400 response
// and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}
