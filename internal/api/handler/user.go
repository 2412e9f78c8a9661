package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/api/response"
	"github.com/collabhub/collabhub/internal/user"
)

// UserService assigns roles to users.
type UserService interface {
	SetUserType(ctx context.Context, a user.Assignment) (*user.User, error)
}

type setUserTypeRequest struct {
	UserType string `json:"userType"`
}

type setUserTypeResponse struct {
	Message  string `json:"message"`
	UserType string `json:"userType"`
}

type userResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	UserType  *string `json:"userType"`
	Onboarded bool    `json:"onboarded"`
}

type meResponse struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Email    string  `json:"email"`
	UserType *string `json:"userType"`
}

func userType(u *user.User) *string {
	if u.Role == nil {
		return nil
	}
	s := string(*u.Role)
	return &s
}

// UserHandler handles the current-user endpoints.
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Get handles GET /api/user.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())

	response.JSON(w, http.StatusOK, userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		UserType:  userType(u),
		Onboarded: u.Onboarded,
	})
}

// Me handles GET /api/user/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())

	response.JSON(w, http.StatusOK, meResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		UserType: userType(u),
	})
}

// SetType handles POST /api/user/type. The user row is created from the
// session identity when it does not exist yet.
func (h *UserHandler) SetType(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := middleware.GetIdentity(r.Context())

	var req setUserTypeRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	role, err := user.ParseRole(req.UserType)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_USER_TYPE", "Invalid user type", requestID)
		return
	}

	u, err := h.users.SetUserType(r.Context(), user.Assignment{
		Email:      id.Email,
		ExternalID: id.Subject,
		Name:       id.Name,
		Image:      id.Image,
		Role:       role,
	})
	if err != nil {
		if errors.Is(err, user.ErrInvalidRole) {
			response.Err(w, http.StatusBadRequest, "INVALID_USER_TYPE", "Invalid user type", requestID)
			return
		}
		slog.Error("failed to set user type", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user type", requestID)
		return
	}

	response.JSON(w, http.StatusOK, setUserTypeResponse{
		Message:  "User type updated successfully",
		UserType: string(*u.Role),
	})
}
