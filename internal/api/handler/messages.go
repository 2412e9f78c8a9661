package handler

import (
	"net/http"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/api/response"
)

type messagingUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	UserType  *string `json:"userType"`
	Onboarded bool    `json:"onboarded"`
}

type messagesCheckResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	User    messagingUser `json:"user"`
}

// MessagesCheck handles GET /api/messages/check. Messaging opens once the
// user has finished onboarding.
func MessagesCheck(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())

	resp := messagesCheckResponse{
		Status:  "ready",
		Message: "Messaging is available",
		User: messagingUser{
			ID:        u.ID.String(),
			Email:     u.Email,
			UserType:  userType(u),
			Onboarded: u.Onboarded,
		},
	}
	if !u.Onboarded {
		resp.Status = "onboarding_required"
		resp.Message = "Complete onboarding to start messaging"
	}

	response.JSON(w, http.StatusOK, resp)
}
