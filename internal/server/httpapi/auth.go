package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/logging"
)

type AuthHandler struct {
	accounts AccountRegistry
	logger   logging.Logger
}

func NewAuthHandler(accounts AccountRegistry, logger logging.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// signupRequest ignores any role sent by the client; sign-up always creates
// an applicant.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.accounts.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info(r.Context(), "user signed up", "user_id", user.ID)
	writeOK(w, http.StatusCreated, "User created successfully", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w, http.StatusOK, "Logged in", tokenResponse{AccessToken: token, TokenType: "bearer"})
}
