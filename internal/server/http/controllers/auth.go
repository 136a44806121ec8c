package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/JosiasAurel/scrapbook-v2/internal/runtime"
)

// AuthController handles the magic-link login flow.
type AuthController struct {
	rt *runtime.Runtime
}

// NewAuthController creates a new auth controller.
func NewAuthController(rt *runtime.Runtime) *AuthController {
	return &AuthController{rt: rt}
}

// RegisterRoutes registers auth routes with the given mux.
func (c *AuthController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/auth/signup", c.handleSignup)
	mux.HandleFunc("/v1/auth/verify", c.handleVerify)
}

// handleSignup starts the login flow: it ensures the account exists and
// mails a single-use verification link. The response is identical whether
// or not the address was already registered.
func (c *AuthController) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.rt.Auth().RequestLogin(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "sent"})
}

// handleVerify redeems a magic-link token for a session bearer token.
func (c *AuthController) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token")
		return
	}
	sessionToken, err := c.rt.Auth().Verify(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]string{"token": sessionToken})
}
