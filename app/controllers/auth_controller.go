package controllers

import (
	"net/http"

	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/services"
)

// AuthController handles registration and sessions
type AuthController struct {
	users  *services.UserService
	tokens *auth.Manager
}

func NewAuthController(users *services.UserService, tokens *auth.Manager) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and starts a session for it
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := decodeJSON(w, r, &reg); err != nil {
		sendError(w, r, err)
		return
	}

	user, err := ac.users.Register(r.Context(), reg)
	if err != nil {
		sendError(w, r, err)
		return
	}
	ac.startSession(w, r, user, http.StatusCreated, "Registration successful!")
}

// Login checks credentials and starts a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		sendError(w, r, err)
		return
	}

	user, err := ac.users.Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		sendError(w, r, err)
		return
	}
	ac.startSession(w, r, user, http.StatusOK, "Login successful!")
}

// Logout clears the session cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, ac.tokens.ExpiredCookie())
	sendJSON(w, http.StatusOK, envelope{"message": "Logged out successfully."})
}

// Me returns the current user
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		sendError(w, r, services.ErrUnauthorized)
		return
	}
	sendJSON(w, http.StatusOK, envelope{"user": newUser(user)})
}

func (ac *AuthController) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int, message string) {
	token, expires, err := ac.tokens.Issue(user.ID)
	if err != nil {
		sendError(w, r, err)
		return
	}
	http.SetCookie(w, ac.tokens.Cookie(token, expires))
	sendJSON(w, status, envelope{
		"message":    message,
		"user":       newUser(user),
		"token":      token,
		"expires_at": expires.UTC(),
	})
}
