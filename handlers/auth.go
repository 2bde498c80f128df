package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/permissions"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil || !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid username or password")
		return
	}

	expirationTime := time.Now().Add(time.Duration(h.Cfg.JWTExpirationHours) * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "gallerybackend",
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.Cfg.JWTSecret)
	if err != nil {
		log.Printf("auth: Failed to sign token for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "InternalError", "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: tokenString, User: user, ExpiresAt: expirationTime})
}

type RegisterPayload struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	AuthCode  string `json:"auth_code"`
}

func codeMatches(given, configured string) bool {
	return configured != "" && subtle.ConstantTimeCompare([]byte(given), []byte(configured)) == 1
}

// Register creates an account for whoever knows one of the shared
// authorization codes. the admin code grants every gallery permission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" || payload.AuthCode == "" {
		WriteAPIError(w, http.StatusBadRequest, "ValidationError", "Username, password, and authorization code are required")
		return
	}

	var granted []string
	switch {
	case codeMatches(payload.AuthCode, h.Cfg.AuthCodeAdmin):
		granted = permissions.AllGalleryPermissions()
	case codeMatches(payload.AuthCode, h.Cfg.AuthCodeUser):
		granted = []string{}
	default:
		WriteAPIError(w, http.StatusForbidden, "InvalidAuthCode", "The authorization code is not valid")
		return
	}

	newUser := &models.User{
		Username:          payload.Username,
		FirstName:         strings.TrimSpace(payload.FirstName),
		LastName:          strings.TrimSpace(payload.LastName),
		Email:             strings.TrimSpace(payload.Email),
		GlobalPermissions: granted,
	}
	if err := newUser.SetPassword(payload.Password); err != nil {
		log.Printf("auth: Failed to hash password: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "InternalError", "Failed to create user")
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			WriteAPIError(w, http.StatusConflict, "UsernameTaken", "That username is already taken")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	log.Printf("auth: Registered user %s with %d permissions", newUser.Username, len(granted))
	writeJSON(w, http.StatusCreated, newUser)
}

// CurrentUser returns the authenticated user
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
