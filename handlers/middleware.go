package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/permissions"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// UserFromContext returns the authenticated user of a request
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// bearerToken reads the token from the Authorization header. websocket
// clients cannot set headers, so a token query parameter is accepted too.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := r.URL.Query().Get("token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware verifies the bearer token and puts its user in the request
// context.
func AuthMiddleware(userRepo repository.UserRepository, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "Authorization header format must be Bearer {token}")
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token")
				return
			}

			var userID uint
			if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
				log.Printf("auth: Error parsing userID from token subject '%s': %v", claims.Subject, err)
				WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
				return
			}

			user, err := userRepo.GetByID(userID)
			if err != nil {
				// deleted after the token was issued
				WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGlobalPermission rejects users without permission. It must run
// after AuthMiddleware.
func RequireGlobalPermission(permission string) func(http.Handler) http.Handler {
	if !permissions.IsValidPermissionKey(permission) {
		panic(fmt.Sprintf("handlers: unknown permission %q", permission))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
				return
			}
			if !user.HasGlobalPermission(permission) {
				WriteAPIError(w, http.StatusForbidden, "Forbidden", fmt.Sprintf("requires permission '%s'", permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
