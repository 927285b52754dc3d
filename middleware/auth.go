package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/kevinaaaquil/devblog/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userKey contextKey = "user"

// TokenCookie is the name of the cookie the auth handlers set alongside the
// bearer token.
const TokenCookie = "token"

const notAuthorized = "Not authorized to access this route"

type TokenVerifier interface {
	Verify(token string) (primitive.ObjectID, error)
}

type UserFinder interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Protect authenticates the request from an "Authorization: Bearer" header,
// falling back to the token cookie, and loads the user into the context.
// Every failure produces the same 401 body.
func Protect(tokens TokenVerifier, users UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			id, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			user, err := users.UserByID(r.Context(), id)
			if err != nil || user == nil {
				if err != nil {
					log.Printf("protect: load user %s: %v", id.Hex(), err)
				}
				writeError(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "none" {
		return c.Value
	}
	return ""
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return primitive.NilObjectID, false
	}
	return u.ID, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
