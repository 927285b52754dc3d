package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HasRole reports whether role is one of allowed.
func HasRole(role string, allowed ...string) bool {
	return slices.Contains(allowed, role)
}

// RequireRole must be mounted after Protect.
func RequireRole(allowed ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, notAuthorized)
				return
			}
			if !HasRole(user.Role, allowed...) {
				writeError(w, http.StatusForbidden,
					fmt.Sprintf("User role %s is not authorized to access this route", user.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsOwner compares the owner recorded on a resource with the acting user.
// A resource without an owner belongs to nobody.
func IsOwner(owner, actor primitive.ObjectID) bool {
	if owner.IsZero() {
		return false
	}
	return owner.Hex() == actor.Hex()
}
