package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const (
	ctxKeyUserID contextKey = "user_id"
	ctxKeyRole   contextKey = "role"
)

// TokenVerifier recovers a user identity and role from a bearer token.
type TokenVerifier interface {
	VerifyToken(token string) (primitive.ObjectID, domain.Role, error)
}

// Authenticate rejects requests without a valid bearer token. Every request
// is verified independently; there is no session state.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, role, err := verifier.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
			ctx = context.WithValue(ctx, ctxKeyRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards admin-only routes; it must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if roleFromContext(r.Context()) != domain.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFromContext(ctx context.Context) primitive.ObjectID {
	if userID, ok := ctx.Value(ctxKeyUserID).(primitive.ObjectID); ok {
		return userID
	}
	return primitive.NilObjectID
}

func roleFromContext(ctx context.Context) domain.Role {
	if role, ok := ctx.Value(ctxKeyRole).(domain.Role); ok {
		return role
	}
	return ""
}
