package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gmarket/export-svc/internal/service/models/user"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const identityKey contextKey = "auth.identity"

const bearerPrefix = "bearer"

// Claims is the JWT payload issued by the access-control collaborator. The
// subject is the user's document id.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Middleware authenticates requests and gates admin-only routes.
type Middleware struct {
	secret []byte
}

// New creates auth middleware verifying tokens with the given HMAC secret.
func New(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// Authenticate verifies the bearer token and threads the caller identity
// into the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := m.identityFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())

			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the admin role. Must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated")

			return
		}
		if !ident.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")

			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext extracts the authenticated caller identity.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(user.Identity)

	return ident, ok
}

// WithIdentity returns a context carrying the given identity. Intended for
// tests.
func WithIdentity(ctx context.Context, ident user.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func (m *Middleware) identityFromRequest(r *http.Request) (user.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return user.Identity{}, errMissingHeader
	}

	fields := strings.Fields(header)
	if len(fields) != 2 || strings.ToLower(fields[0]) != bearerPrefix {
		return user.Identity{}, errInvalidHeader
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(fields[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigning
		}

		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return user.Identity{}, errInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return user.Identity{}, errInvalidToken
	}

	return user.Identity{
		UserID:   userID,
		Username: claims.Username,
		Email:    claims.Email,
		IsAdmin:  claims.IsAdmin,
	}, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
