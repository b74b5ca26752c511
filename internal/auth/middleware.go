package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/collabhub/internal/model"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the values stored here.
type contextKey string

const userKey contextKey = "user"

// UserLookup resolves the subject of a token to a live user record.
// repository.UserRepository satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

var (
	errNoBearer    = errors.New("auth: missing bearer token")
	errUnknownUser = errors.New("auth: token names an unknown user")
	errRoleChanged = errors.New("auth: token role does not match user")
)

const (
	msgAuthRequired = "valid authentication required"
	msgInvalidToken = "invalid or expired token"
)

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads "Authorization: Bearer <jwt>", validates the token, loads the user it
// names and stores that user in the request context. It answers 401 and stops
// the chain when the header is missing, the token is invalid or expired, or the
// user no longer exists (e.g. after the stores were reset).
func RequireAuth(tokens *TokenService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(r, tokens, users)
			if err != nil {
				msg := msgInvalidToken
				if errors.Is(err, errNoBearer) {
					msg = msgAuthRequired
				}
				writeUnauthorized(w, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present but never
// blocks the request. Handlers check UserFromContext to tell anonymous
// callers apart.
func OptionalAuth(tokens *TokenService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := authenticate(r, tokens, users); err == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
//
//	user, ok := auth.UserFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// MustUser is UserFromContext for handlers mounted behind RequireAuth. It
// panics when no user is present, which means the route is missing its
// middleware; chi's Recoverer turns that into a 500.
func MustUser(ctx context.Context) *model.User {
	u, ok := UserFromContext(ctx)
	if !ok {
		panic("auth: MustUser called on a request without an authenticated user")
	}
	return u
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func authenticate(r *http.Request, tokens *TokenService, users UserLookup) (*model.User, error) {
	raw, ok := BearerToken(r)
	if !ok {
		return nil, errNoBearer
	}

	claims, err := tokens.Validate(raw)
	if err != nil {
		return nil, err
	}

	user, err := users.GetByID(r.Context(), claims.UserID())
	if err != nil {
		return nil, errUnknownUser
	}
	if claims.Role != "" && claims.Role != user.Role {
		return nil, errRoleChanged
	}

	return user, nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  "unauthorized",
	})
}
