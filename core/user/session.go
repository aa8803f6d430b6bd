package user

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var NowFunc = time.Now // mockable

// Phase is the coarse state the role router switches on.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "authenticated"
	}
}

// AuthState is what the session middleware resolves for every request.
type AuthState struct {
	Token   string
	User    *User
	Loading bool
}

func (s AuthState) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.User == nil:
		return PhaseUnauthenticated
	default:
		return PhaseAuthenticated
	}
}

func (s AuthState) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Rol
}

func (s AuthState) CanCreateActivities() bool {
	return s.User != nil && s.User.CanCreateActivities()
}

// Claims is the subset of the backend token claims the client reads.
// The backend signs the token; the client never verifies it, only reads expiry and subject.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Rol   string `json:"rol,omitempty"`
}

// UserID returns the numeric subject, or 0.
func (c Claims) UserID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

// ParseClaims reads token claims without verifying the signature.
// ok is false when token is not a JWT (opaque tokens are allowed).
func ParseClaims(token string) (claims Claims, ok bool) {
	parser := new(jwt.Parser)
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Claims{}, false
	}
	return claims, true
}

// TokenExpired reports whether token is a JWT whose exp has passed.
// Opaque tokens never expire client-side; the backend answers 401 instead.
func TokenExpired(token string) bool {
	if token == "" {
		return true
	}
	claims, ok := ParseClaims(token)
	if !ok || claims.ExpiresAt == 0 {
		return false
	}
	return NowFunc().Unix() > claims.ExpiresAt
}
