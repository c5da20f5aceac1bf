package web

import (
	"context"
	"crypto/subtle"
	"net/http"
)

// Role is the coarse-grained access level attached to a principal.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// CredentialStore authenticates a username/password pair and reports the
// principal's role. Implementations are swappable; the built-in one holds
// a fixed set of users in memory.
type CredentialStore interface {
	Authenticate(username, password string) (Role, bool)
}

// Credential is a (name, password, role) triple for the in-memory store.
type Credential struct {
	Name     string
	Password string
	Role     Role
}

type memoryUser struct {
	password string
	role     Role
}

// InMemoryCredentials is a CredentialStore backed by a static map.
type InMemoryCredentials struct {
	users map[string]memoryUser
}

// NewInMemoryCredentials builds a credential store from a fixed set of credentials.
func NewInMemoryCredentials(users []Credential) *InMemoryCredentials {
	m := make(map[string]memoryUser, len(users))
	for _, u := range users {
		m[u.Name] = memoryUser{password: u.Password, role: u.Role}
	}
	return &InMemoryCredentials{users: m}
}

// Authenticate checks the pair against the static map using a
// constant-time password comparison.
func (s *InMemoryCredentials) Authenticate(username, password string) (Role, bool) {
	u, ok := s.users[username]
	if !ok {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(u.password), []byte(password)) != 1 {
		return "", false
	}
	return u.role, true
}

type principalKey struct{}

// Principal is the authenticated identity placed on the request context.
type Principal struct {
	Name string
	Role Role
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Authorizer gates routes on HTTP basic auth and a role check.
// It runs strictly before any handler, so unauthenticated or
// under-privileged requests never reach the service layer.
type Authorizer struct {
	creds CredentialStore
	realm string
}

// NewAuthorizer creates an Authorizer over the given credential store.
func NewAuthorizer(creds CredentialStore, realm string) *Authorizer {
	return &Authorizer{creds: creds, realm: realm}
}

// Require returns a middleware that admits only principals holding one of
// the given roles. Missing or bad credentials yield 401; a valid principal
// with the wrong role yields 403.
func (a *Authorizer) Require(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				a.unauthorized(w)
				return
			}
			role, ok := a.creds.Authenticate(username, password)
			if !ok {
				a.unauthorized(w)
				return
			}
			allowed := false
			for _, want := range roles {
				if role == want {
					allowed = true
					break
				}
			}
			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey{}, Principal{Name: username, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authorizer) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+a.realm+`", charset="UTF-8"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
