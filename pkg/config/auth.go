package config

import "fmt"

// UserConfig is a single statically configured principal.
type UserConfig struct {
	Name     string `koanf:"name"`
	Password string `koanf:"password"`
	Role     string `koanf:"role"`
}

// AuthConfig configures the in-memory credential store.
// Real deployments are expected to swap the credential store for an
// identity provider; the config shape only covers the built-in one.
type AuthConfig struct {
	Users []UserConfig `koanf:"users"`
}

func (c *AuthConfig) Validate() error {
	if len(c.Users) == 0 {
		return fmt.Errorf("auth: no users configured")
	}
	for _, u := range c.Users {
		if u.Name == "" || u.Password == "" {
			return fmt.Errorf("auth: user name and password must be set")
		}
		if u.Role != "admin" && u.Role != "user" {
			return fmt.Errorf("auth: unknown role %q for user %q", u.Role, u.Name)
		}
	}
	return nil
}
