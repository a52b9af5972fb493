// Package identity knows who is signed in. The user comes from the payload of
// a Google-style ID token kept in the system keyring. The token signature is
// not verified, the user only names playlist owners and contributors.
package identity

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoggedIn is returned when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in, run \"ytfree login\"")

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// claims is the part of the ID token payload ytfree reads.
type claims struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Decode extracts the user from the payload segment of a JWT.
func Decode(token string) (User, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return User{}, errors.New("malformed token: expected three segments")
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return User{}, fmt.Errorf("malformed token payload: %w", err)
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return User{}, fmt.Errorf("malformed token payload: %w", err)
	}

	if c.Subject == "" {
		return User{}, errors.New("token has no subject")
	}

	name := c.Name
	if name == "" {
		name, _, _ = strings.Cut(c.Email, "@")
	}

	return User{
		ID:     c.Subject,
		Name:   name,
		Email:  c.Email,
		Avatar: c.Picture,
	}, nil
}

// Login validates token and stores it.
func Login(token string) (User, error) {
	user, err := Decode(token)
	if err != nil {
		return User{}, err
	}

	if err := SetToken(strings.TrimSpace(token)); err != nil {
		return User{}, fmt.Errorf("store token: %w", err)
	}

	return user, nil
}

// Current returns the signed-in user.
func Current() (User, error) {
	token, err := GetToken()
	if err != nil {
		return User{}, err
	}
	return Decode(token)
}

// Logout forgets the stored token.
func Logout() error {
	return DeleteToken()
}
