package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

var ErrNoSubject = errors.New("token has no subject")

// Claims holds the identity fields a storefront session cares about.
type Claims struct {
	Subject           string
	Email             string
	Name              string
	PreferredUsername string
}

// claimsFrom extracts identity claims from a verified token. Only the subject is mandatory.
func claimsFrom(token jwt.Token) (Claims, error) {
	subject, ok := token.Subject()
	if !ok || subject == "" {
		return Claims{}, ErrNoSubject
	}
	c := Claims{Subject: subject}
	c.Email = stringClaim(token, "email")
	c.Name = stringClaim(token, "name")
	c.PreferredUsername = stringClaim(token, "preferred_username")
	return c, nil
}

func stringClaim(token jwt.Token, name string) string {
	var v string
	if err := token.Get(name, &v); err != nil {
		return ""
	}
	return v
}

// BearerToken returns the token carried in the Authorization header, if any.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
