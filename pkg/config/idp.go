package config

import (
	"fmt"
	"strings"
	"time"
)

// IdP configures the Keycloak realm used for buyer accounts.
// JwksURL and Issuer are derived from URL and Realm when left empty.
type IdP struct {
	URL         string        `koanf:"url"`
	Realm       string        `koanf:"realm"`
	ClientID    string        `koanf:"clientid"`
	Secret      string        `koanf:"secret"`
	JwksURL     string        `koanf:"jwksurl"`
	Issuer      string        `koanf:"issuer"`
	MinInterval time.Duration `koanf:"mininterval"`
	Timeout     time.Duration `koanf:"timeout"`
}

// String returns a string representation of the IdP configuration with the secret masked.
func (c *IdP) String() string {
	var b strings.Builder
	b.WriteString("\n--- Identity Provider ---\n")
	b.WriteString(fmt.Sprintf("  url: %s\n", c.URL))
	b.WriteString(fmt.Sprintf("  realm: %s\n", c.Realm))
	b.WriteString(fmt.Sprintf("  clientid: %s\n", c.ClientID))
	b.WriteString("  secret: ****\n")
	b.WriteString(fmt.Sprintf("  jwksurl: %s\n", c.JwksURL))
	b.WriteString(fmt.Sprintf("  issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  mininterval: %s\n", c.MinInterval))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *IdP) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("IdP URL cannot be empty")
	}
	if c.Realm == "" {
		return fmt.Errorf("IdP realm cannot be empty")
	}
	if c.ClientID == "" {
		return fmt.Errorf("IdP client ID cannot be empty")
	}
	if c.Secret == "" {
		return fmt.Errorf("IdP secret cannot be empty")
	}
	if c.MinInterval <= 0 {
		return fmt.Errorf("IdP minimum interval must be greater than zero")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("IdP timeout must be greater than zero")
	}
	realmURL := strings.TrimRight(c.URL, "/") + "/realms/" + c.Realm
	if c.Issuer == "" {
		c.Issuer = realmURL
	}
	if c.JwksURL == "" {
		c.JwksURL = realmURL + "/protocol/openid-connect/certs"
	}
	return nil
}
