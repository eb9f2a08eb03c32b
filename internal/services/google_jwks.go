package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const jwksLeeway = 30 * time.Second

var googleIssuers = map[string]bool{
	"https://accounts.google.com": true,
	"accounts.google.com":         true,
}

// GoogleClaims are the ID-token claims the auth service consumes.
type GoogleClaims struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleVerifier validates Google ID tokens against Google's JWKS endpoint.
type GoogleVerifier struct {
	clientID string
	keyfunc  keyfunc.Keyfunc
	parser   *jwt.Parser
}

func NewGoogleVerifier(clientID, jwksURL string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id must be set")
	}

	keyProvider, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init JWKS keyfunc: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithAudience(clientID),
		jwt.WithLeeway(jwksLeeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
	)

	return &GoogleVerifier{
		clientID: clientID,
		keyfunc:  keyProvider,
		parser:   parser,
	}, nil
}

// Verify parses and validates an ID token, returning the extracted claims.
func (v *GoogleVerifier) Verify(idToken string) (*GoogleClaims, error) {
	token, err := v.parser.Parse(idToken, v.keyfunc.Keyfunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	iss, _ := mapClaims["iss"].(string)
	if !googleIssuers[iss] {
		return nil, fmt.Errorf("unexpected issuer %q", iss)
	}

	claims := &GoogleClaims{}
	claims.Sub, _ = mapClaims["sub"].(string)
	claims.Email, _ = mapClaims["email"].(string)
	claims.EmailVerified, _ = mapClaims["email_verified"].(bool)
	claims.Name, _ = mapClaims["name"].(string)
	claims.Picture, _ = mapClaims["picture"].(string)

	if claims.Sub == "" {
		return nil, errors.New("token missing sub")
	}
	return claims, nil
}

// linkByEmail reports whether the identity may be matched to an existing
// account by email address. Unverified addresses only match on the Google
// subject.
func (c *GoogleClaims) linkByEmail() bool {
	return c.EmailVerified && c.Email != ""
}
