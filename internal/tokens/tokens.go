package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid share token")

// Issuer mints and verifies signed share tokens. The issuer claim is derived
// from the configured project name; expiry is configurable in seconds.
type Issuer struct {
	Secret  []byte
	Project string
	TTL     time.Duration
}

func NewIssuer(secret, project string, ttlSeconds int) *Issuer {
	return &Issuer{
		Secret:  []byte(secret),
		Project: project,
		TTL:     time.Duration(ttlSeconds) * time.Second,
	}
}

// ShareClaims is the payload embedded in a share link token.
type ShareClaims struct {
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	UserID     string `json:"userId"`
	DocumentID string `json:"documentId"`
	jwt.RegisteredClaims
}

// Generate creates a signed, time-bounded access token for one share target.
func (i *Issuer) Generate(email, phone, userID, documentID string) (string, error) {
	now := time.Now().UTC()
	claims := ShareClaims{
		Email:      email,
		Phone:      phone,
		UserID:     userID,
		DocumentID: documentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Project,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(i.Secret)
}

// Parse verifies a share token and returns its claims.
func (i *Issuer) Parse(raw string) (ShareClaims, error) {
	var claims ShareClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.Secret, nil
	}, jwt.WithIssuer(i.Project))
	if err != nil || !token.Valid {
		return ShareClaims{}, ErrInvalidToken
	}
	return claims, nil
}
