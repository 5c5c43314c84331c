package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claimsData struct {
	UserID int64    `json:"userId"`
	Roles  []string `json:"roles"`
}

type claims struct {
	Data claimsData `json:"data"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(p Principal) (string, error) {
	roles := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = string(r)
	}
	c := claims{
		Data: claimsData{UserID: p.UserID, Roles: roles},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(t.now().Add(t.ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (t *Tokens) Parse(token string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Data.UserID <= 0 {
		return Principal{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	p := Principal{UserID: c.Data.UserID, Roles: make([]Role, len(c.Data.Roles))}
	for i, r := range c.Data.Roles {
		p.Roles[i] = Role(r)
	}
	return p, nil
}
