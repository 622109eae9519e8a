package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of an issued session token.
const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens returns Tokens signing with secret.
func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for p valid for TokenTTL.
func (t *Tokens) Issue(p Principal) (string, error) {
	now := t.now()
	c := claims{
		UserID:   p.UserID,
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Parse verifies tokenString and returns its principal. Expired, malformed
// or foreign tokens yield ErrInvalidToken.
func (t *Tokens) Parse(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	c, ok := token.Claims.(*claims)
	if !ok || c.UserID <= 0 {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: c.UserID, Username: c.Username, Role: c.Role}, nil
}
