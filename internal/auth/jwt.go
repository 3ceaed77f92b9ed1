package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	accessTTL  = 30 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

// Tokens issues and verifies HS256 access/refresh pairs. Both carry the
// user id in "sub" and the role claim so admin checks work from the token
// alone.
type Tokens struct {
	Secret []byte
}

type Claims struct {
	UserID string
	Role   string
}

func (t *Tokens) sign(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return tok.SignedString(t.Secret)
}

// Issue returns an access token and a refresh token for the user.
func (t *Tokens) Issue(userID, role string) (access string, refresh string, err error) {
	if access, err = t.sign(userID, role, accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = t.sign(userID, role, refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify parses and validates a token and returns its claims.
func (t *Tokens) Verify(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	if role == "" {
		role = "user"
	}
	return Claims{UserID: sub, Role: role}, nil
}
