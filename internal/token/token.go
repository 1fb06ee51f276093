// Package token issues and verifies the HS256 access tokens handed out on
// signup and signin.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/config"
)

var Module = fx.Provide(
	func(cfg *config.Config) *Issuer {
		return New([]byte(cfg.JWTSecret), cfg.JWTTTL)
	},
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user id in "sub" and the email the token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func New(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: secret,
		ttl:    ttl,
	}
}

func (i *Issuer) Issue(userID uint64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the user id from the subject.
// Every failure is reported as ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (uint64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.Wrapf(ErrInvalidToken, "parse: %v", err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidToken, "bad subject")
	}
	return userID, nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}
