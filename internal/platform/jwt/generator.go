// Package jwtmw はログイントークンの発行と、それを検証するGinミドルウェアを提供します。
package jwtmw

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はログイントークンのクレームです。
// sub にはユーザーIDを10進文字列で入れます。数値のままだとJSONでfloat64に丸められるためです。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generator はログイントークンを発行します。
type Generator interface {
	GenerateToken(userID int64, email string) (string, error)
}

type generator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGenerator はHS256で署名するGeneratorを返します。ttl はトークンの有効期間です。
func NewGenerator(secret string, ttl time.Duration) Generator {
	return &generator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken は userID を sub に持つ署名済みトークンを返します。
func (g *generator) GenerateToken(userID int64, email string) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id %d", userID)
	}
	now := g.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
