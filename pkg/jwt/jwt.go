package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ChannelClaims authorizes one merchant to open its realtime notification
// channel. Tokens are short-lived; the websocket handshake is their only use.
type ChannelClaims struct {
	MerchantID string `json:"merchantId"`
	jwt.RegisteredClaims
}

// ChannelTokenService issues and validates websocket channel tokens.
type ChannelTokenService struct {
	secret []byte
	expiry time.Duration
}

// NewChannelTokenService creates a new channel token service
func NewChannelTokenService(secret string, expiry time.Duration) *ChannelTokenService {
	return &ChannelTokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue generates a signed token for the merchant.
func (s *ChannelTokenService) Issue(merchantID string) (string, error) {
	if merchantID == "" {
		return "", ErrInvalidToken
	}
	now := time.Now()
	claims := ChannelClaims{
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   merchantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks a token and returns the merchant it authorizes.
func (s *ChannelTokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChannelClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*ChannelClaims)
	if !ok || !token.Valid || claims.MerchantID == "" {
		return "", ErrInvalidToken
	}
	return claims.MerchantID, nil
}
